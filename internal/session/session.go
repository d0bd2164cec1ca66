package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/poll"
	"github.com/jarv/ytgoat/internal/render"
	"github.com/jarv/ytgoat/internal/videos"
)

// ErrAlreadyPolling is returned by Watch when a poll session is running
var ErrAlreadyPolling = errors.New("a poll session is already running")

// Backend is the part of the api client the session needs
type Backend interface {
	GetState(ctx context.Context) api.State
	GetStatusMsg(ctx context.Context) string
	GetProgress(ctx context.Context) float64
	GetVideoItemList(ctx context.Context) ([]api.Record, error)
	GetClientState(ctx context.Context) (api.ClientState, error)
	UpdateClientState(ctx context.Context, update api.ClientStateUpdate) error
}

type Options struct {
	Poll     poll.Config
	ViewMode render.Mode
	// Columns overrides the default column configuration
	Columns []columns.Column
}

// Snapshot is the result of one round of backend calls
type Snapshot struct {
	State     api.State
	StatusMsg string
	Progress  float64
	Records   []api.Record
	ListErr   error
	FetchedAt time.Time
}

// Settings is what LoadSettings applied from the backend
type Settings struct {
	ViewMode     render.Mode
	BackendTheme string
	Limits       api.UISettings
}

// Controller owns the client side view state. Fetch may run on any
// goroutine; every other method must be called from the goroutine that owns
// the controller (the bubbletea update loop or the Watch loop).
type Controller struct {
	backend Backend
	columns *columns.Manager
	poll    *poll.Controller
	bus     *Bus

	items       []videos.Item
	frame       *render.Frame
	detachFrame func()
	mode        render.Mode

	state    api.State
	status   string
	progress float64

	limits       api.UISettings
	backendTheme string
}

func New(backend Backend, opts Options) (*Controller, error) {
	cols := opts.Columns
	if cols == nil {
		cols = columns.DefaultColumns()
	}
	if err := render.Validate(cols); err != nil {
		return nil, err
	}

	mode := opts.ViewMode
	if mode == "" {
		mode = render.ModeTable
	}

	c := &Controller{
		backend: backend,
		poll:    poll.New(opts.Poll),
		bus:     NewBus(),
		mode:    mode,
		state:   api.StateUnknown,
	}
	c.columns = columns.NewManager(cols, c.onColumnsChanged)
	c.rebuildFrame()
	return c, nil
}

func (c *Controller) Bus() *Bus                 { return c.bus }
func (c *Controller) Columns() *columns.Manager { return c.columns }
func (c *Controller) Poll() *poll.Controller    { return c.poll }
func (c *Controller) Frame() *render.Frame      { return c.frame }
func (c *Controller) Mode() render.Mode         { return c.mode }
func (c *Controller) State() api.State          { return c.state }
func (c *Controller) StatusMsg() string         { return c.status }
func (c *Controller) Progress() float64         { return c.progress }
func (c *Controller) Limits() api.UISettings    { return c.limits }
func (c *Controller) BackendTheme() string      { return c.backendTheme }

// Items returns a copy of the current list
func (c *Controller) Items() []videos.Item {
	out := make([]videos.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the item at position i of the current list
func (c *Controller) Item(i int) (videos.Item, bool) {
	if i < 0 || i >= len(c.items) {
		return videos.Item{}, false
	}
	return c.items[i], true
}

// Fetch queries the backend. It only performs IO and does not touch the
// controller state.
func (c *Controller) Fetch(ctx context.Context) Snapshot {
	snap := Snapshot{
		State:     c.backend.GetState(ctx),
		StatusMsg: c.backend.GetStatusMsg(ctx),
		Progress:  c.backend.GetProgress(ctx),
	}
	snap.Records, snap.ListErr = c.backend.GetVideoItemList(ctx)
	snap.FetchedAt = time.Now()
	return snap
}

// Apply makes snap the current view. When the list could not be fetched the
// previous items stay on screen.
func (c *Controller) Apply(snap Snapshot) {
	prev := c.state
	changed := prev != snap.State || c.status != snap.StatusMsg || c.progress != snap.Progress
	c.state = snap.State
	c.status = snap.StatusMsg
	c.progress = snap.Progress

	if changed {
		c.bus.Publish(StateChanged{
			Previous: prev,
			Current:  snap.State,
			Status:   snap.StatusMsg,
			Progress: snap.Progress,
		})
	}

	if snap.ListErr != nil {
		logging.Error("Skipping list refresh", "error", snap.ListErr)
		return
	}

	next := videos.TransferSelection(c.items, videos.FromRecords(snap.Records))
	c.items = next
	c.rebuildFrame()

	c.bus.Publish(ItemsRefreshed{
		Count:    len(next),
		Selected: len(videos.SelectedIDs(next)),
	})
}

func (c *Controller) rebuildFrame() {
	if c.detachFrame != nil {
		c.detachFrame()
	}
	c.frame = render.Build(c.items, c.columns.Columns(), c.mode)
	c.detachFrame = c.columns.Attach(c.frame)
}

func (c *Controller) onColumnsChanged(change columns.Change) {
	// Visibility changes reach the frame through the sink. Reordering needs
	// the cells laid out again.
	if change.Kind == columns.ChangeOrder {
		c.rebuildFrame()
	}
	c.bus.Publish(ColumnsChanged{Change: change})
}

// Toggle flips the selection of one item and restyles only its unit
func (c *Controller) Toggle(id string) bool {
	selected, ok := videos.Toggle(c.items, id)
	if !ok {
		logging.Warn("Toggle for unknown item", "video_id", id)
		return false
	}
	c.frame.SetSelected(id, selected)
	c.publishSelection([]string{id})
	return true
}

func (c *Controller) SelectAll() {
	changed := videos.SelectAll(c.items)
	for _, id := range changed {
		c.frame.SetSelected(id, true)
	}
	c.publishSelection(changed)
}

func (c *Controller) ClearSelection() {
	changed := videos.ClearSelection(c.items)
	for _, id := range changed {
		c.frame.SetSelected(id, false)
	}
	c.publishSelection(changed)
}

func (c *Controller) SelectedIDs() []string {
	return videos.SelectedIDs(c.items)
}

func (c *Controller) publishSelection(ids []string) {
	if len(ids) == 0 {
		return
	}
	c.bus.Publish(SelectionChanged{IDs: ids, Selected: len(c.SelectedIDs())})
}

func (c *Controller) SetMode(mode render.Mode) {
	if mode == c.mode {
		return
	}
	c.mode = mode
	c.frame.SetMode(mode)
	c.bus.Publish(ViewModeChanged{Mode: mode})
}

func (c *Controller) SetBackendTheme(name string) {
	c.backendTheme = name
}

// LoadSettings reads the client state stored by the backend and applies the
// view mode, theme and column configuration. Nothing is applied when the
// request fails or the column configuration is malformed.
func (c *Controller) LoadSettings(ctx context.Context) (Settings, error) {
	state, err := c.FetchSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	return c.ApplySettings(state)
}

// FetchSettings reads the stored client state without applying it. Like
// Fetch it may run on any goroutine.
func (c *Controller) FetchSettings(ctx context.Context) (api.ClientState, error) {
	return c.backend.GetClientState(ctx)
}

// ApplySettings applies client state returned by FetchSettings
func (c *Controller) ApplySettings(state api.ClientState) (Settings, error) {
	if err := c.columns.Restore(state.ColumnVisibility); err != nil {
		return Settings{}, fmt.Errorf("failed to restore columns: %w", err)
	}
	// Restore may have changed the order, which the sink does not cover
	c.rebuildFrame()

	c.limits = api.UISettings{
		AudioBitrate:    state.UISettings.AudioBitrate,
		VideoResolution: state.UISettings.VideoResolution,
		FpsValue:        state.UISettings.FpsValue,
	}
	if state.UISettings.CurrentTheme != "" {
		c.backendTheme = state.UISettings.CurrentTheme
	}
	if state.UISettings.ViewMode != "" {
		c.SetMode(render.ParseMode(state.UISettings.ViewMode))
	}

	return Settings{ViewMode: c.mode, BackendTheme: c.backendTheme, Limits: c.limits}, nil
}

// SettingsPayload builds the update posted to the backend. Limiter values
// are sent back exactly as they were loaded.
func (c *Controller) SettingsPayload() (api.ClientStateUpdate, error) {
	cols, err := c.columns.Marshal()
	if err != nil {
		return api.ClientStateUpdate{}, err
	}

	ui := c.limits
	ui.CurrentTheme = c.backendTheme
	ui.ViewMode = string(c.mode)

	return api.ClientStateUpdate{
		AudioBitrate:     c.limits.AudioBitrate,
		VideoResolution:  c.limits.VideoResolution,
		FpsValue:         c.limits.FpsValue,
		UISettings:       ui,
		ColumnVisibility: cols,
	}, nil
}

// SaveSettings posts SettingsPayload to the backend
func (c *Controller) SaveSettings(ctx context.Context) error {
	payload, err := c.SettingsPayload()
	if err != nil {
		return err
	}
	return c.backend.UpdateClientState(ctx, payload)
}

// Watch polls on the calling goroutine and writes one line per refresh to
// out until the backend stays idle or ctx is done.
func (c *Controller) Watch(ctx context.Context, out io.Writer) error {
	var snap Snapshot
	fetch := func(ctx context.Context) api.State {
		snap = c.Fetch(ctx)
		return snap.State
	}
	refresh := func(ctx context.Context, _ api.State) {
		c.Apply(snap)
		if _, err := fmt.Fprintln(out, FormatSnapshot(snap, len(c.items))); err != nil {
			logging.Warn("Failed to write watch output", "error", err)
		}
	}

	if !c.poll.Run(ctx, fetch, refresh) {
		return ErrAlreadyPolling
	}
	return ctx.Err()
}

// FormatSnapshot renders the one line summary printed by Watch
func FormatSnapshot(snap Snapshot, items int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-8s %6.2f%%", snap.FetchedAt.Format("15:04:05"), snap.State, snap.Progress)
	if snap.ListErr != nil {
		b.WriteString("  items: unavailable")
	} else {
		fmt.Fprintf(&b, "  items: %d", items)
	}
	if msg := strings.TrimSpace(snap.StatusMsg); msg != "" {
		b.WriteString("  ")
		b.WriteString(msg)
	}
	return b.String()
}

// Close stops polling and drops every subscription
func (c *Controller) Close() {
	c.poll.Stop()
	if c.detachFrame != nil {
		c.detachFrame()
		c.detachFrame = nil
	}
	c.columns.SetOnChange(nil)
	c.bus.Close()
}
