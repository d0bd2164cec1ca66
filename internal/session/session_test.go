package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/poll"
	"github.com/jarv/ytgoat/internal/render"
)

type fakeBackend struct {
	mu       sync.Mutex
	states   []api.State
	status   string
	progress float64
	records  []api.Record
	listErr  error
	client   api.ClientState
	stateErr error
	posted   []api.ClientStateUpdate
}

func (f *fakeBackend) GetState(context.Context) api.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.states) == 0 {
		return api.StateIdle
	}
	s := f.states[0]
	if len(f.states) > 1 {
		f.states = f.states[1:]
	}
	return s
}

func (f *fakeBackend) GetStatusMsg(context.Context) string { return f.status }
func (f *fakeBackend) GetProgress(context.Context) float64 { return f.progress }

func (f *fakeBackend) GetVideoItemList(context.Context) ([]api.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.Record(nil), f.records...), nil
}

func (f *fakeBackend) GetClientState(context.Context) (api.ClientState, error) {
	return f.client, f.stateErr
}

func (f *fakeBackend) UpdateClientState(_ context.Context, u api.ClientStateUpdate) error {
	f.posted = append(f.posted, u)
	return nil
}

func newTestController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()
	c, err := New(backend, Options{Poll: poll.Config{MaxIdleChecks: 3}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func recordEvents(c *Controller) *[]Event {
	var events []Event
	c.Bus().SubscribeAll(func(e Event) { events = append(events, e) })
	return &events
}

func TestNewRejectsUnknownColumns(t *testing.T) {
	_, err := New(&fakeBackend{}, Options{Columns: []columns.Column{{Name: "Likes"}}})
	if !errors.Is(err, render.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestInitialFrameIsPlaceholder(t *testing.T) {
	c := newTestController(t, &fakeBackend{})
	if !c.Frame().Empty() {
		t.Error("a new controller should show the placeholder")
	}
	if c.State() != api.StateUnknown {
		t.Errorf("initial state = %q", c.State())
	}
}

func TestApplyTransfersSelection(t *testing.T) {
	backend := &fakeBackend{records: []api.Record{{VideoID: "1"}}}
	c := newTestController(t, backend)

	c.Apply(c.Fetch(context.Background()))
	c.Toggle("1")

	backend.records = []api.Record{{VideoID: "1", Title: "updated"}, {VideoID: "2"}}
	c.Apply(c.Fetch(context.Background()))

	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Selected || items[1].Selected {
		t.Errorf("selection = %v %v, want true false", items[0].Selected, items[1].Selected)
	}
	if items[0].Title != "updated" {
		t.Errorf("expected fresh fields, got %q", items[0].Title)
	}

	u, _ := c.Frame().Unit(0)
	if !u.Selected {
		t.Error("frame should reflect the transferred selection")
	}
}

func TestApplyKeepsItemsOnListError(t *testing.T) {
	backend := &fakeBackend{records: []api.Record{{VideoID: "1"}}, status: "ready"}
	c := newTestController(t, backend)
	c.Apply(c.Fetch(context.Background()))
	frame := c.Frame()

	backend.listErr = errors.New("connection refused")
	backend.status = "still ready"
	events := recordEvents(c)
	c.Apply(c.Fetch(context.Background()))

	if len(c.Items()) != 1 || c.Frame() != frame {
		t.Error("a failed list fetch must keep the previous items and frame")
	}
	if c.StatusMsg() != "still ready" {
		t.Errorf("status should still update, got %q", c.StatusMsg())
	}
	for _, e := range *events {
		if e.Type() == EventItemsRefreshed {
			t.Error("no ItemsRefreshed expected when the list failed")
		}
	}
}

func TestApplyEmptyListAfterItems(t *testing.T) {
	backend := &fakeBackend{records: []api.Record{{VideoID: "1"}, {VideoID: "2"}}}
	c := newTestController(t, backend)
	c.Apply(c.Fetch(context.Background()))

	backend.records = nil
	c.Apply(c.Fetch(context.Background()))

	if !c.Frame().Empty() || c.Frame().Len() != 1 {
		t.Error("empty list should leave exactly one placeholder")
	}
}

func TestEvents(t *testing.T) {
	backend := &fakeBackend{
		states:   []api.State{api.StateDownload},
		status:   "Downloading",
		progress: 12.5,
		records:  []api.Record{{VideoID: "1"}, {VideoID: "2"}},
	}
	c := newTestController(t, backend)
	events := recordEvents(c)

	c.Apply(c.Fetch(context.Background()))
	c.Toggle("2")
	c.Columns().SetVisibility(columns.Title, false)
	c.SetMode(render.ModeGrid)

	var types []EventType
	for _, e := range *events {
		types = append(types, e.Type())
	}
	want := []EventType{EventStateChanged, EventItemsRefreshed, EventSelectionChanged, EventColumnsChanged, EventViewModeChanged}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("events = %v, want %v", types, want)
	}

	sc := (*events)[0].(StateChanged)
	if sc.Previous != api.StateUnknown || sc.Current != api.StateDownload || sc.Progress != 12.5 {
		t.Errorf("unexpected StateChanged %+v", sc)
	}
	sel := (*events)[2].(SelectionChanged)
	if !reflect.DeepEqual(sel.IDs, []string{"2"}) || sel.Selected != 1 {
		t.Errorf("unexpected SelectionChanged %+v", sel)
	}

	// Same snapshot again: no state change, items refreshed
	*events = nil
	c.Apply(c.Fetch(context.Background()))
	if len(*events) != 1 || (*events)[0].Type() != EventItemsRefreshed {
		t.Errorf("unexpected events on identical snapshot: %v", *events)
	}
}

func TestColumnVisibilityUpdatesFrameInPlace(t *testing.T) {
	backend := &fakeBackend{records: []api.Record{{VideoID: "1", Author: "Rob"}}}
	c := newTestController(t, backend)
	c.Apply(c.Fetch(context.Background()))
	frame := c.Frame()

	c.Columns().SetVisibility(columns.Author, false)
	if c.Frame() != frame {
		t.Error("visibility changes must not rebuild the frame")
	}
	for _, h := range frame.VisibleHeaders() {
		if h == columns.Author {
			t.Error("author header still visible")
		}
	}

	c.Columns().Move(columns.Author, -1)
	if c.Frame() == frame {
		t.Error("reordering should rebuild the frame")
	}
}

func TestSelectAllAndClear(t *testing.T) {
	backend := &fakeBackend{records: []api.Record{{VideoID: "a"}, {VideoID: "b"}}}
	c := newTestController(t, backend)
	c.Apply(c.Fetch(context.Background()))

	c.SelectAll()
	if got := c.SelectedIDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("SelectedIDs() = %v", got)
	}
	c.ClearSelection()
	if got := c.SelectedIDs(); len(got) != 0 {
		t.Errorf("SelectedIDs() after clear = %v", got)
	}
	if c.Toggle("missing") {
		t.Error("toggling an unknown id should report false")
	}
}

func TestLoadSettings(t *testing.T) {
	backend := &fakeBackend{client: api.ClientState{
		UISettings: api.UISettings{
			AudioBitrate: json.RawMessage(`"160"`),
			FpsValue:     json.RawMessage(`30`),
			CurrentTheme: "light-theme",
			ViewMode:     "grid",
		},
		ColumnVisibility: json.RawMessage(`[{"label": "Views", "isVisible": false}]`),
	}}
	c := newTestController(t, backend)

	settings, err := c.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings.ViewMode != render.ModeGrid || c.Mode() != render.ModeGrid {
		t.Errorf("view mode = %q", c.Mode())
	}
	if settings.BackendTheme != "light-theme" {
		t.Errorf("theme = %q", settings.BackendTheme)
	}
	if v, _ := c.Columns().Visible(columns.Views); v {
		t.Error("Views should be hidden")
	}

	if err := c.SaveSettings(context.Background()); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	posted := backend.posted[0]
	if string(posted.AudioBitrate) != `"160"` || string(posted.FpsValue) != `30` {
		t.Errorf("limiters not round-tripped: %s %s", posted.AudioBitrate, posted.FpsValue)
	}
	if posted.UISettings.ViewMode != "grid" || posted.UISettings.CurrentTheme != "light-theme" {
		t.Errorf("unexpected ui settings %+v", posted.UISettings)
	}
	if !strings.Contains(string(posted.ColumnVisibility), `{"label":"Views","isVisible":false`) {
		t.Errorf("unexpected column blob %s", posted.ColumnVisibility)
	}
}

func TestLoadSettingsMalformedAppliesNothing(t *testing.T) {
	backend := &fakeBackend{client: api.ClientState{
		UISettings:       api.UISettings{ViewMode: "grid", CurrentTheme: "light-theme"},
		ColumnVisibility: json.RawMessage(`[{"label": "Views"}]`),
	}}
	c := newTestController(t, backend)

	if _, err := c.LoadSettings(context.Background()); !errors.Is(err, columns.ErrMalformedConfig) {
		t.Fatalf("expected ErrMalformedConfig, got %v", err)
	}
	if c.Mode() != render.ModeTable || c.BackendTheme() != "" {
		t.Error("malformed settings must not be partially applied")
	}

	backend.stateErr = errors.New("offline")
	if _, err := c.LoadSettings(context.Background()); err == nil {
		t.Error("expected transport error")
	}
}

func TestRestoreDoesNotPostBack(t *testing.T) {
	backend := &fakeBackend{client: api.ClientState{
		ColumnVisibility: json.RawMessage(`[{"label": "Title", "isVisible": false}]`),
	}}
	c := newTestController(t, backend)
	events := recordEvents(c)

	if _, err := c.LoadSettings(context.Background()); err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	for _, e := range *events {
		if e.Type() == EventColumnsChanged {
			t.Error("restoring settings should not publish ColumnsChanged")
		}
	}
}

func TestWatch(t *testing.T) {
	backend := &fakeBackend{
		states:  []api.State{api.StateDownload, api.StateIdle},
		status:  "Downloading 2 items",
		records: []api.Record{{VideoID: "1"}},
	}
	c := newTestController(t, backend)

	var out bytes.Buffer
	if err := c.Watch(context.Background(), &out); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// One DOWNLOAD observation, then three IDLE ones
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "DOWNLOAD") || !strings.Contains(lines[0], "items: 1") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if c.Poll().Active() {
		t.Error("poll session should have ended")
	}
}

func TestWatchWhileActive(t *testing.T) {
	c := newTestController(t, &fakeBackend{})
	c.Poll().Start()

	if err := c.Watch(context.Background(), &bytes.Buffer{}); !errors.Is(err, ErrAlreadyPolling) {
		t.Errorf("expected ErrAlreadyPolling, got %v", err)
	}
}

func TestCloseDropsSubscribers(t *testing.T) {
	backend := &fakeBackend{records: []api.Record{{VideoID: "1"}}}
	c, err := New(backend, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	calls := 0
	c.Bus().SubscribeAll(func(Event) { calls++ })
	c.Poll().Start()

	c.Close()
	c.Apply(c.Fetch(context.Background()))

	if calls != 0 {
		t.Errorf("expected no events after Close, got %d", calls)
	}
	if c.Poll().Active() {
		t.Error("Close should stop polling")
	}
}
