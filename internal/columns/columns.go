package columns

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jarv/ytgoat/internal/logging"
)

// Column names
const (
	Index          = "Index"
	DownloadStatus = "Download Status"
	WatchURL       = "Watch URL"
	Title          = "Title"
	Author         = "Author"
	Length         = "Length"
	PublishDate    = "Publish Date"
	Views          = "Views"
	ThumbnailURL   = "Thumbnail URL"
	Rating         = "Rating"
	VideoID        = "Video ID"
	Quality        = "Quality"
	FileSize       = "File Size (MB)"
	Description    = "Description"
)

// ErrMalformedConfig is returned by Restore when the serialized
// configuration cannot be applied
var ErrMalformedConfig = errors.New("malformed column configuration")

type Column struct {
	Name    string
	Visible bool
	Order   int
}

// DefaultColumns returns the initial configuration. Description is hidden.
func DefaultColumns() []Column {
	names := []string{
		Index, DownloadStatus, WatchURL, Title, Author, Length, PublishDate,
		Views, ThumbnailURL, Rating, VideoID, Quality, FileSize, Description,
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Visible: name != Description, Order: i}
	}
	return cols
}

// CellSink receives visibility changes for cells that are already rendered
type CellSink interface {
	SetColumnDisplay(name string, visible bool)
}

type ChangeKind int

const (
	ChangeVisibility ChangeKind = iota
	ChangeOrder
)

// Change describes a user driven modification of the configuration
type Change struct {
	Kind    ChangeKind
	Column  string
	Visible bool
}

// Manager holds the column configuration. It is not safe for concurrent
// use; the UI goroutine owns it.
type Manager struct {
	columns  []Column
	sinks    []CellSink
	onChange func(Change)
}

func NewManager(cols []Column, onChange func(Change)) *Manager {
	m := &Manager{
		columns:  make([]Column, len(cols)),
		onChange: onChange,
	}
	copy(m.columns, cols)
	return m
}

func NewDefaultManager(onChange func(Change)) *Manager {
	return NewManager(DefaultColumns(), onChange)
}

func (m *Manager) SetOnChange(fn func(Change)) {
	m.onChange = fn
}

// Attach registers s for visibility updates and returns a function that
// removes it again
func (m *Manager) Attach(s CellSink) (detach func()) {
	m.sinks = append(m.sinks, s)
	return func() {
		for i, existing := range m.sinks {
			if existing == s {
				m.sinks = append(m.sinks[:i], m.sinks[i+1:]...)
				return
			}
		}
	}
}

// Columns returns a copy of the configuration in insertion order
func (m *Manager) Columns() []Column {
	out := make([]Column, len(m.columns))
	copy(out, m.columns)
	return out
}

// Ordered returns a copy of the configuration stably sorted by Order
func (m *Manager) Ordered() []Column {
	return Sorted(m.columns)
}

// Sorted returns a copy of cols stably sorted by Order
func Sorted(cols []Column) []Column {
	out := make([]Column, len(cols))
	copy(out, cols)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// VisibleOrdered returns the visible columns in display order
func (m *Manager) VisibleOrdered() []Column {
	var out []Column
	for _, c := range m.Ordered() {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) Names() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// Visible reports the visibility of name; ok is false for unknown names
func (m *Manager) Visible(name string) (visible bool, ok bool) {
	if i := m.indexOf(name); i >= 0 {
		return m.columns[i].Visible, true
	}
	return false, false
}

// SetVisibility shows or hides name. It does nothing and returns false when
// the column already has that state or does not exist.
func (m *Manager) SetVisibility(name string, visible bool) bool {
	i := m.indexOf(name)
	if i < 0 {
		logging.Warn("Unknown column", "column", name)
		return false
	}
	return m.setVisibilityAt(i, visible, true)
}

// SetVisibilityAt is SetVisibility addressed by insertion index
func (m *Manager) SetVisibilityAt(index int, visible bool) bool {
	if index < 0 || index >= len(m.columns) {
		logging.Warn("Invalid column index", "index", index, "count", len(m.columns))
		return false
	}
	return m.setVisibilityAt(index, visible, true)
}

func (m *Manager) Toggle(name string) bool {
	visible, ok := m.Visible(name)
	if !ok {
		logging.Warn("Unknown column", "column", name)
		return false
	}
	return m.SetVisibility(name, !visible)
}

// ShowAll makes every column visible and returns how many changed
func (m *Manager) ShowAll() int {
	changed := 0
	for i := range m.columns {
		if m.setVisibilityAt(i, true, true) {
			changed++
		}
	}
	return changed
}

func (m *Manager) setVisibilityAt(i int, visible bool, notify bool) bool {
	col := &m.columns[i]
	if col.Visible == visible {
		return false
	}
	col.Visible = visible

	for _, s := range m.sinks {
		s.SetColumnDisplay(col.Name, visible)
	}

	if notify && m.onChange != nil {
		m.onChange(Change{Kind: ChangeVisibility, Column: col.Name, Visible: visible})
	}
	return true
}

// Move shifts name delta positions in display order by swapping it with its
// neighbours. Returns false if the column is unknown or already at the edge.
func (m *Manager) Move(name string, delta int) bool {
	if m.indexOf(name) < 0 {
		logging.Warn("Unknown column", "column", name)
		return false
	}

	ordered := m.Ordered()
	pos := -1
	for i, c := range ordered {
		if c.Name == name {
			pos = i
			break
		}
	}

	target := pos + delta
	if target < 0 {
		target = 0
	}
	if target > len(ordered)-1 {
		target = len(ordered) - 1
	}
	if target == pos {
		return false
	}

	moved := ordered[pos]
	ordered = append(ordered[:pos], ordered[pos+1:]...)
	ordered = append(ordered[:target], append([]Column{moved}, ordered[target:]...)...)

	for order, c := range ordered {
		m.columns[m.indexOf(c.Name)].Order = order
	}

	if m.onChange != nil {
		m.onChange(Change{Kind: ChangeOrder, Column: name})
	}
	return true
}

func (m *Manager) indexOf(name string) int {
	for i, c := range m.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// serializedColumn is the wire form stored by the backend
type serializedColumn struct {
	Label     *string `json:"label"`
	IsVisible *bool   `json:"isVisible"`
	Order     *int    `json:"order,omitempty"`
}

// Marshal serializes the configuration as [{label, isVisible, order}]
func (m *Manager) Marshal() ([]byte, error) {
	out := make([]serializedColumn, len(m.columns))
	for i := range m.columns {
		c := m.columns[i]
		out[i] = serializedColumn{Label: &c.Name, IsVisible: &c.Visible, Order: &c.Order}
	}
	return json.Marshal(out)
}

// Restore applies a configuration produced by Marshal. Entries are matched
// by name, unknown names are ignored and columns missing from data keep
// their state. Attached sinks are updated but the change callback is not
// invoked. A payload that fails validation is rejected as a whole.
//
// An empty payload, null or an empty object is the backend's unset value
// and restores nothing.
func (m *Manager) Restore(data []byte) error {
	entries, err := parseConfig(data)
	if err != nil {
		logging.Error("Rejected column configuration", "error", err)
		return err
	}

	reordered := false
	for _, e := range entries {
		i := m.indexOf(*e.Label)
		if i < 0 {
			logging.Debug("Ignoring unknown column in configuration", "column", *e.Label)
			continue
		}
		m.setVisibilityAt(i, *e.IsVisible, false)
		if e.Order != nil && m.columns[i].Order != *e.Order {
			m.columns[i].Order = *e.Order
			reordered = true
		}
	}

	if reordered {
		m.normalizeOrder()
	}
	return nil
}

// normalizeOrder renumbers Order to 0..n-1 keeping the current display order
func (m *Manager) normalizeOrder() {
	for order, c := range m.Ordered() {
		m.columns[m.indexOf(c.Name)].Order = order
	}
}

func parseConfig(data []byte) ([]serializedColumn, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("{}")) {
		return nil, nil
	}

	// Older clients stored the blob as a JSON encoded string
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
		}
		return parseConfig([]byte(inner))
	}

	if data[0] != '[' {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedConfig)
	}

	var entries []serializedColumn
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	for i, e := range entries {
		if e.Label == nil {
			return nil, fmt.Errorf("%w: entry %d has no label", ErrMalformedConfig, i)
		}
		if e.IsVisible == nil {
			return nil, fmt.Errorf("%w: entry %d (%s) has no isVisible", ErrMalformedConfig, i, *e.Label)
		}
	}
	return entries, nil
}
