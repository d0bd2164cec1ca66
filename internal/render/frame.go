package render

import (
	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/videos"
)

type Mode string

const (
	ModeTable Mode = "table"
	ModeGrid  Mode = "grid"
)

func ParseMode(s string) Mode {
	if Mode(s) == ModeGrid {
		return ModeGrid
	}
	return ModeTable
}

// PlaceholderText is shown when the list is empty
const PlaceholderText = "No items available"

type Cell struct {
	Column string
	Text   string
	Hidden bool
}

// Unit is one rendered row or card
type Unit struct {
	ID          string
	Ordinal     int
	Selected    bool
	Placeholder bool
	Cells       []Cell
}

// Frame is the retained output of one render. Column visibility and item
// selection can be changed in place without building a new frame.
type Frame struct {
	mode    Mode
	headers []Cell
	units   []Unit
	byID    map[string]int
}

// Build renders items against cols. Every column gets a cell, hidden ones
// are flagged so they can be shown later without rebuilding. Columns are
// laid out in configuration order and units in fetch order.
func Build(items []videos.Item, cols []columns.Column, mode Mode) *Frame {
	ordered := columns.Sorted(cols)

	f := &Frame{
		mode: mode,
		byID: make(map[string]int, len(items)),
	}

	for _, c := range ordered {
		f.headers = append(f.headers, Cell{Column: c.Name, Text: c.Name, Hidden: !c.Visible})
	}

	if len(items) == 0 {
		f.units = []Unit{{Placeholder: true, Cells: []Cell{{Text: PlaceholderText}}}}
		return f
	}

	for i, item := range items {
		u := Unit{
			ID:       item.ID(),
			Ordinal:  i + 1,
			Selected: item.Selected,
			Cells:    make([]Cell, 0, len(ordered)),
		}
		for _, c := range ordered {
			text, err := CellText(c.Name, i, item)
			if err != nil {
				logging.Warn("Skipping column without renderer", "column", c.Name)
				continue
			}
			u.Cells = append(u.Cells, Cell{Column: c.Name, Text: text, Hidden: !c.Visible})
		}
		if _, dup := f.byID[u.ID]; !dup && u.ID != "" {
			f.byID[u.ID] = len(f.units)
		}
		f.units = append(f.units, u)
	}

	return f
}

func (f *Frame) Mode() Mode {
	return f.mode
}

// SetMode switches between table and card layout. The cells are shared by
// both layouts so nothing is rebuilt.
func (f *Frame) SetMode(mode Mode) {
	f.mode = mode
}

func (f *Frame) Len() int {
	return len(f.units)
}

// Empty reports whether the frame only holds the placeholder
func (f *Frame) Empty() bool {
	return len(f.units) == 1 && f.units[0].Placeholder
}

func (f *Frame) Unit(i int) (Unit, bool) {
	if i < 0 || i >= len(f.units) {
		return Unit{}, false
	}
	return f.units[i], true
}

// IndexOf returns the unit position of id, or -1
func (f *Frame) IndexOf(id string) int {
	if i, ok := f.byID[id]; ok {
		return i
	}
	return -1
}

// VisibleHeaders returns the names of the displayed columns in order
func (f *Frame) VisibleHeaders() []string {
	var out []string
	for _, h := range f.headers {
		if !h.Hidden {
			out = append(out, h.Text)
		}
	}
	return out
}

// SetColumnDisplay shows or hides the cells of one column in every unit
func (f *Frame) SetColumnDisplay(name string, visible bool) {
	for i := range f.headers {
		if f.headers[i].Column == name {
			f.headers[i].Hidden = !visible
		}
	}
	for u := range f.units {
		cells := f.units[u].Cells
		for c := range cells {
			if cells[c].Column == name {
				cells[c].Hidden = !visible
			}
		}
	}
}

// SetSelected updates the selection style of the units for id only
func (f *Frame) SetSelected(id string, selected bool) bool {
	if f.IndexOf(id) < 0 {
		return false
	}
	for i := range f.units {
		if f.units[i].ID == id {
			f.units[i].Selected = selected
		}
	}
	return true
}

// visibleCells returns the displayed cells of u
func visibleCells(u Unit) []Cell {
	out := make([]Cell, 0, len(u.Cells))
	for _, c := range u.Cells {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}
