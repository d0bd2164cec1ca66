package videos

import (
	"strconv"
	"strings"

	"github.com/jarv/ytgoat/internal/api"
)

// Item is one analysed video as shown by the client. Items are rebuilt from
// every poll response; only Selected is client state.
type Item struct {
	api.Record
	Selected bool
}

// ID returns the identity key used to match items across refreshes
func (i Item) ID() string {
	return i.VideoID
}

// SizeMB parses VideoSizeMB, returning 0 for unknown sizes
func (i Item) SizeMB() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(i.VideoSizeMB), 64)
	if err != nil {
		return 0
	}
	return v
}

func FromRecords(records []api.Record) []Item {
	items := make([]Item, len(records))
	for i, r := range records {
		items[i] = Item{Record: r}
	}
	return items
}

// Selectable reports whether the item has an id the backend can address.
// Items without one are never selected.
func (i Item) Selectable() bool {
	return i.ID() != ""
}

// TransferSelection copies the selection flag from prev onto next by video
// id. Items of next with no counterpart in prev end up unselected, and next
// keeps its own order and field values. Items sharing an id share the flag.
func TransferSelection(prev, next []Item) []Item {
	selected := make(map[string]bool, len(prev))
	for _, item := range prev {
		if item.Selected && item.Selectable() {
			selected[item.ID()] = true
		}
	}

	for i := range next {
		next[i].Selected = next[i].Selectable() && selected[next[i].ID()]
	}
	return next
}

// Toggle flips the selection of every item with id and returns the new
// state. ok is false when id is empty or no item has it.
func Toggle(items []Item, id string) (selected bool, ok bool) {
	if id == "" {
		return false, false
	}
	for i := range items {
		if items[i].ID() != id {
			continue
		}
		if !ok {
			selected = !items[i].Selected
			ok = true
		}
		items[i].Selected = selected
	}
	return selected, ok
}

// SelectedIDs returns the ids of the selected items in list order
func SelectedIDs(items []Item) []string {
	var ids []string
	for _, item := range items {
		if item.Selected {
			ids = append(ids, item.ID())
		}
	}
	return ids
}

// SelectAll marks every item selected and returns the ids that changed
func SelectAll(items []Item) []string {
	return setAll(items, true)
}

// ClearSelection unselects every item and returns the ids that changed
func ClearSelection(items []Item) []string {
	return setAll(items, false)
}

func setAll(items []Item, selected bool) []string {
	var changed []string
	for i := range items {
		if selected && !items[i].Selectable() {
			continue
		}
		if items[i].Selected != selected {
			items[i].Selected = selected
			changed = append(changed, items[i].ID())
		}
	}
	return changed
}

// Stats summarises a list for the status bar
type Stats struct {
	Total    int
	Selected int
	ByStatus map[string]int
	SizeMB   float64
}

func Summarize(items []Item) Stats {
	stats := Stats{Total: len(items), ByStatus: make(map[string]int)}
	for _, item := range items {
		if item.Selected {
			stats.Selected++
		}
		status := strings.ToLower(strings.TrimSpace(item.DownloadStatus))
		if status == "" {
			status = "unknown"
		}
		stats.ByStatus[status]++
		stats.SizeMB += item.SizeMB()
	}
	return stats
}
