package videos

import (
	"reflect"
	"testing"

	"github.com/jarv/ytgoat/internal/api"
)

func item(id string, selected bool) Item {
	return Item{Record: api.Record{VideoID: id, Title: "title " + id}, Selected: selected}
}

func TestTransferSelection(t *testing.T) {
	prev := []Item{item("1", true)}
	next := FromRecords([]api.Record{
		{VideoID: "1", Title: "renamed"},
		{VideoID: "2"},
	})

	got := TransferSelection(prev, next)

	if !got[0].Selected {
		t.Error("item 1 should keep its selection")
	}
	if got[1].Selected {
		t.Error("item 2 should be unselected")
	}
	if got[0].Title != "renamed" {
		t.Errorf("fields must come from the new list, got title %q", got[0].Title)
	}
}

func TestTransferSelectionMatchesByID(t *testing.T) {
	tests := []struct {
		name string
		prev []Item
		next []Item
		want []bool
	}{
		{
			name: "reordered list",
			prev: []Item{item("a", true), item("b", false), item("c", true)},
			next: []Item{item("c", false), item("a", false), item("b", false)},
			want: []bool{true, true, false},
		},
		{
			name: "item removed upstream",
			prev: []Item{item("a", true), item("b", true)},
			next: []Item{item("b", false)},
			want: []bool{true},
		},
		{
			name: "stale flag in new list cleared",
			prev: []Item{item("a", false)},
			next: []Item{item("a", true), item("z", true)},
			want: []bool{false, false},
		},
		{
			name: "empty previous list",
			prev: nil,
			next: []Item{item("a", false)},
			want: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransferSelection(tt.prev, tt.next)
			var flags []bool
			for _, it := range got {
				flags = append(flags, it.Selected)
			}
			if !reflect.DeepEqual(flags, tt.want) {
				t.Errorf("selection = %v, want %v", flags, tt.want)
			}
		})
	}
}

func TestSelectionWithoutUniqueIDs(t *testing.T) {
	tests := []struct {
		name string
		prev []Item
		next []Item
		want []bool
	}{
		{
			name: "selected item without id",
			prev: []Item{item("", true)},
			next: []Item{item("", false), item("", false)},
			want: []bool{false, false},
		},
		{
			name: "id less items next to a selected one",
			prev: []Item{item("a", true), item("", true)},
			next: []Item{item("", false), item("a", false)},
			want: []bool{false, true},
		},
		{
			name: "duplicate ids share the flag",
			prev: []Item{item("a", true)},
			next: []Item{item("a", false), item("b", false), item("a", false)},
			want: []bool{true, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransferSelection(tt.prev, tt.next)
			var flags []bool
			for _, it := range got {
				flags = append(flags, it.Selected)
			}
			if !reflect.DeepEqual(flags, tt.want) {
				t.Errorf("selection = %v, want %v", flags, tt.want)
			}
		})
	}
}

func TestToggleWithoutUniqueIDs(t *testing.T) {
	items := []Item{item("", false), item("a", false), item("", false), item("a", false)}

	if _, ok := Toggle(items, ""); ok {
		t.Error("Toggle(\"\") should report not found")
	}
	for i, it := range items {
		if it.Selected {
			t.Errorf("item %d selected by an empty id toggle", i)
		}
	}

	if sel, ok := Toggle(items, "a"); !ok || !sel {
		t.Fatalf("Toggle(a) = %v, %v", sel, ok)
	}
	if !items[1].Selected || !items[3].Selected {
		t.Errorf("both items with id a should be selected: %v %v", items[1].Selected, items[3].Selected)
	}

	if sel, _ := Toggle(items, "a"); sel || items[1].Selected || items[3].Selected {
		t.Error("second toggle should unselect every item with id a")
	}

	if changed := SelectAll(items); !reflect.DeepEqual(changed, []string{"a", "a"}) {
		t.Errorf("SelectAll() changed %v", changed)
	}
	if items[0].Selected || items[2].Selected {
		t.Error("SelectAll() must skip items without an id")
	}
}

func TestToggleAndSelectedIDs(t *testing.T) {
	items := []Item{item("a", false), item("b", false), item("c", false)}

	if sel, ok := Toggle(items, "c"); !ok || !sel {
		t.Fatalf("Toggle(c) = %v, %v", sel, ok)
	}
	if sel, ok := Toggle(items, "a"); !ok || !sel {
		t.Fatalf("Toggle(a) = %v, %v", sel, ok)
	}
	if _, ok := Toggle(items, "missing"); ok {
		t.Error("Toggle(missing) should report not found")
	}

	if got := SelectedIDs(items); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("SelectedIDs() = %v", got)
	}

	if sel, _ := Toggle(items, "a"); sel {
		t.Error("second toggle should unselect")
	}
}

func TestSelectAllAndClear(t *testing.T) {
	items := []Item{item("a", true), item("b", false)}

	if changed := SelectAll(items); !reflect.DeepEqual(changed, []string{"b"}) {
		t.Errorf("SelectAll() changed %v", changed)
	}
	if changed := ClearSelection(items); !reflect.DeepEqual(changed, []string{"a", "b"}) {
		t.Errorf("ClearSelection() changed %v", changed)
	}
	if ids := SelectedIDs(items); len(ids) != 0 {
		t.Errorf("expected no selection, got %v", ids)
	}
}

func TestSummarize(t *testing.T) {
	items := []Item{
		{Record: api.Record{VideoID: "a", DownloadStatus: "Pending", VideoSizeMB: "10.5"}, Selected: true},
		{Record: api.Record{VideoID: "b", DownloadStatus: "pending", VideoSizeMB: "n/a"}},
		{Record: api.Record{VideoID: "c", VideoSizeMB: "4.5"}},
	}

	stats := Summarize(items)
	if stats.Total != 3 || stats.Selected != 1 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if stats.ByStatus["pending"] != 2 || stats.ByStatus["unknown"] != 1 {
		t.Errorf("unexpected status counts %v", stats.ByStatus)
	}
	if stats.SizeMB != 15 {
		t.Errorf("SizeMB = %v, want 15", stats.SizeMB)
	}
}
