package ui

import "strings"

// KeyBinding represents a single key binding with its description
type KeyBinding struct {
	Key         string
	Description string
}

// ViewKeyBindings holds the key bindings for a specific view
type ViewKeyBindings struct {
	Title     string
	Keys      []KeyBinding // All keys of the view, listed in the help view
	StatusBar []KeyBinding // Keys to show in the status bar
}

// Global key bindings that work in all views
var GlobalKeys = []KeyBinding{
	{"h, ?", "help"},
	{"q", "quit / go back (2x in item view)"},
	{"esc", "go back"},
	{"ctrl+c", "force quit (2x)"},
	{"j, down", "move down"},
	{"k, up", "move up"},
	{"ctrl+d", "page down"},
	{"ctrl+u", "page up"},
}

// View-specific key bindings
var ItemListViewKeys = ViewKeyBindings{
	Title: "Items",
	Keys: []KeyBinding{
		{"space", "select / unselect item"},
		{"A", "select all items"},
		{"x", "clear selection"},
		{"enter", "item details"},
		{"left, right", "move between cards (grid)"},
		{"g", "switch table / grid"},
		{"m", "column menu"},
		{"a", "analyze URLs"},
		{"i", "import channel uploads"},
		{"D", "download pending items"},
		{"s", "change status of selected items"},
		{"r", "refresh now"},
		{"t", "tasks"},
		{"l", "log"},
		{"c", "config"},
	},
	StatusBar: []KeyBinding{
		{"space", "select"},
		{"a", "analyze"},
		{"D", "download"},
		{"s", "status"},
		{"m", "columns"},
	},
}

var ColumnMenuViewKeys = ViewKeyBindings{
	Title: "Columns",
	Keys: []KeyBinding{
		{"space, enter", "show / hide column"},
		{"J, K", "move column down / up"},
		{"a", "show all columns"},
	},
	StatusBar: []KeyBinding{
		{"space", "toggle"},
		{"J/K", "move"},
		{"a", "show all"},
	},
}

var DetailViewKeys = ViewKeyBindings{
	Title: "Item details",
	Keys: []KeyBinding{
		{"n, N", "next / previous item"},
		{"space", "select / unselect item"},
		{"o", "open watch URL in browser"},
	},
	StatusBar: []KeyBinding{
		{"n/N", "next/prev"},
		{"o", "open"},
	},
}

var InstructionViewKeys = ViewKeyBindings{
	Title: "Change status",
	Keys: []KeyBinding{
		{"enter", "apply to selected items"},
	},
	StatusBar: []KeyBinding{
		{"enter", "apply"},
	},
}

var PromptViewKeys = ViewKeyBindings{
	Title: "Prompt",
	Keys: []KeyBinding{
		{"enter", "submit"},
		{"up, down", "recent URLs"},
		{"esc", "cancel"},
	},
	StatusBar: []KeyBinding{
		{"enter", "submit"},
		{"up/down", "history"},
		{"esc", "cancel"},
	},
}

var TasksViewKeys = ViewKeyBindings{
	Title: "Tasks",
	Keys: []KeyBinding{
		{"c", "clear failed tasks"},
		{"d", "remove task"},
		{"r", "reload list"},
	},
	StatusBar: []KeyBinding{
		{"c", "clear failed"},
		{"d", "remove"},
	},
}

var LogViewKeys = ViewKeyBindings{
	Title: "Log",
	Keys: []KeyBinding{
		{"enter", "log details"},
		{"c", "clear log"},
	},
	StatusBar: []KeyBinding{
		{"c", "clear"},
	},
}

var LogDetailViewKeys = ViewKeyBindings{
	Title: "Log details",
}

var SettingsViewKeys = ViewKeyBindings{
	Title: "Settings",
	Keys: []KeyBinding{
		{"enter", "edit / cycle value"},
	},
	StatusBar: []KeyBinding{
		{"enter", "edit"},
	},
}

var HelpViewKeys = ViewKeyBindings{
	Title: "Help",
}

// GetViewKeys returns the key bindings for a given view state
func GetViewKeys(state ViewState) ViewKeyBindings {
	switch state {
	case ItemListView:
		return ItemListViewKeys
	case ColumnMenuView:
		return ColumnMenuViewKeys
	case DetailView:
		return DetailViewKeys
	case InstructionView:
		return InstructionViewKeys
	case PromptView:
		return PromptViewKeys
	case TasksView:
		return TasksViewKeys
	case LogView:
		return LogViewKeys
	case LogDetailView:
		return LogDetailViewKeys
	case SettingsView:
		return SettingsViewKeys
	case HelpView:
		return HelpViewKeys
	default:
		return ViewKeyBindings{}
	}
}

// FormatStatusBar creates a formatted status bar string from key bindings
func FormatStatusBar(bindings []KeyBinding) string {
	if len(bindings) == 0 {
		return ""
	}

	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		parts[i] = binding.Key + ": " + binding.Description
	}
	return strings.Join(parts, " | ")
}
