package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/render"
	"github.com/jarv/ytgoat/internal/tasks"
	"github.com/jarv/ytgoat/internal/themes"
	"github.com/jarv/ytgoat/internal/version"
	"github.com/jarv/ytgoat/internal/videos"
)

var instructionDescriptions = map[api.Instruction]string{
	api.InstructionRemove:    "remove from the list",
	api.InstructionPending:   "mark as pending",
	api.InstructionSkip:      "skip when downloading",
	api.InstructionAudio:     "toggle audio",
	api.InstructionVideo:     "toggle video",
	api.InstructionSubtitles: "toggle subtitles",
	api.InstructionThumbnail: "toggle thumbnail",
	api.InstructionInfo:      "toggle info file",
	api.InstructionComments:  "toggle comments",
	api.InstructionClear:     "clear all keeps",
}

func (m Model) View() string {
	switch m.state {
	case ItemListView:
		return m.renderItemList()
	case ColumnMenuView:
		return m.renderColumnMenu()
	case DetailView:
		return m.renderDetail()
	case InstructionView:
		return m.renderInstructionMenu()
	case PromptView:
		return m.renderPrompt()
	case TasksView:
		return m.renderTasksView()
	case LogView:
		return m.renderLogList()
	case LogDetailView:
		return m.renderLogDetail()
	case SettingsView:
		return m.renderSettingsView()
	case HelpView:
		return m.renderHelpView()
	}

	return "Loading..."
}

func (m Model) getTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Background(lipgloss.Color(m.theme.FilterColor)).Foreground(lipgloss.Color(m.theme.TitleColorFg)).Width(m.width)
}

func (m Model) getSelectedStyle() lipgloss.Style {
	switch m.config.HighlightStyle {
	case "underline", "prefix-underline":
		return lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color(m.theme.SelectedItemColor))
	case "prefix":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectedItemColor))
	default:
		return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SelectedItemColor)).Foreground(lipgloss.Color("229"))
	}
}

// applyHighlight applies the appropriate highlight style to a line
func (m Model) applyHighlight(line string, isSelected bool) string {
	if m.config.HighlightStyle == "prefix" || m.config.HighlightStyle == "prefix-underline" {
		if isSelected {
			line = "> " + line
		} else {
			line = "  " + line
		}
	}

	if isSelected {
		return m.getSelectedStyle().Render(line)
	}
	return line
}

func (m Model) getHelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.MutedColor))
}

func (m Model) title(name string) string {
	return m.getTitleStyle().Render("🐐 ytgoat " + version.GetVersion() + " - " + name)
}

// footer renders the status message line and the status bar
func (m Model) footer(state ViewState, info string) string {
	var b strings.Builder

	if m.statusMessage != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		if m.statusMessageType == "error" {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		}
		b.WriteString(style.Render(m.statusMessage))
		b.WriteString("\n")
	}

	if info != "" {
		b.WriteString(m.getHelpStyle().Render(info))
		b.WriteString("  ")
	}

	statusBarText := globalHelp
	if viewHelp := FormatStatusBar(GetViewKeys(state).StatusBar); viewHelp != "" {
		statusBarText += " | " + viewHelp
	}
	b.WriteString(m.getHelpStyle().Render(statusBarText))
	return b.String()
}

// layout pushes the footer to the bottom of the screen
func (m Model) layout(header, body, footer string) string {
	used := lipgloss.Height(header) + lipgloss.Height(body) + lipgloss.Height(footer)
	padding := m.height - used
	if padding < 0 {
		padding = 0
	}
	return header + "\n" + body + "\n" + strings.Repeat("\n", padding) + footer
}

// visibleRange returns the slice bounds that keep cursor near the middle
func visibleRange(total, cursor, available int) (int, int) {
	if available < 1 {
		available = 1
	}
	if total <= available {
		return 0, total
	}
	start := max(0, cursor-available/2)
	end := min(total, start+available)
	if end-start < available {
		start = max(0, end-available)
	}
	return start, end
}

func (m Model) renderBackendStatus() string {
	state := m.session.State()

	var b strings.Builder
	if m.session.Poll().Active() {
		frames := themes.GetSpinnerFrames(m.config.SpinnerType)
		b.WriteString(frames[m.spinnerFrame%len(frames)])
		b.WriteString(" ")
	} else {
		b.WriteString("  ")
	}

	stateStyle := lipgloss.NewStyle().Bold(true)
	if state.Busy() {
		stateStyle = stateStyle.Foreground(lipgloss.Color(m.theme.SelectedItemColor))
	}
	b.WriteString(stateStyle.Render(string(state)))

	if msg := strings.TrimSpace(m.session.StatusMsg()); msg != "" {
		b.WriteString("  ")
		b.WriteString(msg)
	}

	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.session.Progress() / 100))
	return b.String()
}

// itemWindow selects the rows or cards that fit between the header and
// the footer
func (m Model) itemWindow() render.Window {
	n := m.itemCount()
	w := render.Window{Cursor: m.cursor, Width: m.width}

	// title, state, progress, blank line, status message, status bar
	available := m.height - 6

	if m.session.Mode() == render.ModeGrid {
		perRow := max(1, m.styles.CardsPerRow)
		cardHeight := len(m.session.Columns().VisibleOrdered()) + 2
		rows := max(1, available/cardHeight)
		totalRows := (n + perRow - 1) / perRow
		startRow, _ := visibleRange(totalRows, m.cursor/perRow, rows)
		w.Offset = startRow * perRow
		w.Limit = rows * perRow
		return w
	}

	// table borders and header
	rows := max(3, available-4)
	start, _ := visibleRange(n, m.cursor, rows)
	w.Offset = start
	w.Limit = rows
	return w
}

func (m Model) renderItemList() string {
	header := m.title("Items") + "\n" + m.renderBackendStatus() + "\n"

	window := m.itemWindow()
	body := m.session.Frame().Render(m.styles, window)

	n := m.itemCount()
	info := fmt.Sprintf("%d items, %d selected", n, len(m.session.SelectedIDs()))
	if window.Limit > 0 && n > window.Limit {
		end := min(n, window.Offset+window.Limit)
		info = fmt.Sprintf("(%d-%d of %d) ", window.Offset+1, end, n) + info
	}
	if m.session.Mode() == render.ModeGrid {
		info += " | grid"
	}

	return m.layout(header, body, m.footer(ItemListView, info))
}

func (m Model) renderColumnMenu() string {
	header := m.title("Columns") + "\n"

	var b strings.Builder
	cols := m.session.Columns().Ordered()
	for i, col := range cols {
		check := "[ ]"
		if col.Visible {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %2d  %s", check, col.Order+1, col.Name)
		b.WriteString(m.applyHighlight(line, i == m.columnCursor))
		if i < len(cols)-1 {
			b.WriteString("\n")
		}
	}

	visible := len(m.session.Columns().VisibleOrdered())
	info := fmt.Sprintf("%d of %d columns shown", visible, len(cols))
	return m.layout(header, b.String(), m.footer(ColumnMenuView, info))
}

func (m Model) detailLines(item videos.Item) []string {
	content := m.markdown.Render(render.DetailMarkdown(m.cursor, item))
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}

func (m Model) renderDetail() string {
	item, ok := m.session.Item(m.cursor)
	if !ok {
		return m.layout(m.title("Item details")+"\n", render.PlaceholderText, m.footer(DetailView, ""))
	}

	name := fmt.Sprintf("Item %d of %d", m.cursor+1, m.itemCount())
	if item.Selected {
		name += " (selected)"
	}
	header := m.title(name) + "\n"

	lines := m.detailLines(item)
	available := max(3, m.height-4)
	start := min(m.detailScroll, max(0, len(lines)-available))
	end := min(len(lines), start+available)

	info := ""
	if len(lines) > available {
		info = fmt.Sprintf("(%d-%d of %d)", start+1, end, len(lines))
	}
	return m.layout(header, strings.Join(lines[start:end], "\n"), m.footer(DetailView, info))
}

func (m Model) renderInstructionMenu() string {
	selected := len(m.session.SelectedIDs())
	header := m.title(fmt.Sprintf("Change status of %d item(s)", selected)) + "\n"

	var b strings.Builder
	for i, instruction := range api.Instructions {
		line := fmt.Sprintf("%-10s %s", instruction, instructionDescriptions[instruction])
		b.WriteString(m.applyHighlight(line, i == m.instructionCursor))
		if i < len(api.Instructions)-1 {
			b.WriteString("\n")
		}
	}
	return m.layout(header, b.String(), m.footer(InstructionView, ""))
}

func (m Model) renderPrompt() string {
	name := "Analyze URLs"
	hint := "Enter one or more video or playlist URLs separated by spaces."
	if m.promptKind == promptChannel {
		name = "Import channel"
		hint = "Enter a YouTube channel, playlist or feed URL. Its newest uploads are queued for analysis."
	}
	header := m.title(name) + "\n"

	var b strings.Builder
	b.WriteString(m.getHelpStyle().Render(hint))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())

	if m.promptKind == promptAnalyze && len(m.urlHistory) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.getHelpStyle().Render("Recent:"))
		for i, url := range m.urlHistory[:min(5, len(m.urlHistory))] {
			b.WriteString("\n")
			b.WriteString(m.applyHighlight(url, i == m.historyIndex))
		}
	}

	return m.layout(header, b.String(), m.footer(PromptView, ""))
}

func (m Model) renderTasksView() string {
	header := m.title("Tasks") + "\n"

	if len(m.taskList) == 0 {
		return m.layout(header, "No tasks found.", m.footer(TasksView, ""))
	}

	// title, blank line, scroll info, status bar
	available := max(3, m.height-4)
	start, end := visibleRange(len(m.taskList), m.taskCursor, available)

	var b strings.Builder
	for i := start; i < end; i++ {
		task := m.taskList[i]

		var statusEmoji string
		switch task.Status {
		case tasks.TaskStatusPending:
			statusEmoji = "🕓"
		case tasks.TaskStatusRunning:
			statusEmoji = "🔄"
		case tasks.TaskStatusCompleted:
			statusEmoji = "✅"
		case tasks.TaskStatusFailed:
			statusEmoji = "💥"
		default:
			statusEmoji = " "
		}

		line := fmt.Sprintf("%s %s %s", statusEmoji, task.CreatedAt.Format("15:04:05"), tasks.Describe(task))
		switch {
		case task.Error != "":
			line += " - " + task.Error
		case task.Result != "":
			line += " - " + task.Result
		}

		b.WriteString(m.applyHighlight(line, i == m.taskCursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	info := ""
	if len(m.taskList) > available {
		info = fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.taskList))
	}
	return m.layout(header, b.String(), m.footer(TasksView, info))
}

func (m Model) getLogLevelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "ERROR":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case "WARN":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	case "DEBUG":
		return m.getHelpStyle()
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) renderLogList() string {
	header := m.title("Log") + "\n"

	if len(m.logList) == 0 {
		return m.layout(header, "No log messages.", m.footer(LogView, ""))
	}

	available := max(3, m.height-4)
	start, end := visibleRange(len(m.logList), m.logCursor, available)

	var b strings.Builder
	for i := start; i < end; i++ {
		msg := m.logList[i]
		timestamp := "        "
		if msg.Timestamp.Valid {
			timestamp = msg.Timestamp.Time.Format("15:04:05")
		}
		level := m.getLogLevelStyle(msg.Level).Render(fmt.Sprintf("%-5s", msg.Level))
		line := fmt.Sprintf("%s %s %s", timestamp, level, msg.Message)

		b.WriteString(m.applyHighlight(line, i == m.logCursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	info := ""
	if len(m.logList) > available {
		info = fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.logList))
	}
	return m.layout(header, b.String(), m.footer(LogView, info))
}

func (m Model) renderLogDetail() string {
	header := m.title("Log details") + "\n"
	msg := m.currentLog

	var b strings.Builder
	if msg.Timestamp.Valid {
		b.WriteString("Time:    " + msg.Timestamp.Time.Format("2006-01-02 15:04:05") + "\n")
	}
	b.WriteString("Level:   " + m.getLogLevelStyle(msg.Level).Render(msg.Level) + "\n")
	b.WriteString("Message: " + msg.Message)

	if msg.Attributes.Valid && msg.Attributes.String != "" {
		b.WriteString("\n\nAttributes:\n")
		var attrs map[string]any
		if err := json.Unmarshal([]byte(msg.Attributes.String), &attrs); err == nil {
			pretty, _ := json.MarshalIndent(attrs, "", "  ")
			b.WriteString(string(pretty))
		} else {
			b.WriteString(msg.Attributes.String)
		}
	}

	return m.layout(header, b.String(), m.footer(LogDetailView, ""))
}

func (m Model) renderHelpView() string {
	header := m.title("Help") + "\n"
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.SelectedItemColor))

	var lines []string
	section := func(name string, bindings []KeyBinding) {
		if len(bindings) == 0 {
			return
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(name))
		for _, kb := range bindings {
			lines = append(lines, fmt.Sprintf("  %s  %s", keyStyle.Render(fmt.Sprintf("%-14s", kb.Key)), kb.Description))
		}
	}

	viewKeys := GetViewKeys(m.previousState)
	section(viewKeys.Title, viewKeys.Keys)
	section("Global", GlobalKeys)
	if m.previousState != ItemListView {
		section(ItemListViewKeys.Title, ItemListViewKeys.Keys)
	}

	available := max(3, m.height-4)
	start := min(m.helpViewScroll, max(0, len(lines)-available))
	end := min(len(lines), start+available)

	info := ""
	if len(lines) > available {
		info = fmt.Sprintf("(%d-%d of %d)", start+1, end, len(lines))
	}
	return m.layout(header, strings.Join(lines[start:end], "\n"), m.footer(HelpView, info))
}
