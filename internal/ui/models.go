package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/channels"
	"github.com/jarv/ytgoat/internal/config"
	"github.com/jarv/ytgoat/internal/database"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/poll"
	"github.com/jarv/ytgoat/internal/render"
	"github.com/jarv/ytgoat/internal/session"
	"github.com/jarv/ytgoat/internal/tasks"
	"github.com/jarv/ytgoat/internal/themes"
)

const globalHelp string = "h: help"

type ViewState int

const (
	ItemListView ViewState = iota
	ColumnMenuView
	DetailView
	InstructionView
	PromptView
	TasksView
	LogView
	LogDetailView
	SettingsView
	HelpView
)

type promptKind int

const (
	promptAnalyze promptKind = iota
	promptChannel
)

// sessionEvents collects what the session bus reported during one update.
// Bus handlers run synchronously inside the session calls made by Update.
type sessionEvents struct {
	settingsDirty bool
	finished      api.State
}

type Model struct {
	session     *session.Controller
	taskManager tasks.Manager
	queries     *database.Queries
	config      config.Config
	events      *sessionEvents

	theme    *themes.Theme
	styles   render.Styles
	markdown *render.MarkdownRenderer
	progress progress.Model
	input    textinput.Model

	state         ViewState
	previousState ViewState // Store previous state when entering help view

	cursor            int // Item cursor, shared by the table and the grid
	columnCursor      int
	instructionCursor int
	detailScroll      int
	taskList          []*tasks.Task
	taskCursor        int
	logList           []database.LogMessage
	logCursor         int
	currentLog        database.LogMessage
	settingsCursor    int
	helpViewScroll    int

	promptKind   promptKind
	urlHistory   []string // Newest first
	historyIndex int      // -1 while typing a new entry

	pollToken      poll.Token
	appliedToken   poll.Token // Session of the newest snapshot on screen
	spinnerFrame   int
	spinnerRunning bool

	editingSettings bool
	settingInput    string

	width             int
	height            int
	statusMessage     string // Message to display above status bar
	statusMessageType string // Type of message: "error" or "info"
	quitPressed       bool   // Track if 'q' was pressed once (for quit confirmation)
	ctrlCPressed      bool   // Track if 'ctrl+c' was pressed once (for quit confirmation)
}

type SnapshotMsg struct {
	Token    poll.Token
	Snapshot session.Snapshot
}

type PollTickMsg struct {
	Token poll.Token
}

type StartPollingMsg struct{}

type ClientStateLoadedMsg struct {
	State api.ClientState
	Err   error
}

type SpinnerTickMsg struct{}

type TaskEventMsg struct {
	Event tasks.TaskEvent
}

type TaskListLoadedMsg struct {
	Tasks []*tasks.Task
}

type LogListLoadedMsg struct {
	Logs []database.LogMessage
}

type URLHistoryLoadedMsg struct {
	URLs []string
}

type ErrorMsg struct {
	Err error
}

func NewModel(sess *session.Controller, taskManager tasks.Manager, queries *database.Queries, cfg config.Config) Model {
	input := textinput.New()
	input.CharLimit = 4096
	input.Prompt = "> "

	events := &sessionEvents{}
	m := Model{
		session:      sess,
		taskManager:  taskManager,
		queries:      queries,
		config:       cfg,
		events:       events,
		input:        input,
		state:        ItemListView,
		historyIndex: -1,
		width:        80,
	}
	m.applyTheme()

	bus := sess.Bus()
	bus.Subscribe(session.EventColumnsChanged, func(session.Event) {
		events.settingsDirty = true
	})
	bus.Subscribe(session.EventViewModeChanged, func(session.Event) {
		events.settingsDirty = true
	})
	bus.Subscribe(session.EventStateChanged, func(e session.Event) {
		ev, ok := e.(session.StateChanged)
		if ok && ev.Previous.Busy() && ev.Current == api.StateIdle {
			events.finished = ev.Previous
		}
	})

	return m
}

// applyTheme rebuilds everything derived from the theme and the size
func (m *Model) applyTheme() {
	m.theme = themes.GetThemeByName(m.config.ThemeName)
	m.styles = render.NewStyles(m.theme, m.config.HighlightStyle, m.config.MaxGridCardsPerRow)
	m.markdown = render.NewMarkdownRenderer(m.theme.GlamourStyle, m.markdownWidth())
	m.progress = progress.New(progress.WithGradient(m.theme.ProgressStart, m.theme.ProgressEnd))
	m.progress.Width = max(10, m.width-4)
	m.input.Width = max(10, m.width-6)
}

func (m Model) markdownWidth() int {
	return min(120, max(40, m.width-4))
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
		loadClientState(m.session),
		loadURLHistory(m.queries),
		listenForTaskEvents(m.taskManager),
		startPolling,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyTheme()
		return m, nil

	case tea.KeyMsg:
		model, cmd := m.handleKeyPress(msg)
		next, ok := model.(Model)
		if !ok {
			return model, cmd
		}
		// Any interaction restarts polling and persists changed settings
		next.flushSettings()
		return next, tea.Batch(cmd, next.startPolling())

	case StartPollingMsg:
		return m, m.startPolling()

	case SnapshotMsg:
		step := m.session.Poll().Observe(msg.Token, msg.Snapshot.State)
		// A late snapshot of an older session may still be shown, but never
		// over one from a newer session
		if step.Refresh && msg.Token >= m.appliedToken {
			m.appliedToken = msg.Token
			m.session.Apply(msg.Snapshot)
			m.clampCursor()
			if m.events.finished != "" {
				m.setStatus(strings.ToLower(string(m.events.finished))+" finished", "info")
				m.events.finished = ""
			}
		}
		if step.Stop {
			return m, nil
		}
		return m, pollTick(msg.Token, step.Delay)

	case PollTickMsg:
		// A newer session owns polling, let this one lapse
		if msg.Token != m.pollToken || !m.session.Poll().Active() {
			return m, nil
		}
		return m, fetchSnapshot(m.session, msg.Token)

	case ClientStateLoadedMsg:
		if msg.Err != nil {
			m.setStatus("could not load client settings: "+msg.Err.Error(), "error")
			return m, nil
		}
		settings, err := m.session.ApplySettings(msg.State)
		if err != nil {
			logging.Error("Failed to apply client settings", "error", err)
			m.setStatus("ignored client settings: "+err.Error(), "error")
			return m, nil
		}
		// Settings that came from the backend do not need to go back
		m.events.settingsDirty = false

		m.config.ViewMode = string(settings.ViewMode)
		if settings.BackendTheme != "" {
			theme := themes.GetThemeByBackendName(settings.BackendTheme, m.config.ThemeName)
			if theme.Name != m.config.ThemeName {
				m.config.ThemeName = theme.Name
				m.applyTheme()
			}
		}
		m.clampCursor()
		return m, nil

	case SpinnerTickMsg:
		if m.session.Poll().Active() {
			frames := themes.GetSpinnerFrames(m.config.SpinnerType)
			m.spinnerFrame = (m.spinnerFrame + 1) % len(frames)
			return m, spinnerTick()
		}
		m.spinnerRunning = false
		return m, nil

	case TaskEventMsg:
		event := msg.Event
		cmds := []tea.Cmd{listenForTaskEvents(m.taskManager)}

		switch event.Type {
		case tasks.TaskEventCompleted:
			if event.TaskType != tasks.TaskTypeSaveSettings && event.Result != "" {
				m.setStatus(event.Result, "info")
			}
			if event.TaskType.ChangesBackendState() {
				cmds = append(cmds, m.startPolling())
			}
		case tasks.TaskEventFailed:
			m.setStatus(fmt.Sprintf("%s failed: %s", event.TaskType, event.Error), "error")
		}

		if m.state == TasksView {
			cmds = append(cmds, loadTaskList(m.taskManager))
		}
		return m, tea.Batch(cmds...)

	case TaskListLoadedMsg:
		m.taskList = msg.Tasks
		if m.taskCursor >= len(m.taskList) {
			m.taskCursor = max(0, len(m.taskList)-1)
		}
		return m, nil

	case LogListLoadedMsg:
		m.logList = msg.Logs
		if m.logCursor >= len(m.logList) {
			m.logCursor = max(0, len(m.logList)-1)
		}
		return m, nil

	case URLHistoryLoadedMsg:
		m.urlHistory = msg.URLs
		m.historyIndex = -1
		return m, nil

	case ErrorMsg:
		m.setStatus(msg.Err.Error(), "error")
		return m, nil
	}

	if m.state == PromptView {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startPolling begins a poll session unless one is running
func (m *Model) startPolling() tea.Cmd {
	tok, started := m.session.Poll().Start()
	if !started {
		return nil
	}
	m.pollToken = tok

	cmds := []tea.Cmd{fetchSnapshot(m.session, tok)}
	if !m.spinnerRunning {
		m.spinnerRunning = true
		cmds = append(cmds, spinnerTick())
	}
	return tea.Batch(cmds...)
}

// flushSettings queues a save of the client state when the columns or the
// view mode changed
func (m *Model) flushSettings() {
	if !m.events.settingsDirty {
		return
	}
	m.events.settingsDirty = false

	payload, err := m.session.SettingsPayload()
	if err != nil {
		logging.Error("Failed to build client settings", "error", err)
		m.setStatus("could not save client settings: "+err.Error(), "error")
		return
	}
	if err := m.taskManager.AddTask(tasks.CreateSaveSettingsTask(payload)); err != nil {
		logging.Error("Failed to queue settings save", "error", err)
	}
}

func (m *Model) setStatus(message, messageType string) {
	m.statusMessage = message
	m.statusMessageType = messageType
}

// itemCount is the number of real items, the placeholder does not count
func (m Model) itemCount() int {
	frame := m.session.Frame()
	if frame.Empty() {
		return 0
	}
	return frame.Len()
}

func (m *Model) clampCursor() {
	n := m.itemCount()
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) pageSize() int {
	pageSize := m.height / 2
	if pageSize < 1 {
		pageSize = 5
	}
	return pageSize
}

// toggleSelection flips the item with id. Items the backend sent without a
// video id cannot be selected.
func (m *Model) toggleSelection(id string) {
	if id == "" {
		m.setStatus("this item has no video id and cannot be selected", "error")
		return
	}
	m.session.Toggle(id)
}

// backendBusy reports and explains that commands are disabled while the
// backend analyses or downloads
func (m *Model) backendBusy() bool {
	state := m.session.State()
	if !state.Busy() {
		return false
	}
	m.setStatus(fmt.Sprintf("backend is busy (%s), try again when it is idle", strings.ToLower(string(state))), "error")
	return true
}

func (m *Model) addTask(task *tasks.Task, pending string) {
	if err := m.taskManager.AddTask(task); err != nil {
		logging.Error("Failed to queue task", "type", task.Type, "error", err)
		m.setStatus("could not queue task: "+err.Error(), "error")
		return
	}
	m.setStatus(pending, "info")
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "ctrl+c" {
		if m.statusMessage != "" {
			m.statusMessage = ""
			m.statusMessageType = ""
		}
		m.quitPressed = false
		m.ctrlCPressed = false
	}

	if key == "ctrl+c" {
		// Quit confirmation: show message on first press, quit on second
		if m.ctrlCPressed {
			return m, quitApp(m.taskManager, m.session)
		}
		m.ctrlCPressed = true
		m.setStatus("press ctrl+c again to quit", "info")
		return m, nil
	}

	switch m.state {
	case ItemListView:
		return m.handleItemListKeys(msg)
	case ColumnMenuView:
		return m.handleColumnMenuKeys(msg)
	case DetailView:
		return m.handleDetailKeys(msg)
	case InstructionView:
		return m.handleInstructionKeys(msg)
	case PromptView:
		return m.handlePromptKeys(msg)
	case TasksView:
		return m.handleTasksViewKeys(msg)
	case LogView:
		return m.handleLogListKeys(msg)
	case LogDetailView:
		return m.handleLogDetailKeys(msg)
	case SettingsView:
		return m.handleSettingsViewKeys(msg)
	case HelpView:
		return m.handleHelpViewKeys(msg)
	}
	return m, nil
}

func (m Model) handleItemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.itemCount()
	step := 1

	switch msg.String() {
	case "q":
		if m.quitPressed {
			return m, quitApp(m.taskManager, m.session)
		}
		m.quitPressed = true
		m.setStatus("press q again to quit", "info")
		return m, nil

	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "j", "down":
		if m.session.Mode() == render.ModeGrid {
			step = m.styles.CardsPerRow
		}
		if n > 0 {
			m.cursor = min(m.cursor+step, n-1)
		}

	case "k", "up":
		if m.session.Mode() == render.ModeGrid {
			step = m.styles.CardsPerRow
		}
		m.cursor = max(m.cursor-step, 0)

	case "right":
		if n > 0 {
			m.cursor = min(m.cursor+1, n-1)
		}

	case "left":
		m.cursor = max(m.cursor-1, 0)

	case "ctrl+d":
		if n > 0 {
			m.cursor = min(m.cursor+m.pageSize(), n-1)
		}

	case "ctrl+u":
		m.cursor = max(m.cursor-m.pageSize(), 0)

	case " ":
		if unit, ok := m.session.Frame().Unit(m.cursor); ok && !unit.Placeholder {
			m.toggleSelection(unit.ID)
		}

	case "A":
		m.session.SelectAll()

	case "x":
		m.session.ClearSelection()

	case "enter":
		if n > 0 {
			m.state = DetailView
			m.detailScroll = 0
		}

	case "g":
		mode := render.ModeGrid
		if m.session.Mode() == render.ModeGrid {
			mode = render.ModeTable
		}
		m.session.SetMode(mode)
		m.config.ViewMode = string(mode)
		if err := config.SaveConfig(m.queries, m.config); err != nil {
			logging.Error("Failed to save view mode", "error", err)
		}

	case "m":
		m.state = ColumnMenuView
		m.columnCursor = 0

	case "a":
		if m.backendBusy() {
			return m, nil
		}
		return m, m.openPrompt(promptAnalyze)

	case "i":
		if m.backendBusy() {
			return m, nil
		}
		return m, m.openPrompt(promptChannel)

	case "D":
		if m.backendBusy() {
			return m, nil
		}
		m.addTask(tasks.CreateDownloadTask(), "download requested")

	case "s":
		if m.backendBusy() {
			return m, nil
		}
		if len(m.session.SelectedIDs()) == 0 {
			m.setStatus("select items with space first", "error")
			return m, nil
		}
		m.state = InstructionView
		m.instructionCursor = 0

	case "r":
		// Polling restarts after every key press
		return m, nil

	case "t":
		m.state = TasksView
		m.taskCursor = 0
		return m, loadTaskList(m.taskManager)

	case "l":
		m.state = LogView
		m.logCursor = 0
		return m, loadLogList(m.queries)

	case "c":
		m.state = SettingsView
		m.settingsCursor = 0
		m.editingSettings = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleColumnMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.session.Columns().Ordered()
	if m.columnCursor >= len(cols) {
		m.columnCursor = max(0, len(cols)-1)
	}

	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "q", "esc", "m":
		m.state = ItemListView
		return m, nil

	case "j", "down":
		if m.columnCursor < len(cols)-1 {
			m.columnCursor++
		}

	case "k", "up":
		if m.columnCursor > 0 {
			m.columnCursor--
		}

	case " ", "enter":
		if len(cols) > 0 {
			m.session.Columns().Toggle(cols[m.columnCursor].Name)
		}

	case "J":
		if len(cols) > 0 && m.session.Columns().Move(cols[m.columnCursor].Name, 1) {
			m.columnCursor++
		}

	case "K":
		if len(cols) > 0 && m.session.Columns().Move(cols[m.columnCursor].Name, -1) {
			m.columnCursor--
		}

	case "a":
		if shown := m.session.Columns().ShowAll(); shown > 0 {
			m.setStatus(fmt.Sprintf("showing %d more column(s)", shown), "info")
		}
	}

	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.itemCount()
	if n == 0 {
		m.state = ItemListView
		return m, nil
	}

	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "q", "esc":
		m.state = ItemListView
		return m, nil

	case "j", "down":
		m.detailScroll++

	case "k", "up":
		if m.detailScroll > 0 {
			m.detailScroll--
		}

	case "ctrl+d":
		m.detailScroll += m.pageSize()

	case "ctrl+u":
		m.detailScroll = max(0, m.detailScroll-m.pageSize())

	case "n":
		if m.cursor < n-1 {
			m.cursor++
			m.detailScroll = 0
		}

	case "N":
		if m.cursor > 0 {
			m.cursor--
			m.detailScroll = 0
		}

	case " ":
		if item, ok := m.session.Item(m.cursor); ok {
			m.toggleSelection(item.ID())
		}

	case "o":
		if item, ok := m.session.Item(m.cursor); ok && item.WatchURL != "" {
			return m, openLink(item.WatchURL)
		}
		m.setStatus("item has no watch URL", "error")
	}

	return m, nil
}

func (m Model) handleInstructionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "q", "esc":
		m.state = ItemListView
		return m, nil

	case "j", "down":
		if m.instructionCursor < len(api.Instructions)-1 {
			m.instructionCursor++
		}

	case "k", "up":
		if m.instructionCursor > 0 {
			m.instructionCursor--
		}

	case "enter":
		m.state = ItemListView
		if m.backendBusy() {
			return m, nil
		}
		ids := m.session.SelectedIDs()
		if len(ids) == 0 {
			m.setStatus("no items selected", "error")
			return m, nil
		}
		instruction := api.Instructions[m.instructionCursor]
		m.addTask(tasks.CreateChangeStatusTask(instruction, ids),
			fmt.Sprintf("applying %q to %d item(s)", instruction, len(ids)))
	}

	return m, nil
}

func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.promptKind = kind
	m.previousState = m.state
	m.state = PromptView
	m.historyIndex = -1

	switch kind {
	case promptChannel:
		m.input.Placeholder = "https://www.youtube.com/@channel"
		m.input.SetValue("")
	default:
		m.input.Placeholder = "one or more video or playlist URLs"
	}
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = ItemListView
		return m, nil

	case "up":
		if m.promptKind == promptAnalyze && m.historyIndex < len(m.urlHistory)-1 {
			m.historyIndex++
			m.input.SetValue(m.urlHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		if m.promptKind == promptAnalyze && m.historyIndex >= 0 {
			m.historyIndex--
			if m.historyIndex < 0 {
				m.input.SetValue("")
			} else {
				m.input.SetValue(m.urlHistory[m.historyIndex])
			}
			m.input.CursorEnd()
		}
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.state = ItemListView
		if text == "" {
			return m, nil
		}
		if m.backendBusy() {
			return m, nil
		}

		if m.promptKind == promptChannel {
			if err := config.ValidateURL(text); err != nil {
				m.setStatus(err.Error(), "error")
				return m, nil
			}
			m.input.SetValue("")
			m.addTask(tasks.CreateChannelImportTask(text, channels.DefaultLimit), "importing "+text)
			return m, nil
		}

		if m.config.ResetAnalysisInput {
			m.input.SetValue("")
		}
		m.addTask(tasks.CreateAnalyzeTask(text), "analysis requested")
		return m, addURLHistory(m.queries, text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleTasksViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "q", "esc":
		m.state = ItemListView
		return m, nil

	case "j", "down":
		if len(m.taskList) > 0 {
			m.taskCursor = (m.taskCursor + 1) % len(m.taskList)
		}

	case "k", "up":
		if len(m.taskList) > 0 {
			m.taskCursor = (m.taskCursor - 1 + len(m.taskList)) % len(m.taskList)
		}

	case "ctrl+d":
		if len(m.taskList) > 0 {
			m.taskCursor = min(m.taskCursor+m.pageSize(), len(m.taskList)-1)
		}

	case "ctrl+u":
		m.taskCursor = max(m.taskCursor-m.pageSize(), 0)

	case "c":
		return m, clearFailedTasks(m.taskManager)

	case "d":
		if len(m.taskList) > 0 && m.taskCursor < len(m.taskList) {
			return m, removeTask(m.taskManager, m.taskList[m.taskCursor].ID)
		}

	case "r":
		return m, loadTaskList(m.taskManager)
	}

	return m, nil
}

func (m Model) handleLogListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "q", "esc":
		m.state = ItemListView
		return m, nil

	case "j", "down":
		if len(m.logList) > 0 && m.logCursor < len(m.logList)-1 {
			m.logCursor++
		}

	case "k", "up":
		if m.logCursor > 0 {
			m.logCursor--
		}

	case "ctrl+d":
		if len(m.logList) > 0 {
			m.logCursor = min(m.logCursor+m.pageSize(), len(m.logList)-1)
		}

	case "ctrl+u":
		m.logCursor = max(m.logCursor-m.pageSize(), 0)

	case "enter":
		if len(m.logList) > 0 && m.logCursor < len(m.logList) {
			m.currentLog = m.logList[m.logCursor]
			m.state = LogDetailView
		}

	case "c":
		return m, clearAllLogMessages(m.queries)
	}

	return m, nil
}

func (m Model) handleLogDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
	case "q", "esc":
		m.state = LogView
	}
	return m, nil
}

func (m Model) handleHelpViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "h", "?":
		m.state = m.previousState
	case "j", "down":
		m.helpViewScroll++
	case "k", "up":
		if m.helpViewScroll > 0 {
			m.helpViewScroll--
		}
	case "ctrl+d":
		m.helpViewScroll += m.pageSize()
	case "ctrl+u":
		m.helpViewScroll = max(0, m.helpViewScroll-m.pageSize())
	}
	return m, nil
}
