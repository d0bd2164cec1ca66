package ui

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/config"
	"github.com/jarv/ytgoat/internal/database"
	"github.com/jarv/ytgoat/internal/poll"
	"github.com/jarv/ytgoat/internal/render"
	"github.com/jarv/ytgoat/internal/session"
	"github.com/jarv/ytgoat/internal/tasks"
)

type fakeBackend struct {
	mu       sync.Mutex
	saved    []api.ClientStateUpdate
	analyzed []string
}

func (f *fakeBackend) GetState(context.Context) api.State      { return api.StateIdle }
func (f *fakeBackend) GetStatusMsg(context.Context) string     { return "" }
func (f *fakeBackend) GetProgress(context.Context) float64     { return 0 }
func (f *fakeBackend) DownloadVideoList(context.Context) error { return nil }

func (f *fakeBackend) GetVideoItemList(context.Context) ([]api.Record, error) {
	return []api.Record{}, nil
}

func (f *fakeBackend) GetClientState(context.Context) (api.ClientState, error) {
	return api.ClientState{}, nil
}

func (f *fakeBackend) UpdateClientState(_ context.Context, u api.ClientStateUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, u)
	return nil
}

func (f *fakeBackend) AnalyzeURLText(_ context.Context, text string) (api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed = append(f.analyzed, text)
	return api.Message{Message: "Analysis process started"}, nil
}

func (f *fakeBackend) ChangeStatus(context.Context, api.Instruction, []string) (api.Message, error) {
	return api.Message{Message: "ok"}, nil
}

type testEnv struct {
	model   Model
	backend *fakeBackend
	manager tasks.Manager
	queries *database.Queries
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, queries, err := database.OpenDB(database.MemoryDSN)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.GetDefaultConfig()
	cfg.MaxIdleChecks = 2

	backend := &fakeBackend{}
	sess, err := session.New(backend, session.Options{Poll: cfg.PollConfig()})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	t.Cleanup(sess.Close)

	manager := tasks.NewManager(1)
	if err := manager.RegisterHandler(tasks.NewCommandHandler(backend)); err != nil {
		t.Fatalf("RegisterHandler() error = %v", err)
	}
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		_ = manager.Stop()
		for range manager.Subscribe() {
		}
	})

	m := NewModel(sess, manager, queries, cfg)
	m.width = 240
	m.height = 40
	return &testEnv{model: m, backend: backend, manager: manager, queries: queries}
}

func (e *testEnv) update(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := e.model.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	e.model = m
	return cmd
}

func (e *testEnv) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		e.update(t, keyMsg(k))
	}
}

// waitForTask blocks until a task of taskType finishes
func (e *testEnv) waitForTask(t *testing.T, taskType tasks.TaskType) tasks.TaskEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-e.manager.Subscribe():
			if ev.TaskType == taskType && (ev.Type == tasks.TaskEventCompleted || ev.Type == tasks.TaskEventFailed) {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s task", taskType)
		}
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func records(ids ...string) []api.Record {
	out := make([]api.Record, len(ids))
	for i, id := range ids {
		out[i] = api.Record{VideoID: id, Title: "Video " + id, DownloadStatus: "pending"}
	}
	return out
}

// startSession begins polling through the model and returns its token
func (e *testEnv) startSession(t *testing.T) poll.Token {
	t.Helper()
	if cmd := e.update(t, StartPollingMsg{}); cmd == nil {
		t.Fatal("expected a fetch command when polling starts")
	}
	return e.model.pollToken
}

func TestSnapshotAppliesItemsAndKeepsPolling(t *testing.T) {
	env := newTestEnv(t)
	tok := env.startSession(t)

	cmd := env.update(t, SnapshotMsg{Token: tok, Snapshot: session.Snapshot{
		State:     api.StateDownload,
		StatusMsg: "downloading 1 of 2",
		Progress:  50,
		Records:   records("a", "b"),
	}})
	if cmd == nil {
		t.Error("expected the next poll to be scheduled")
	}
	if got := env.model.itemCount(); got != 2 {
		t.Fatalf("itemCount() = %d, want 2", got)
	}

	view := env.model.View()
	for _, want := range []string{"DOWNLOAD", "downloading 1 of 2", "Video a", "2 items, 0 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestPollingStopsAfterIdleChecks(t *testing.T) {
	env := newTestEnv(t)
	tok := env.startSession(t)

	idle := SnapshotMsg{Token: tok, Snapshot: session.Snapshot{State: api.StateIdle}}
	if cmd := env.update(t, idle); cmd == nil {
		t.Fatal("expected polling to continue after the first idle check")
	}
	if cmd := env.update(t, idle); cmd != nil {
		t.Error("expected polling to stop at the idle limit")
	}
	if env.model.session.Poll().Active() {
		t.Error("poll session still active")
	}

	// A tick from the finished session does not fetch again
	if cmd := env.update(t, PollTickMsg{Token: tok}); cmd != nil {
		t.Error("expected stale tick to be ignored")
	}

	if !strings.Contains(env.model.View(), render.PlaceholderText) {
		t.Error("expected the placeholder for an empty list")
	}
}

func TestLateSnapshotFromOlderSession(t *testing.T) {
	env := newTestEnv(t)
	first := env.startSession(t)
	env.model.session.Poll().Stop()
	second := env.startSession(t)
	if second == first {
		t.Fatal("expected a new poll session")
	}

	// Nothing newer is on screen yet, so the late result is used
	env.update(t, SnapshotMsg{Token: first, Snapshot: session.Snapshot{State: api.StateDownload, Records: records("old")}})
	if got := env.model.itemCount(); got != 1 {
		t.Fatalf("itemCount() = %d, want 1", got)
	}

	env.update(t, SnapshotMsg{Token: second, Snapshot: session.Snapshot{State: api.StateDownload, Records: records("a", "b")}})
	if cmd := env.update(t, SnapshotMsg{Token: first, Snapshot: session.Snapshot{State: api.StateIdle, Records: records("old")}}); cmd != nil {
		t.Error("a snapshot of a finished session must not schedule a poll")
	}

	if got := env.model.itemCount(); got != 2 {
		t.Errorf("itemCount() = %d, want 2 from the newer session", got)
	}
	if got := env.model.session.State(); got != api.StateDownload {
		t.Errorf("State() = %q, want DOWNLOAD from the newer session", got)
	}
	if !env.model.session.Poll().Active() {
		t.Error("the newer session should keep polling")
	}
}

func TestSpaceOnItemWithoutID(t *testing.T) {
	env := newTestEnv(t)
	tok := env.startSession(t)
	env.update(t, SnapshotMsg{Token: tok, Snapshot: session.Snapshot{State: api.StateDownload, Records: records("", "a", "")}})

	env.press(t, " ")
	if got := env.model.session.SelectedIDs(); len(got) != 0 {
		t.Errorf("SelectedIDs() = %v, want none", got)
	}
	if env.model.statusMessageType != "error" || !strings.Contains(env.model.statusMessage, "no video id") {
		t.Errorf("status = %q", env.model.statusMessage)
	}

	env.press(t, "j", " ")
	if got := env.model.session.SelectedIDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("SelectedIDs() = %v, want [a]", got)
	}
}

func TestSelectionKeys(t *testing.T) {
	env := newTestEnv(t)
	tok := env.startSession(t)
	env.update(t, SnapshotMsg{Token: tok, Snapshot: session.Snapshot{State: api.StateIdle, Records: records("a", "b", "c")}})

	env.press(t, " ", "j", " ")
	if got := env.model.session.SelectedIDs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("SelectedIDs() = %v, want [a b]", got)
	}

	// Selection survives the next refresh
	env.update(t, SnapshotMsg{Token: env.model.pollToken, Snapshot: session.Snapshot{State: api.StateIdle, Records: records("b", "c")}})
	if got := env.model.session.SelectedIDs(); len(got) != 1 || got[0] != "b" {
		t.Errorf("SelectedIDs() after refresh = %v, want [b]", got)
	}

	env.press(t, "A")
	if got := len(env.model.session.SelectedIDs()); got != 2 {
		t.Errorf("after select all: %d selected", got)
	}
	env.press(t, "x")
	if got := len(env.model.session.SelectedIDs()); got != 0 {
		t.Errorf("after clear: %d selected", got)
	}
}

func TestCommandsDisabledWhileBusy(t *testing.T) {
	env := newTestEnv(t)
	tok := env.startSession(t)
	env.update(t, SnapshotMsg{Token: tok, Snapshot: session.Snapshot{State: api.StateAnalysis, Records: records("a")}})

	for _, k := range []string{"a", "i", "D"} {
		env.press(t, k)
		if env.model.state != ItemListView {
			t.Errorf("key %q opened view %d while busy", k, env.model.state)
		}
		if env.model.statusMessageType != "error" || !strings.Contains(env.model.statusMessage, "busy") {
			t.Errorf("key %q: status = %q", k, env.model.statusMessage)
		}
	}

	env.press(t, " ", "s")
	if env.model.state != ItemListView {
		t.Error("status menu opened while busy")
	}
}

func TestAnalyzePromptQueuesTask(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, "a")
	if env.model.state != PromptView {
		t.Fatalf("state = %d, want PromptView", env.model.state)
	}
	env.press(t, "https://youtu.be/abc")
	env.update(t, keyMsg("enter"))

	if env.model.state != ItemListView {
		t.Errorf("prompt still open")
	}
	if env.model.input.Value() != "" {
		t.Errorf("input not reset: %q", env.model.input.Value())
	}

	ev := env.waitForTask(t, tasks.TaskTypeAnalyze)
	if ev.Type != tasks.TaskEventCompleted {
		t.Fatalf("analyze task failed: %s", ev.Error)
	}
	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	if len(env.backend.analyzed) != 1 || env.backend.analyzed[0] != "https://youtu.be/abc" {
		t.Errorf("analyzed = %v", env.backend.analyzed)
	}
}

func TestColumnToggleSavesSettings(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, "m")
	if env.model.state != ColumnMenuView {
		t.Fatalf("state = %d, want ColumnMenuView", env.model.state)
	}
	first := env.model.session.Columns().Ordered()[0].Name
	env.press(t, " ")

	if visible, _ := env.model.session.Columns().Visible(first); visible {
		t.Fatalf("column %s still visible", first)
	}
	for _, h := range env.model.session.Frame().VisibleHeaders() {
		if h == first {
			t.Errorf("frame still shows %s", first)
		}
	}

	ev := env.waitForTask(t, tasks.TaskTypeSaveSettings)
	if ev.Type != tasks.TaskEventCompleted {
		t.Fatalf("save task failed: %s", ev.Error)
	}

	env.backend.mu.Lock()
	defer env.backend.mu.Unlock()
	if len(env.backend.saved) != 1 {
		t.Fatalf("saved %d times, want 1", len(env.backend.saved))
	}
	var cols []map[string]any
	if err := json.Unmarshal(env.backend.saved[0].ColumnVisibility, &cols); err != nil {
		t.Fatalf("column payload: %v", err)
	}
	for _, c := range cols {
		if c["label"] == first && c["isVisible"] != false {
			t.Errorf("saved %s as visible", first)
		}
	}
}

func TestClientStateApplied(t *testing.T) {
	env := newTestEnv(t)

	env.update(t, ClientStateLoadedMsg{State: api.ClientState{
		UISettings: api.UISettings{
			ViewMode:     "grid",
			CurrentTheme: "light-theme",
		},
		ColumnVisibility: json.RawMessage(`[{"label":"Author","isVisible":false,"order":4}]`),
	}})

	if env.model.session.Mode() != render.ModeGrid {
		t.Errorf("mode = %s, want grid", env.model.session.Mode())
	}
	if env.model.config.ThemeName != "light" {
		t.Errorf("theme = %s, want light", env.model.config.ThemeName)
	}
	if visible, _ := env.model.session.Columns().Visible("Author"); visible {
		t.Error("Author should be hidden")
	}
	if env.model.events.settingsDirty {
		t.Error("settings loaded from the backend should not be saved back")
	}

	env.update(t, ClientStateLoadedMsg{State: api.ClientState{ColumnVisibility: json.RawMessage(`{"broken"`)}})
	if env.model.statusMessageType != "error" {
		t.Error("expected an error for malformed column settings")
	}
}

func TestSettingsViewCyclesViewMode(t *testing.T) {
	env := newTestEnv(t)

	env.press(t, "c")
	if env.model.state != SettingsView {
		t.Fatalf("state = %d, want SettingsView", env.model.state)
	}

	index := -1
	for i, def := range settingDefs {
		if def.label == "View mode" {
			index = i
		}
	}
	for i := 0; i < index; i++ {
		env.press(t, "j")
	}
	env.press(t, "enter")

	if env.model.config.ViewMode != config.ViewModeGrid {
		t.Errorf("config view mode = %s", env.model.config.ViewMode)
	}
	if env.model.session.Mode() != render.ModeGrid {
		t.Errorf("session mode = %s", env.model.session.Mode())
	}

	saved, err := config.LoadConfig(env.queries)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if saved.ViewMode != config.ViewModeGrid {
		t.Errorf("persisted view mode = %s", saved.ViewMode)
	}

	// Editing an int setting
	env.press(t, "k", "k", "k", "enter")
	if !env.model.editingSettings {
		t.Fatal("expected edit mode")
	}
	for range env.model.settingInput {
		env.update(t, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	env.press(t, "7", "enter")
	if env.model.config.MaxIdleChecks != 7 {
		t.Errorf("MaxIdleChecks = %d, want 7", env.model.config.MaxIdleChecks)
	}
}

func TestNextChoice(t *testing.T) {
	choices := []string{"a", "b", "c"}
	tests := []struct {
		current string
		want    string
	}{
		{"a", "b"},
		{"c", "a"},
		{"missing", "a"},
	}
	for _, tt := range tests {
		if got := nextChoice(choices, tt.current); got != tt.want {
			t.Errorf("nextChoice(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		total, cursor, available int
		start, end               int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.total, tt.cursor, tt.available)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleRange(%d, %d, %d) = %d, %d, want %d, %d",
				tt.total, tt.cursor, tt.available, start, end, tt.start, tt.end)
		}
	}
}
