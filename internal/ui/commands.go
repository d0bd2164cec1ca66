package ui

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jarv/ytgoat/internal/database"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/poll"
	"github.com/jarv/ytgoat/internal/session"
	"github.com/jarv/ytgoat/internal/tasks"
)

const (
	logListLimit    = 1000
	urlHistoryLimit = 50
)

// fetchSnapshot queries the backend off the update loop. Applying the
// result happens in Update.
func fetchSnapshot(sess *session.Controller, tok poll.Token) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Token: tok, Snapshot: sess.Fetch(context.Background())}
	}
}

func pollTick(tok poll.Token, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return PollTickMsg{Token: tok}
	})
}

func startPolling() tea.Msg {
	return StartPollingMsg{}
}

func loadClientState(sess *session.Controller) tea.Cmd {
	return func() tea.Msg {
		state, err := sess.FetchSettings(context.Background())
		if err != nil {
			logging.Warn("loadClientState failed", "error", err)
		}
		return ClientStateLoadedMsg{State: state, Err: err}
	}
}

func loadLogList(queries *database.Queries) tea.Cmd {
	return func() tea.Msg {
		logs, err := queries.GetLogMessages(context.Background(), logListLimit)
		if err != nil {
			logging.Error("loadLogList failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return LogListLoadedMsg{Logs: logs}
	}
}

func clearAllLogMessages(queries *database.Queries) tea.Cmd {
	return func() tea.Msg {
		if err := queries.DeleteAllLogMessages(context.Background()); err != nil {
			logging.Error("clearAllLogMessages failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return LogListLoadedMsg{Logs: []database.LogMessage{}}
	}
}

func loadURLHistory(queries *database.Queries) tea.Cmd {
	return func() tea.Msg {
		rows, err := queries.GetRecentURLHistory(context.Background(), urlHistoryLimit)
		if err != nil {
			logging.Error("loadURLHistory failed", "error", err)
			return ErrorMsg{Err: err}
		}
		urls := make([]string, len(rows))
		for i, row := range rows {
			urls[i] = row.UrlText
		}
		return URLHistoryLoadedMsg{URLs: urls}
	}
}

func addURLHistory(queries *database.Queries, text string) tea.Cmd {
	return func() tea.Msg {
		err := queries.AddURLHistory(context.Background(), database.AddURLHistoryParams{
			UrlText:     text,
			SubmittedAt: time.Now(),
		})
		if err != nil {
			logging.Error("addURLHistory failed", "error", err)
			return nil
		}
		return loadURLHistory(queries)()
	}
}

func loadTaskList(taskManager tasks.Manager) tea.Cmd {
	return func() tea.Msg {
		allTasks, err := taskManager.ListTasks(tasks.TaskFilter{})
		if err != nil {
			logging.Error("loadTaskList failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return TaskListLoadedMsg{Tasks: allTasks}
	}
}

func clearFailedTasks(taskManager tasks.Manager) tea.Cmd {
	return func() tea.Msg {
		err := taskManager.ClearFailedTasks()
		if err != nil {
			logging.Error("clearFailedTasks failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return loadTaskList(taskManager)()
	}
}

func removeTask(taskManager tasks.Manager, taskID string) tea.Cmd {
	return func() tea.Msg {
		err := taskManager.RemoveTask(taskID)
		if err != nil {
			logging.Error("removeTask failed", "taskID", taskID, "error", err)
			return ErrorMsg{Err: err}
		}
		return loadTaskList(taskManager)()
	}
}

func listenForTaskEvents(taskManager tasks.Manager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-taskManager.Subscribe()
		if !ok {
			return nil
		}
		return TaskEventMsg{Event: event}
	}
}

func openLink(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd

		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			logging.Warn("Unsupported platform for opening links", "platform", runtime.GOOS)
			return nil
		}

		err := cmd.Start()
		if err != nil {
			logging.Error("Error opening link", "url", url, "error", err)
		}

		return nil
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

func quitApp(taskManager tasks.Manager, sess *session.Controller) tea.Cmd {
	return func() tea.Msg {
		sess.Poll().Stop()
		// Stop task manager to cancel all in-progress tasks
		if err := taskManager.Stop(); err != nil {
			logging.Error("Failed to stop task manager on quit", "error", err)
		}
		return tea.Quit()
	}
}
