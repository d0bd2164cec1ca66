package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/logging"
)

// Backend is the set of command endpoints the handlers call
type Backend interface {
	AnalyzeURLText(ctx context.Context, text string) (api.Message, error)
	DownloadVideoList(ctx context.Context) error
	ChangeStatus(ctx context.Context, instruction api.Instruction, videoIDs []string) (api.Message, error)
	UpdateClientState(ctx context.Context, update api.ClientStateUpdate) error
}

// CommandHandler sends analyze, download, status change and settings
// tasks to the backend
type CommandHandler struct {
	backend Backend
}

func NewCommandHandler(backend Backend) *CommandHandler {
	return &CommandHandler{backend: backend}
}

func (h *CommandHandler) CanHandle(taskType TaskType) bool {
	switch taskType {
	case TaskTypeAnalyze, TaskTypeDownload, TaskTypeChangeStatus, TaskTypeSaveSettings:
		return true
	default:
		return false
	}
}

func (h *CommandHandler) Execute(ctx context.Context, task *Task) (string, error) {
	switch task.Type {
	case TaskTypeAnalyze:
		text, err := stringData(task, "url")
		if err != nil {
			return "", err
		}
		msg, err := h.backend.AnalyzeURLText(ctx, text)
		if err != nil {
			return "", err
		}
		logging.Info("Analysis requested", "url", text)
		return msg.Message, nil

	case TaskTypeDownload:
		if err := h.backend.DownloadVideoList(ctx); err != nil {
			return "", err
		}
		logging.Info("Download requested")
		return "Download started", nil

	case TaskTypeChangeStatus:
		raw, err := stringData(task, "instruction")
		if err != nil {
			return "", err
		}
		instruction, err := api.ParseInstruction(raw)
		if err != nil {
			return "", err
		}
		ids, err := stringSliceData(task, "video_ids")
		if err != nil {
			return "", err
		}
		msg, err := h.backend.ChangeStatus(ctx, instruction, ids)
		if err != nil {
			return "", err
		}
		logging.Info("Status change applied", "instruction", instruction, "count", len(ids))
		return msg.Message, nil

	case TaskTypeSaveSettings:
		payload, ok := task.Data["payload"].(api.ClientStateUpdate)
		if !ok {
			return "", fmt.Errorf("missing payload in task data")
		}
		if err := h.backend.UpdateClientState(ctx, payload); err != nil {
			return "", err
		}
		return "Settings saved", nil
	}

	return "", fmt.Errorf("unsupported task type: %s", task.Type)
}

func stringData(task *Task, key string) (string, error) {
	v, ok := task.Data[key]
	if !ok {
		return "", fmt.Errorf("missing %s in task data", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid %s type: %T", key, v)
	}
	return s, nil
}

func stringSliceData(task *Task, key string) ([]string, error) {
	v, ok := task.Data[key]
	if !ok {
		return nil, fmt.Errorf("missing %s in task data", key)
	}
	switch ids := v.(type) {
	case []string:
		return ids, nil
	case []any:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			s, ok := id.(string)
			if !ok {
				return nil, fmt.Errorf("invalid %s element type: %T", key, id)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("invalid %s type: %T", key, v)
	}
}

func CreateAnalyzeTask(text string) *Task {
	return &Task{
		Type: TaskTypeAnalyze,
		Data: map[string]any{"url": text},
	}
}

// CreateAnalyzeURLsTask joins urls into a single analyze request
func CreateAnalyzeURLsTask(urls []string) *Task {
	return CreateAnalyzeTask(strings.Join(urls, " "))
}

func CreateDownloadTask() *Task {
	return &Task{
		Type: TaskTypeDownload,
		Data: map[string]any{},
	}
}

func CreateChangeStatusTask(instruction api.Instruction, videoIDs []string) *Task {
	return &Task{
		Type: TaskTypeChangeStatus,
		Data: map[string]any{
			"instruction": string(instruction),
			"video_ids":   videoIDs,
		},
	}
}

func CreateSaveSettingsTask(payload api.ClientStateUpdate) *Task {
	return &Task{
		Type: TaskTypeSaveSettings,
		Data: map[string]any{"payload": payload},
	}
}

// Describe returns a short human readable summary of a task
func Describe(task *Task) string {
	switch task.Type {
	case TaskTypeAnalyze:
		text, _ := task.Data["url"].(string)
		return "Analyze " + text
	case TaskTypeDownload:
		return "Download pending items"
	case TaskTypeChangeStatus:
		instruction, _ := task.Data["instruction"].(string)
		ids, _ := stringSliceData(task, "video_ids")
		return fmt.Sprintf("Apply %q to %d item(s)", instruction, len(ids))
	case TaskTypeSaveSettings:
		return "Save client settings"
	case TaskTypeChannelImport:
		url, _ := task.Data["url"].(string)
		return "Import channel " + url
	default:
		return string(task.Type)
	}
}
