package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/jarv/ytgoat/internal/channels"
	"github.com/jarv/ytgoat/internal/logging"
)

// ChannelSource resolves a channel or playlist URL to its recent uploads
type ChannelSource interface {
	Import(ctx context.Context, rawURL string, limit int) (channels.Channel, error)
}

// ChannelImportHandler queues the newest uploads of a channel for analysis
type ChannelImportHandler struct {
	source  ChannelSource
	backend Backend
}

func NewChannelImportHandler(source ChannelSource, backend Backend) *ChannelImportHandler {
	return &ChannelImportHandler{source: source, backend: backend}
}

func (h *ChannelImportHandler) CanHandle(taskType TaskType) bool {
	return taskType == TaskTypeChannelImport
}

func (h *ChannelImportHandler) Execute(ctx context.Context, task *Task) (string, error) {
	rawURL, err := stringData(task, "url")
	if err != nil {
		return "", err
	}

	limit := channels.DefaultLimit
	if v, ok := task.Data["limit"]; ok {
		n, ok := v.(int)
		if !ok {
			return "", fmt.Errorf("invalid limit type: %T", v)
		}
		limit = n
	}

	ch, err := h.source.Import(ctx, rawURL, limit)
	if err != nil {
		return "", err
	}

	links := ch.Links()
	if _, err := h.backend.AnalyzeURLText(ctx, strings.Join(links, " ")); err != nil {
		return "", err
	}

	logging.Info("Channel imported", "url", rawURL, "feed", ch.FeedURL, "count", len(links))
	title := ch.Title
	if title == "" {
		title = rawURL
	}
	return fmt.Sprintf("Queued %d video(s) from %s", len(links), title), nil
}

func CreateChannelImportTask(rawURL string, limit int) *Task {
	return &Task{
		Type: TaskTypeChannelImport,
		Data: map[string]any{
			"url":   rawURL,
			"limit": limit,
		},
	}
}
