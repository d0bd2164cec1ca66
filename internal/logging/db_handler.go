package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"runtime"

	"github.com/jarv/ytgoat/internal/database"
)

type DatabaseHandler struct {
	queries      *database.Queries
	debugEnabled bool
	attrs        []slog.Attr
	group        string
}

func NewDatabaseHandler(queries *database.Queries) *DatabaseHandler {
	return &DatabaseHandler{
		queries:      queries,
		debugEnabled: false,
	}
}

func NewDatabaseHandlerWithDebug(queries *database.Queries, debug bool) *DatabaseHandler {
	return &DatabaseHandler{
		queries:      queries,
		debugEnabled: debug,
	}
}

func (h *DatabaseHandler) Enabled(_ context.Context, level slog.Level) bool {
	// Filter out debug messages unless debug mode is enabled
	if level == slog.LevelDebug && !h.debugEnabled {
		return false
	}
	return true
}

func (h *DatabaseHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	for _, a := range h.attrs {
		addAttr(attrs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(attrs, h.group, a)
		return true
	})

	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		if frame.File != "" {
			attrs["source_file"] = frame.File
			attrs["source_line"] = frame.Line
		}
	}

	var attributesJSON sql.NullString
	if len(attrs) > 0 {
		jsonData, err := json.Marshal(attrs)
		if err != nil {
			return err
		}
		attributesJSON = sql.NullString{String: string(jsonData), Valid: true}
	}

	return h.queries.CreateLogMessage(ctx, database.CreateLogMessageParams{
		Level:      r.Level.String(),
		Message:    r.Message,
		Timestamp:  sql.NullTime{Time: r.Time, Valid: true},
		Attributes: attributesJSON,
	})
}

// addAttr flattens a into m. Errors are stored as their message since
// most error values marshal to an empty object.
func addAttr(m map[string]any, group string, a slog.Attr) {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	if err, ok := a.Value.Any().(error); ok {
		m[key] = err.Error()
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addAttr(m, key, ga)
		}
		return
	}
	m[key] = a.Value.Any()
}

func (h *DatabaseHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *DatabaseHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}
