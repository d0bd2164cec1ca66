package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is the backend's process state token
type State string

const (
	StateIdle     State = "IDLE"
	StateAnalysis State = "ANALYSIS"
	StateDownload State = "DOWNLOAD"
	// StateUnknown is returned when the backend could not be reached
	StateUnknown State = "UNKNOWN"
)

// ParseState maps the raw token to a State. The backend serializes its
// enum value, so surrounding whitespace and case are normalized.
func ParseState(raw string) State {
	switch s := State(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StateIdle, StateAnalysis, StateDownload:
		return s
	default:
		return StateUnknown
	}
}

// Busy reports whether the backend is analysing or downloading
func (s State) Busy() bool {
	return s == StateAnalysis || s == StateDownload
}

// Record is one entry of /api/getVideoItemList. Every field is sent as a string.
type Record struct {
	DownloadStatus string `json:"download_status"`
	WatchURL       string `json:"watch_url"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Length         string `json:"length"`
	Description    string `json:"description"`
	PublishDate    string `json:"publish_date"`
	Views          string `json:"views"`
	ThumbnailURL   string `json:"thumbnail_url"`
	Rating         string `json:"rating"`
	VideoID        string `json:"video_id"`
	QualityStr     string `json:"quality_str"`
	VideoSizeMB    string `json:"video_size_mb"`
}

// Instruction is a status change applied to selected items
type Instruction string

const (
	InstructionRemove    Instruction = "remove"
	InstructionPending   Instruction = "pending"
	InstructionSkip      Instruction = "skip"
	InstructionAudio     Instruction = "audio"
	InstructionVideo     Instruction = "video"
	InstructionSubtitles Instruction = "subtitles"
	InstructionThumbnail Instruction = "thumbnail"
	InstructionInfo      Instruction = "info"
	InstructionComments  Instruction = "comments"
	InstructionClear     Instruction = "clear"
)

// Instructions lists every instruction the backend accepts, in menu order
var Instructions = []Instruction{
	InstructionRemove,
	InstructionPending,
	InstructionSkip,
	InstructionAudio,
	InstructionVideo,
	InstructionSubtitles,
	InstructionThumbnail,
	InstructionInfo,
	InstructionComments,
	InstructionClear,
}

func ParseInstruction(s string) (Instruction, error) {
	for _, in := range Instructions {
		if string(in) == s {
			return in, nil
		}
	}
	return "", fmt.Errorf("unrecognized instruction %q", s)
}

// Message is the {"message": ...} body most command endpoints reply with
type Message struct {
	Message       string   `json:"message"`
	Error         string   `json:"error,omitempty"`
	AffectedItems []string `json:"affectedItems,omitempty"`
}

// UISettings mirrors the uiSettings object of /api/update_client_state.
// Limiter values are owned by the backend and kept as raw JSON so they are
// posted back exactly as received.
type UISettings struct {
	AudioBitrate    json.RawMessage `json:"audioBitrate,omitempty"`
	VideoResolution json.RawMessage `json:"videoResolution,omitempty"`
	FpsValue        json.RawMessage `json:"fpsValue,omitempty"`
	CurrentTheme    string          `json:"currentTheme,omitempty"`
	ViewMode        string          `json:"viewMode,omitempty"`
}

// ClientState is the GET body of /api/update_client_state
type ClientState struct {
	UISettings       UISettings      `json:"uiSettings"`
	ColumnVisibility json.RawMessage `json:"columnVisibility,omitempty"`
}

// ClientStateUpdate is the POST body of /api/update_client_state
type ClientStateUpdate struct {
	AudioBitrate     json.RawMessage `json:"audioBitrate"`
	VideoResolution  json.RawMessage `json:"videoResolution"`
	FpsValue         json.RawMessage `json:"fpsValue"`
	UISettings       UISettings      `json:"uiSettings"`
	ColumnVisibility json.RawMessage `json:"columnVisibility"`
}

// LimitString renders a raw limiter value for display
func LimitString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "-"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
