package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jarv/ytgoat/internal/api"
)

// Download status values the fake backend writes into records
const (
	harnessStatusPending    = "pending"
	harnessStatusSkip       = "skip"
	harnessStatusDownloaded = "downloaded"
)

const defaultHarnessStep = 700 * time.Millisecond

// backendHarness is an in-memory stand-in for the downloader backend.
// Analysis adds one record per URL and downloads mark pending records as
// downloaded, one step at a time, so the client sees the process state and
// progress move.
type backendHarness struct {
	mu       sync.Mutex
	state    api.State
	status   string
	progress float64
	items    []api.Record

	audioBitrate     json.RawMessage
	videoResolution  json.RawMessage
	fpsValue         json.RawMessage
	theme            string
	viewMode         string
	columnVisibility json.RawMessage

	step time.Duration
	wg   sync.WaitGroup
}

func newBackendHarness(step time.Duration) *backendHarness {
	return &backendHarness{
		state:           api.StateIdle,
		status:          "Ready",
		audioBitrate:    json.RawMessage(`"128kbps"`),
		videoResolution: json.RawMessage(`"1080p"`),
		fpsValue:        json.RawMessage(`"30"`),
		viewMode:        "table",
		step:            step,
	}
}

func (h *backendHarness) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/getState", h.handleGetState)
		r.Get("/getStatusMsg", h.handleGetStatusMsg)
		r.Get("/getProgressbarValue", h.handleGetProgress)
		r.Get("/getVideoItemList", h.handleGetVideoItemList)
		r.Post("/analyzeURLtext", h.handleAnalyze)
		r.Post("/downloadVideoList", h.handleDownload)
		r.Post("/changeStatusForItemsSelectedByID", h.handleChangeStatus)
		r.Get("/update_client_state", h.handleGetClientState)
		r.Post("/update_client_state", h.handlePostClientState)
	})

	return r
}

// wait blocks until every simulated phase has finished
func (h *backendHarness) wait() {
	h.wg.Wait()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("❌ Error writing response: %v\n", err)
	}
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s))
}

func (h *backendHarness) handleGetState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeText(w, string(h.state))
}

func (h *backendHarness) handleGetStatusMsg(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeText(w, h.status)
}

func (h *backendHarness) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeText(w, fmt.Sprintf("%.2f", h.progress))
}

func (h *backendHarness) handleGetVideoItemList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	items := make([]api.Record, len(h.items))
	copy(items, h.items)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, items)
}

func (h *backendHarness) busyMessage() map[string]string {
	return map[string]string{"message": fmt.Sprintf("Processing [%s] is currently running!", h.state)}
}

func (h *backendHarness) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data provided"})
		return
	}
	urls := strings.Fields(body.URL)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Busy() {
		writeJSON(w, http.StatusOK, h.busyMessage())
		return
	}

	h.state = api.StateAnalysis
	h.progress = 0
	h.status = fmt.Sprintf("Analysing %d URL(s)", len(urls))
	h.wg.Add(1)
	go h.runAnalysis(urls)

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Analysis process started"})
}

func (h *backendHarness) runAnalysis(urls []string) {
	defer h.wg.Done()

	for i, u := range urls {
		time.Sleep(h.step)

		h.mu.Lock()
		h.items = append(h.items, harnessRecord(len(h.items)+1, u))
		h.progress = float64(i+1) / float64(len(urls)) * 100
		h.status = fmt.Sprintf("Analysed %d/%d: %s", i+1, len(urls), u)
		h.mu.Unlock()
	}

	h.mu.Lock()
	h.state = api.StateIdle
	h.progress = 100
	h.status = fmt.Sprintf("Analysis finished, %d item(s) in the list", len(h.items))
	h.mu.Unlock()
}

func harnessRecord(n int, watchURL string) api.Record {
	id := uuid.New().String()
	return api.Record{
		DownloadStatus: harnessStatusPending,
		WatchURL:       watchURL,
		Title:          fmt.Sprintf("Harness video %d", n),
		Author:         "ytgoat harness",
		Length:         fmt.Sprintf("%d", 60+n*37),
		Description:    fmt.Sprintf("<p>Fake item for <a href=\"%s\">%s</a>.</p>", watchURL, watchURL),
		PublishDate:    time.Now().AddDate(0, 0, -n).Format("2006-01-02 15:04:05"),
		Views:          fmt.Sprintf("%d", n*1234),
		ThumbnailURL:   "https://i.ytimg.com/vi/" + id[:8] + "/hqdefault.jpg",
		Rating:         "None",
		VideoID:        id,
		QualityStr:     "1080p | 30fps | 128kbps",
		VideoSizeMB:    fmt.Sprintf("%.1f", float64(n)*12.5),
	}
}

func (h *backendHarness) handleDownload(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Busy() {
		writeJSON(w, http.StatusOK, h.busyMessage())
		return
	}

	var pending []string
	for _, item := range h.items {
		if item.DownloadStatus == harnessStatusPending {
			pending = append(pending, item.VideoID)
		}
	}

	h.state = api.StateDownload
	h.progress = 0
	h.status = fmt.Sprintf("Downloading %d item(s)", len(pending))
	h.wg.Add(1)
	go h.runDownload(pending)

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Download process started"})
}

func (h *backendHarness) runDownload(ids []string) {
	defer h.wg.Done()

	for i, id := range ids {
		time.Sleep(h.step)

		h.mu.Lock()
		for j := range h.items {
			if h.items[j].VideoID == id {
				h.items[j].DownloadStatus = harnessStatusDownloaded
			}
		}
		h.progress = float64(i+1) / float64(len(ids)) * 100
		h.status = fmt.Sprintf("Downloaded %d/%d", i+1, len(ids))
		h.mu.Unlock()
	}

	h.mu.Lock()
	h.state = api.StateIdle
	h.progress = 100
	h.status = "Download finished"
	h.mu.Unlock()
}

func (h *backendHarness) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Instruction string   `json:"instruction"`
		VideoIDs    []string `json:"videoIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data provided"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != api.StateIdle {
		writeJSON(w, http.StatusOK, h.busyMessage())
		return
	}

	instruction, err := api.ParseInstruction(body.Instruction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unrecognized instruction"})
		return
	}

	selected := make(map[string]bool, len(body.VideoIDs))
	for _, id := range body.VideoIDs {
		selected[id] = true
	}

	switch instruction {
	case api.InstructionRemove:
		kept := h.items[:0]
		for _, item := range h.items {
			if !selected[item.VideoID] {
				kept = append(kept, item)
			}
		}
		h.items = kept
	case api.InstructionPending, api.InstructionSkip:
		for i := range h.items {
			if selected[h.items[i].VideoID] {
				h.items[i].DownloadStatus = string(instruction)
			}
		}
	}

	affected := body.VideoIDs
	if affected == nil {
		affected = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Instruction '%s' applied successfully", instruction),
		"affectedItems": affected,
	})
}

func (h *backendHarness) handleGetClientState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	visibility := h.columnVisibility
	if len(visibility) == 0 {
		visibility = json.RawMessage(`{}`)
	}

	writeJSON(w, http.StatusOK, api.ClientState{
		UISettings: api.UISettings{
			AudioBitrate:    h.audioBitrate,
			VideoResolution: h.videoResolution,
			FpsValue:        h.fpsValue,
			CurrentTheme:    h.theme,
			ViewMode:        h.viewMode,
		},
		ColumnVisibility: visibility,
	})
}

func (h *backendHarness) handlePostClientState(w http.ResponseWriter, r *http.Request) {
	var update api.ClientStateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data provided"})
		return
	}

	h.mu.Lock()
	h.audioBitrate = update.AudioBitrate
	h.videoResolution = update.VideoResolution
	h.fpsValue = update.FpsValue
	h.theme = update.UISettings.CurrentTheme
	h.viewMode = update.UISettings.ViewMode
	h.columnVisibility = update.ColumnVisibility
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Server: Client state settings updated successfully"})
}

func runBackendHarness(addr string) error {
	h := newBackendHarness(defaultHarnessStep)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/", h.routes())

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("🐐 ytgoat Backend Test Harness")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("   Listening on: http://%s\n", addr)
	fmt.Println()
	fmt.Println("✨ Features:")
	fmt.Println("   • Analysis adds one fake item per submitted URL")
	fmt.Println("   • Downloads mark pending items as downloaded")
	fmt.Printf("   • Each step takes %v so state and progress can be watched\n", defaultHarnessStep)
	fmt.Println("   • Client state (theme, view mode, columns) is kept in memory")
	fmt.Println()
	fmt.Println("💡 Try it:")
	fmt.Printf("   ytgoat -s http://%s\n", addr)
	fmt.Printf("   ytgoat -s http://%s analyze https://www.youtube.com/watch?v=dQw4w9WgXcQ\n", addr)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	return http.ListenAndServe(addr, r)
}
