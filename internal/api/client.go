package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/version"
)

// ErrHTTPStatus is wrapped by errors for non-2xx responses
var ErrHTTPStatus = errors.New("unexpected HTTP status")

const maxBodySize = 16 << 20

// userAgentTransport wraps http.RoundTripper to set the User-Agent header
type userAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Transport.RoundTrip(req)
}

// Client talks to the downloader backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &userAgentTransport{
				Transport: http.DefaultTransport,
				UserAgent: version.GetUserAgent(),
			},
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetState returns the backend process state, or StateUnknown when the
// request fails.
func (c *Client) GetState(ctx context.Context) State {
	body, err := c.getText(ctx, "/api/getState")
	if err != nil {
		logging.Error("Failed to get state", "error", err)
		return StateUnknown
	}
	return ParseState(body)
}

// GetStatusMsg returns the backend status line, or "" when the request fails
func (c *Client) GetStatusMsg(ctx context.Context) string {
	body, err := c.getText(ctx, "/api/getStatusMsg")
	if err != nil {
		logging.Error("Failed to get status message", "error", err)
		return ""
	}
	return body
}

// GetProgress returns the progress percentage in [0, 100], or 0 when the
// request fails or the body is not a number.
func (c *Client) GetProgress(ctx context.Context) float64 {
	body, err := c.getText(ctx, "/api/getProgressbarValue")
	if err != nil {
		logging.Error("Failed to get progress", "error", err)
		return 0
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(body), 64)
	if err != nil {
		logging.Warn("Invalid progress value", "value", body, "error", err)
		return 0
	}
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// GetVideoItemList returns the analysed items. The list is nil whenever
// err is non-nil.
func (c *Client) GetVideoItemList(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := c.doJSON(ctx, http.MethodGet, "/api/getVideoItemList", nil, &records); err != nil {
		return nil, fmt.Errorf("failed to get video item list: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// AnalyzeURLText asks the backend to analyse text, which may hold several
// whitespace separated URLs.
func (c *Client) AnalyzeURLText(ctx context.Context, text string) (Message, error) {
	var msg Message
	payload := map[string]string{"url": text}
	if err := c.doJSON(ctx, http.MethodPost, "/api/analyzeURLtext", payload, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to start analysis: %w", err)
	}
	return msg, nil
}

// DownloadVideoList starts downloading every pending item
func (c *Client) DownloadVideoList(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/downloadVideoList", nil, nil); err != nil {
		return fmt.Errorf("failed to start download: %w", err)
	}
	return nil
}

// ChangeStatus applies instruction to the items with the given video ids
func (c *Client) ChangeStatus(ctx context.Context, instruction Instruction, videoIDs []string) (Message, error) {
	if videoIDs == nil {
		videoIDs = []string{}
	}
	payload := struct {
		Instruction Instruction `json:"instruction"`
		VideoIDs    []string    `json:"videoIds"`
	}{instruction, videoIDs}

	var msg Message
	if err := c.doJSON(ctx, http.MethodPost, "/api/changeStatusForItemsSelectedByID", payload, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to apply %q: %w", instruction, err)
	}
	return msg, nil
}

func (c *Client) GetClientState(ctx context.Context) (ClientState, error) {
	var state ClientState
	if err := c.doJSON(ctx, http.MethodGet, "/api/update_client_state", nil, &state); err != nil {
		return ClientState{}, fmt.Errorf("failed to get client state: %w", err)
	}
	return state, nil
}

func (c *Client) UpdateClientState(ctx context.Context, update ClientStateUpdate) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/update_client_state", update, nil); err != nil {
		return fmt.Errorf("failed to update client state: %w", err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("Backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		_ = resp.Body.Close()
		if msg != "" {
			return nil, fmt.Errorf("%w: %s %s: %d %s", ErrHTTPStatus, method, path, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrHTTPStatus, method, path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return resp, nil
}

// readErrorMessage pulls the "error" or "message" field out of a JSON error body
func readErrorMessage(r io.Reader) string {
	var msg Message
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&msg); err != nil {
		return ""
	}
	if msg.Error != "" {
		return msg.Error
	}
	return msg.Message
}
