package channels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jarv/ytgoat/internal/discovery"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/version"
)

const FeedTimeout = 30 * time.Second

// DefaultLimit is how many uploads an import queues when none is given
const DefaultLimit = 10

// ErrNoUploads is returned when a feed has no usable video links
var ErrNoUploads = errors.New("feed has no uploads")

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

type Upload struct {
	VideoID   string
	Title     string
	Link      string
	Author    string
	Published time.Time
}

// Channel is the result of an import
type Channel struct {
	Title   string
	FeedURL string
	Uploads []Upload
}

type Importer struct {
	client     *http.Client
	parser     *gofeed.Parser
	discoverer *discovery.Discoverer
}

func NewImporter() *Importer {
	client := &http.Client{
		Timeout: FeedTimeout,
		Transport: &userAgentTransport{
			Transport: http.DefaultTransport,
			UserAgent: version.GetUserAgent(),
		},
	}
	return NewImporterWithClient(client)
}

func NewImporterWithClient(client *http.Client) *Importer {
	return &Importer{
		client:     client,
		parser:     gofeed.NewParser(),
		discoverer: discovery.NewWithClient(client),
	}
}

// Import resolves rawURL to an upload feed and returns its newest uploads
func (i *Importer) Import(ctx context.Context, rawURL string, limit int) (Channel, error) {
	feedURL, err := i.discoverer.DiscoverFeed(ctx, rawURL)
	if err != nil {
		return Channel{}, fmt.Errorf("failed to discover feed for %s: %w", rawURL, err)
	}
	logging.Debug("Discovered channel feed", "url", rawURL, "feed", feedURL)

	ch, err := i.RecentUploads(ctx, feedURL, limit)
	if err != nil {
		return Channel{}, err
	}
	return ch, nil
}

// RecentUploads fetches feedURL and returns up to limit uploads, newest first
func (i *Importer) RecentUploads(ctx context.Context, feedURL string, limit int) (Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, FeedTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return Channel{}, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		logging.Error("Error fetching feed", "url", feedURL, "error", err)
		return Channel{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		logging.Error("HTTP error fetching feed", "url", feedURL, "status", resp.StatusCode, "error", err)
		return Channel{}, err
	}

	ch, err := i.parse(resp.Body, limit)
	if err != nil {
		logging.Error("Error parsing feed", "url", feedURL, "error", err)
		return Channel{}, err
	}
	ch.FeedURL = feedURL
	return ch, nil
}

// ParseUploads parses a feed document without fetching it
func ParseUploads(feedXML string, limit int) (Channel, error) {
	return (&Importer{parser: gofeed.NewParser()}).parse(strings.NewReader(feedXML), limit)
}

func (i *Importer) parse(r io.Reader, limit int) (Channel, error) {
	feed, err := i.parser.Parse(r)
	if err != nil {
		return Channel{}, fmt.Errorf("failed to parse feed: %w", err)
	}

	ch := Channel{Title: feed.Title}
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		u := Upload{
			VideoID: youTubeVideoID(item),
			Title:   item.Title,
			Link:    item.Link,
		}
		if item.PublishedParsed != nil {
			u.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			u.Published = *item.UpdatedParsed
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			u.Author = item.Authors[0].Name
		}
		ch.Uploads = append(ch.Uploads, u)
	}

	if len(ch.Uploads) == 0 {
		return ch, ErrNoUploads
	}

	sort.SliceStable(ch.Uploads, func(a, b int) bool {
		return ch.Uploads[a].Published.After(ch.Uploads[b].Published)
	})

	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(ch.Uploads) > limit {
		ch.Uploads = ch.Uploads[:limit]
	}
	return ch, nil
}

// youTubeVideoID reads the yt:videoId extension of YouTube feeds
func youTubeVideoID(item *gofeed.Item) string {
	yt, ok := item.Extensions["yt"]
	if !ok {
		return ""
	}
	if ids := yt["videoId"]; len(ids) > 0 {
		return ids[0].Value
	}
	return ""
}

// Links returns the watch links of the uploads in order
func (c Channel) Links() []string {
	links := make([]string, len(c.Uploads))
	for i, u := range c.Uploads {
		links[i] = u.Link
	}
	return links
}
