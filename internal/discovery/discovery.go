package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/jarv/ytgoat/internal/version"
)

// ErrNoFeed is returned when no upload feed could be found for a URL
var ErrNoFeed = errors.New("no feed found")

const youTubeFeedBase = "https://www.youtube.com/feeds/videos.xml"

var channelIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"channelId":"(UC[A-Za-z0-9_-]{22})"`),
	regexp.MustCompile(`"externalId":"(UC[A-Za-z0-9_-]{22})"`),
	regexp.MustCompile(`channel_id=(UC[A-Za-z0-9_-]{22})`),
	regexp.MustCompile(`/channel/(UC[A-Za-z0-9_-]{22})`),
}

// Discoverer resolves channel, playlist and page URLs to an upload feed
type Discoverer struct {
	client *http.Client
}

func New(timeout time.Duration) *Discoverer {
	return &Discoverer{client: &http.Client{Timeout: timeout}}
}

// NewWithClient is used by tests to point discovery at a local server
func NewWithClient(client *http.Client) *Discoverer {
	return &Discoverer{client: client}
}

// DiscoverFeed returns the feed URL for rawURL.
// Feed URLs are returned as-is, channel and playlist URLs are mapped to the
// YouTube feed without a request, and anything else is fetched and searched
// for a feed link or a channel id.
func (d *Discoverer) DiscoverFeed(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", rawURL)
	}

	if feed, ok := YouTubeFeedURL(u); ok {
		return feed, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", version.GetUserAgent())

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if isFeedContentType(contentType) {
		return u.String(), nil
	}
	if !isHTMLContentType(contentType) {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if feed, err := DiscoverFeedFromHTML(string(body), u.String()); err == nil {
		return feed, nil
	}

	channelID, err := ExtractYouTubeChannelID(string(body))
	if err != nil {
		return "", err
	}
	return ChannelFeedURL(channelID), nil
}

// YouTubeFeedURL maps URLs that carry a channel or playlist id to the
// matching feed without any request
func YouTubeFeedURL(u *url.URL) (string, bool) {
	if !isYouTubeHost(u.Host) {
		return "", false
	}

	q := u.Query()
	if strings.HasPrefix(u.Path, "/feeds/videos.xml") {
		return u.String(), true
	}
	if list := q.Get("list"); list != "" && u.Path == "/playlist" {
		return PlaylistFeedURL(list), true
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "channel" && parts[1] != "" {
		return ChannelFeedURL(parts[1]), true
	}
	return "", false
}

func ChannelFeedURL(channelID string) string {
	return youTubeFeedBase + "?channel_id=" + url.QueryEscape(channelID)
}

func PlaylistFeedURL(playlistID string) string {
	return youTubeFeedBase + "?playlist_id=" + url.QueryEscape(playlistID)
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

// DiscoverFeedFromHTML returns the first alternate RSS/Atom link in the page
func DiscoverFeedFromHTML(htmlContent string, baseURL string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	href := findFeedLink(doc)
	if href == "" {
		return "", ErrNoFeed
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return href, nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid feed link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func findFeedLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" {
		var rel, href, typeAttr string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "rel":
				rel = attr.Val
			case "href":
				href = attr.Val
			case "type":
				typeAttr = attr.Val
			}
		}

		if strings.EqualFold(rel, "alternate") && isFeedType(typeAttr) && href != "" {
			return href
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findFeedLink(c); result != "" {
			return result
		}
	}

	return ""
}

// ExtractYouTubeChannelID finds a channel id in a channel or video page
func ExtractYouTubeChannelID(htmlContent string) (string, error) {
	for _, re := range channelIDPatterns {
		if matches := re.FindStringSubmatch(htmlContent); len(matches) > 1 {
			return matches[1], nil
		}
	}
	return "", fmt.Errorf("%w: could not find YouTube channel ID in page", ErrNoFeed)
}

func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return contentType == "application/rss+xml" ||
		contentType == "application/atom+xml" ||
		contentType == "application/xml" ||
		contentType == "text/xml"
}

func isHTMLContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return contentType == "text/html"
}

func isFeedType(typeAttr string) bool {
	typeAttr = strings.ToLower(typeAttr)
	return typeAttr == "application/rss+xml" || typeAttr == "application/atom+xml"
}
