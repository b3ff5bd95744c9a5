// Package fetch retrieves items from the configured publishers through the
// RSS-to-JSON bridge, with a direct RSS fallback per source. All sources are
// fetched concurrently; a failing source contributes zero items and never
// fails the aggregation pass.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"tahofeed/internal/core"
	"tahofeed/internal/images"
	"tahofeed/internal/logger"
	"tahofeed/internal/sources"
)

// minDescriptionLen is the minimum stripped-description length for an item to
// count as having content.
const minDescriptionLen = 20

// bridgeResponse mirrors the rss2json API envelope.
type bridgeResponse struct {
	Status string       `json:"status"`
	Items  []bridgeItem `json:"items"`
}

type bridgeItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Thumbnail   string `json:"thumbnail"`
	Enclosure   struct {
		Link string `json:"link"`
	} `json:"enclosure"`
}

// Client fetches and normalizes items from all configured publishers.
type Client struct {
	http       *http.Client
	bridgeURL  string
	cacheBust  bool
	publishers []sources.Publisher
	parser     *gofeed.Parser
	log        *slog.Logger
}

// NewClient creates a fetch client for the given publisher set.
func NewClient(bridgeURL string, timeout time.Duration, cacheBust bool, publishers []sources.Publisher) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		bridgeURL:  bridgeURL,
		cacheBust:  cacheBust,
		publishers: publishers,
		parser:     gofeed.NewParser(),
		log:        logger.Get(),
	}
}

// FetchAll fires one fetch per publisher concurrently and returns the merged
// normalized items once every source has completed or degraded to empty.
func (c *Client) FetchAll(ctx context.Context) []core.RawItem {
	results := make([][]core.RawItem, len(c.publishers))
	var wg sync.WaitGroup

	for i, pub := range c.publishers {
		wg.Add(1)
		go func(i int, pub sources.Publisher) {
			defer wg.Done()
			items, err := c.fetchSource(ctx, pub)
			if err != nil {
				c.log.Warn("source fetch failed, contributing zero items",
					"source", pub.Name, "error", err.Error())
				return
			}
			results[i] = items
		}(i, pub)
	}
	wg.Wait()

	var merged []core.RawItem
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged
}

// fetchSource tries the JSON bridge first and falls back to parsing the
// publisher feed directly when the bridge degrades.
func (c *Client) fetchSource(ctx context.Context, pub sources.Publisher) ([]core.RawItem, error) {
	items, bridgeErr := c.fetchViaBridge(ctx, pub)
	if bridgeErr == nil {
		return items, nil
	}

	c.log.Debug("bridge fetch failed, trying direct RSS",
		"source", pub.Name, "error", bridgeErr.Error())
	items, directErr := c.fetchDirect(ctx, pub)
	if directErr != nil {
		return nil, fmt.Errorf("bridge: %v; direct: %w", bridgeErr, directErr)
	}
	return items, nil
}

func (c *Client) fetchViaBridge(ctx context.Context, pub sources.Publisher) ([]core.RawItem, error) {
	endpoint := c.bridgeURL + "?rss_url=" + url.QueryEscape(pub.FeedURL)
	if c.cacheBust {
		endpoint += fmt.Sprintf("&_cb=%d", time.Now().UnixMilli())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}

	var br bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}
	if br.Status != "ok" {
		return nil, fmt.Errorf("bridge status %q", br.Status)
	}

	var items []core.RawItem
	for _, bi := range br.Items {
		description := bi.Content
		if description == "" {
			description = bi.Description
		}
		item := core.RawItem{
			Title:       bi.Title,
			Link:        sources.NormalizeLink(bi.Link, pub.Name),
			PubDate:     bi.PubDate,
			Published:   parsePubDate(bi.PubDate),
			SourceName:  pub.Name,
			Description: description,
			ImageURL:    resolveImage(bi, description),
		}
		if keep(item) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *Client) fetchDirect(ctx context.Context, pub sources.Publisher) ([]core.RawItem, error) {
	feed, err := c.parser.ParseURLWithContext(pub.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var items []core.RawItem
	for _, fi := range feed.Items {
		description := fi.Content
		if description == "" {
			description = fi.Description
		}
		published := time.Time{}
		if fi.PublishedParsed != nil {
			published = *fi.PublishedParsed
		}
		imageURL := ""
		if fi.Image != nil {
			imageURL = fi.Image.URL
		}
		if imageURL == "" {
			imageURL = images.Extract(description)
		}
		item := core.RawItem{
			Title:       fi.Title,
			Link:        sources.NormalizeLink(fi.Link, pub.Name),
			PubDate:     fi.Published,
			Published:   published,
			SourceName:  pub.Name,
			Description: description,
			ImageURL:    imageURL,
		}
		if keep(item) {
			items = append(items, item)
		}
	}
	return items, nil
}

// resolveImage prefers feed metadata over scanning the description HTML.
func resolveImage(bi bridgeItem, description string) string {
	if bi.Enclosure.Link != "" {
		return bi.Enclosure.Link
	}
	if bi.Thumbnail != "" {
		return bi.Thumbnail
	}
	return images.Extract(description)
}

// keep applies the per-item content filter: items whose stripped description
// is too short carry nothing worth showing.
func keep(item core.RawItem) bool {
	return len(StripHTML(item.Description)) > minDescriptionLen
}

// pubDateLayouts covers the timestamp shapes seen across the bridge and the
// publisher feeds. Unparseable dates yield a zero time, which sorts last.
var pubDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05Z07:00",
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// StripHTML removes markup and entity escapes from a description blob.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

var (
	tzOffsetSuffix = regexp.MustCompile(`\s[+-]\d{4}$`)
	gmtSuffix      = regexp.MustCompile(`\sGMT[+-]\d+$`)
)

// FormatDisplayDate trims timezone suffixes from a source timestamp for
// display. An empty input reads as "now" in Filipino.
func FormatDisplayDate(pubDate string) string {
	if pubDate == "" {
		return "Kasalukuyan"
	}
	s := tzOffsetSuffix.ReplaceAllString(pubDate, "")
	s = gmtSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
