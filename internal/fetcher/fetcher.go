// Package fetcher handles feed downloading, parsing, and normalization.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"nfl_bot/internal/model"
)

const (
	userAgent    = "NFLHeadlinesBot/1.0"
	acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8"

	maxBodyBytes   = 5 * 1024 * 1024
	maxDescription = 300
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses RSS feeds.
type Fetcher struct {
	client  HTTPClient
	log     *slog.Logger
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		log:     log,
		timeout: 10 * time.Second,
	}
}

// Items fetches a feed and returns its normalized items. Any fetch or parse
// failure is logged and absorbed: the caller always gets a (possibly empty)
// item slice, never an error. Transient failures are retried naturally on
// the next scheduled tick.
func (f *Fetcher) Items(ctx context.Context, url string) []model.Item {
	items, err := f.Fetch(ctx, url)
	if err != nil {
		f.log.Error("fetch feed", "url", url, "error", err)
		return nil
	}
	return items
}

// Fetch downloads and parses a feed from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// Some feed hosts reject unidentified clients.
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return normalize(feed.Items), nil
}

// normalize converts parsed entries into model items, dropping anything
// with neither a title nor a link.
func normalize(items []*gofeed.Item) []model.Item {
	var out []model.Item
	for _, item := range items {
		if item == nil {
			continue
		}
		it := model.Item{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			GUID:        strings.TrimSpace(item.GUID),
			Description: truncate(strings.TrimSpace(item.Description), maxDescription),
			PublishedAt: publishedAt(item),
		}
		if !it.Usable() {
			continue
		}
		out = append(out, it)
	}
	return out
}

// publishedAt returns the item's publish time, preferring the published
// date over the updated date. Missing or unparseable dates map to the zero
// time so undated items sort last.
func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
