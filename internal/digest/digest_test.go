package digest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nfl_bot/internal/fetcher"
	"nfl_bot/internal/model"
	"nfl_bot/internal/nfl"
	"nfl_bot/internal/storage"
)

// routingHTTP serves a different body per URL, so multi-feed merges and
// successive polls can be scripted.
type routingHTTP struct {
	bodies map[string]string
	err    error
}

func (m *routingHTTP) Do(req *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.bodies[req.URL.String()]
	if !ok {
		return &http.Response{StatusCode: 404, Body: io.NopCloser(bytes.NewBufferString("no route"))}, nil
	}
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBufferString(body))}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *storage.SQLite {
	t.Helper()
	s, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newDigest(t *testing.T, bodies map[string]string) (*Digest, *storage.SQLite) {
	t.Helper()
	store := newTestStore(t)
	f := fetcher.New(&routingHTTP{bodies: bodies}, discardLogger())
	return New(f, store, discardLogger()), store
}

func rssFeed(items ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>`)
	for _, it := range items {
		b.WriteString(it)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func rssItem(title, link, pubDate string) string {
	var b strings.Builder
	b.WriteString("<item>")
	fmt.Fprintf(&b, "<title>%s</title>", title)
	if link != "" {
		fmt.Fprintf(&b, "<link>%s</link>", link)
	}
	if pubDate != "" {
		fmt.Fprintf(&b, "<pubDate>%s</pubDate>", pubDate)
	}
	b.WriteString("</item>")
	return b.String()
}

func titlesOf(items []model.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestUniqueNewest(t *testing.T) {
	t1 := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t1.Add(48 * time.Hour)

	items := []model.Item{
		{Title: "oldest", Link: "https://a/1", PublishedAt: t1},
		{Title: "undated", Link: "https://a/4"},
		{Title: "newest", Link: "https://a/3", PublishedAt: t3},
		{Title: "middle", Link: "https://a/2", PublishedAt: t2},
	}

	tests := []struct {
		name  string
		items []model.Item
		limit int
		want  []string
	}{
		{
			name:  "orders newest first, undated last",
			items: items,
			limit: 10,
			want:  []string{"newest", "middle", "oldest", "undated"},
		},
		{
			name:  "limit truncates",
			items: items,
			limit: 2,
			want:  []string{"newest", "middle"},
		},
		{
			name: "duplicate link keeps first by sort order",
			items: []model.Item{
				{Title: "older copy", Link: "https://a/same", PublishedAt: t1},
				{Title: "newer copy", Link: "https://a/same", PublishedAt: t2},
			},
			limit: 10,
			want:  []string{"newer copy"},
		},
		{
			name: "title is the fallback identity",
			items: []model.Item{
				{Title: "no link", PublishedAt: t2},
				{Title: "no link", PublishedAt: t1},
			},
			limit: 10,
			want:  []string{"no link"},
		},
		{
			name: "items with no identity are dropped",
			items: []model.Item{
				{Description: "nothing to key on", PublishedAt: t3},
				{Title: "kept", Link: "https://a/5", PublishedAt: t1},
			},
			limit: 10,
			want:  []string{"kept"},
		},
		{
			name: "stable for equal timestamps",
			items: []model.Item{
				{Title: "first", Link: "https://a/6", PublishedAt: t1},
				{Title: "second", Link: "https://a/7", PublishedAt: t1},
			},
			limit: 10,
			want:  []string{"first", "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueNewest(tt.items, tt.limit)
			if diff := cmp.Diff(tt.want, titlesOf(got)); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}

			// Same input, same output.
			again := UniqueNewest(tt.items, tt.limit)
			if diff := cmp.Diff(titlesOf(got), titlesOf(again)); diff != "" {
				t.Errorf("non-deterministic result (-first +second):\n%s", diff)
			}
		})
	}
}

func TestUniqueNewestDoesNotMutateInput(t *testing.T) {
	t1 := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		{Title: "b", Link: "https://a/b", PublishedAt: t1},
		{Title: "a", Link: "https://a/a", PublishedAt: t1.Add(time.Hour)},
	}
	UniqueNewest(items, 10)
	if items[0].Title != "b" {
		t.Error("input slice was reordered")
	}
}

func TestItemHash(t *testing.T) {
	linkHash, ok := ItemHash(model.Item{Link: "https://a/1", GUID: "g1"})
	if !ok {
		t.Fatal("expected hash for item with link")
	}
	guidHash, ok := ItemHash(model.Item{GUID: "g1"})
	if !ok {
		t.Fatal("expected hash for item with guid")
	}
	if linkHash == guidHash {
		t.Error("link identity should win over guid")
	}

	sameGUID, _ := ItemHash(model.Item{GUID: "g1", Title: "different title"})
	if sameGUID != guidHash {
		t.Error("hash should depend only on identity, not title")
	}

	if _, ok := ItemHash(model.Item{Title: "only title"}); ok {
		t.Error("expected no hash for item without link or guid")
	}
}

func TestFreshFirstPollThenQuiet(t *testing.T) {
	const feedURL = "https://a.example.com/rss"
	feed := rssFeed(
		rssItem("X", "http://a/1", "Mon, 25 Aug 2025 09:00:00 GMT"),
		rssItem("Y", "http://a/2", "Tue, 26 Aug 2025 09:00:00 GMT"),
	)
	d, _ := newDigest(t, map[string]string{feedURL: feed})
	ctx := context.Background()

	first, err := d.Fresh(ctx, feedURL, 2)
	if err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if diff := cmp.Diff([]string{"Y", "X"}, titlesOf(first)); diff != "" {
		t.Errorf("first poll mismatch (-want +got):\n%s", diff)
	}

	second, err := d.Fresh(ctx, feedURL, 2)
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected no fresh items on second poll, got %v", titlesOf(second))
	}
}

func TestFreshBoundedBurst(t *testing.T) {
	const feedURL = "https://a.example.com/rss"
	var entries []string
	for i := 0; i < 50; i++ {
		entries = append(entries, rssItem(
			fmt.Sprintf("item %02d", i),
			fmt.Sprintf("http://a/%d", i),
			fmt.Sprintf("Mon, 25 Aug 2025 %02d:%02d:00 GMT", i/60, i%60),
		))
	}
	d, store := newDigest(t, map[string]string{feedURL: rssFeed(entries...)})
	ctx := context.Background()

	fresh, err := d.Fresh(ctx, feedURL, 2)
	if err != nil {
		t.Fatalf("fresh: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected burst of 2, got %d", len(fresh))
	}

	// Only the emitted items are marked seen; the backlog drains over
	// subsequent polls.
	seen, err := store.CountSeen(ctx)
	if err != nil {
		t.Fatalf("count seen: %v", err)
	}
	if seen != 2 {
		t.Errorf("expected 2 seen records, got %d", seen)
	}

	next, err := d.Fresh(ctx, feedURL, 2)
	if err != nil {
		t.Fatalf("next poll: %v", err)
	}
	if len(next) != 2 {
		t.Errorf("expected backlog to keep draining, got %d items", len(next))
	}
	for _, it := range next {
		for _, prev := range fresh {
			if it.Link == prev.Link {
				t.Errorf("item %q returned twice across polls", it.Title)
			}
		}
	}
}

func TestFreshFetchError(t *testing.T) {
	store := newTestStore(t)
	f := fetcher.New(&routingHTTP{err: io.ErrUnexpectedEOF}, discardLogger())
	d := New(f, store, discardLogger())

	_, err := d.Fresh(context.Background(), "https://a.example.com/rss", 2)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.URL != "https://a.example.com/rss" {
		t.Errorf("FetchError.URL = %q", fe.URL)
	}
}

func TestLatestMergesAndStaysReadOnly(t *testing.T) {
	feedA := "https://a.example.com/rss"
	feedB := "https://b.example.com/rss"
	bodies := map[string]string{
		feedA: rssFeed(
			rssItem("A old", "http://a/1", "Mon, 25 Aug 2025 09:00:00 GMT"),
			rssItem("shared", "http://shared/1", "Wed, 27 Aug 2025 09:00:00 GMT"),
		),
		feedB: rssFeed(
			rssItem("B new", "http://b/1", "Thu, 28 Aug 2025 09:00:00 GMT"),
			rssItem("shared again", "http://shared/1", "Tue, 26 Aug 2025 09:00:00 GMT"),
		),
	}
	d, store := newDigest(t, bodies)
	ctx := context.Background()

	got := d.Latest(ctx, []string{feedA, feedB}, 5)
	want := []string{"B new", "shared", "A old"}
	if diff := cmp.Diff(want, titlesOf(got)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}

	// Repeated queries are idempotent and never consume freshness.
	again := d.Latest(ctx, []string{feedA, feedB}, 5)
	if diff := cmp.Diff(titlesOf(got), titlesOf(again)); diff != "" {
		t.Errorf("repeated query mismatch (-first +second):\n%s", diff)
	}
	seen, err := store.CountSeen(ctx)
	if err != nil {
		t.Fatalf("count seen: %v", err)
	}
	if seen != 0 {
		t.Errorf("on-demand query touched the seen-set: %d records", seen)
	}

	fresh, err := d.Fresh(ctx, feedA, 5)
	if err != nil {
		t.Fatalf("fresh: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("queries consumed freshness: got %d fresh items", len(fresh))
	}
}

func TestLatestSkipsBrokenFeed(t *testing.T) {
	feedA := "https://a.example.com/rss"
	bodies := map[string]string{
		feedA: rssFeed(rssItem("only", "http://a/1", "Mon, 25 Aug 2025 09:00:00 GMT")),
		// feedB unrouted: 404s and contributes nothing.
	}
	d, _ := newDigest(t, bodies)

	got := d.Latest(context.Background(), []string{feedA, "https://b.example.com/rss"}, 5)
	if diff := cmp.Diff([]string{"only"}, titlesOf(got)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}

func TestFilteredLatest(t *testing.T) {
	const feedURL = "https://a.example.com/rss"
	feed := rssFeed(
		rssItem("Star receiver placed on IR", "http://a/1", "Wed, 27 Aug 2025 09:00:00 GMT"),
		rssItem("Schedule changes announced", "http://a/2", "Thu, 28 Aug 2025 09:00:00 GMT"),
		rssItem("RB doubtful with hamstring injury", "http://a/3", "Mon, 25 Aug 2025 09:00:00 GMT"),
	)
	d, _ := newDigest(t, map[string]string{feedURL: feed})

	got := d.FilteredLatest(context.Background(), []string{feedURL}, 5, nfl.InjuryFilters())
	want := []string{
		"Star receiver placed on IR",
		"RB doubtful with hamstring injury",
	}
	if diff := cmp.Diff(want, titlesOf(got)); diff != "" {
		t.Errorf("titles mismatch (-want +got):\n%s", diff)
	}
}
