// Package digest implements the feed merge and deduplication core: the
// unique-newest ordering shared by every query, and the seen-set gate that
// decides which items are fresh on a scheduled tick.
package digest

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"

	"nfl_bot/internal/filter"
	"nfl_bot/internal/model"
	"nfl_bot/internal/storage"
)

// FetchError marks a failure to retrieve or parse a feed, as opposed to a
// persistence failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// Digest merges, deduplicates, and orders feed items. It holds no state of
// its own between calls; freshness lives in the seen-set store.
type Digest struct {
	fetcher Fetcher
	store   storage.Storage
	log     *slog.Logger
}

// Fetcher is the feed retrieval dependency.
type Fetcher interface {
	// Fetch returns normalized items or an error.
	Fetch(ctx context.Context, url string) ([]model.Item, error)
	// Items returns normalized items, absorbing fetch errors.
	Items(ctx context.Context, url string) []model.Item
}

// New creates a Digest over the given fetcher and store.
func New(f Fetcher, store storage.Storage, log *slog.Logger) *Digest {
	return &Digest{fetcher: f, store: store, log: log}
}

// UniqueNewest sorts items newest-first (undated items last, ties keeping
// their original relative order) and walks them, skipping any item whose
// identity key was already emitted, until limit items are collected.
// The identity key is the link, falling back to the title; items with
// neither are dropped.
func UniqueNewest(items []model.Item, limit int) []model.Item {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	emitted := make(map[string]struct{})
	var out []model.Item
	for _, it := range sorted {
		if len(out) >= limit {
			break
		}
		key := it.Link
		if key == "" {
			key = it.Title
		}
		if key == "" {
			continue
		}
		if _, dup := emitted[key]; dup {
			continue
		}
		emitted[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// ItemHash returns the seen-set identity hash for an item: a SHA-256 digest
// of the link, falling back to the GUID. The second return is false when
// the item has neither.
func ItemHash(it model.Item) (string, bool) {
	id := it.Link
	if id == "" {
		id = it.GUID
	}
	if id == "" {
		return "", false
	}
	h := sha256.Sum256([]byte(id))
	return fmt.Sprintf("%x", h), true
}

// Fresh fetches one feed and returns its previously-unseen items in
// unique-newest order, up to limit. Accepted items are marked seen at
// selection time, before any delivery happens downstream: a failed send is
// never redelivered. Only the accepted items are marked, so a backlog of
// novel items drains at most limit per tick.
//
// Fetch failures are logged and returned as a *FetchError so the caller
// can track feed health; store errors propagate with whatever was accepted
// before the failure.
func (d *Digest) Fresh(ctx context.Context, feedURL string, limit int) ([]model.Item, error) {
	items, err := d.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		d.log.Error("fetch feed", "url", feedURL, "error", err)
		return nil, &FetchError{URL: feedURL, Err: err}
	}

	var fresh []model.Item
	for _, it := range UniqueNewest(items, len(items)) {
		if len(fresh) >= limit {
			break
		}
		hash, ok := ItemHash(it)
		if !ok {
			continue
		}
		seen, err := d.store.IsSeen(ctx, feedURL, hash)
		if err != nil {
			return fresh, fmt.Errorf("check seen: %w", err)
		}
		if seen {
			continue
		}
		if err := d.store.MarkSeen(ctx, feedURL, hash); err != nil {
			return fresh, fmt.Errorf("mark seen: %w", err)
		}
		fresh = append(fresh, it)
	}
	return fresh, nil
}

// Latest merges the given feeds and returns the newest limit distinct
// items. It never consults or mutates the seen-set, so repeated queries
// are idempotent and do not consume freshness from the scheduled ticker.
func (d *Digest) Latest(ctx context.Context, feedURLs []string, limit int) []model.Item {
	var all []model.Item
	for _, url := range feedURLs {
		all = append(all, d.fetcher.Items(ctx, url)...)
	}
	return UniqueNewest(all, limit)
}

// FilteredLatest is Latest restricted to items passing the given filters.
func (d *Digest) FilteredLatest(ctx context.Context, feedURLs []string, limit int, filters []model.Filter) []model.Item {
	var all []model.Item
	for _, url := range feedURLs {
		all = append(all, d.fetcher.Items(ctx, url)...)
	}
	return UniqueNewest(filter.Apply(all, filters), limit)
}
