// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"
)

// Storage is the interface for all persistence operations.
//
// Feeds and item links are compared as exact strings; no URL normalization
// is performed. Duplicate feeds differing only in trailing slash are
// distinct identities.
type Storage interface {
	Subscribe(ctx context.Context, channelID string) error
	Unsubscribe(ctx context.Context, channelID string) error
	IsSubscribed(ctx context.Context, channelID string) (bool, error)
	ListSubscriptions(ctx context.Context) ([]string, error)

	AddChannelFeed(ctx context.Context, channelID, feedURL string) error
	RemoveChannelFeed(ctx context.Context, channelID, feedURL string) error
	// FeedsFor returns the channel's explicit feed list. An empty result is
	// the "use defaults" signal, not an error.
	FeedsFor(ctx context.Context, channelID string) ([]string, error)

	MarkSeen(ctx context.Context, feedURL, itemHash string) error
	IsSeen(ctx context.Context, feedURL, itemHash string) (bool, error)
	EvictSeenBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountSeen(ctx context.Context) (int64, error)

	Close() error
}
