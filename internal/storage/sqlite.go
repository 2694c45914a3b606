package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"nfl_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Subscribe registers a channel for scheduled deliveries. Subscribing an
// already-subscribed channel is a no-op.
func (s *SQLite) Subscribe(ctx context.Context, channelID string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscriptions (channel_id, created_at) VALUES (?, ?)`,
		channelID, now,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// Unsubscribe removes a channel and its explicit feed list. Removing an
// unknown channel is a no-op.
func (s *SQLite) Unsubscribe(ctx context.Context, channelID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM channel_feeds WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("delete channel_feeds: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return tx.Commit()
}

// IsSubscribed reports whether a channel receives scheduled deliveries.
func (s *SQLite) IsSubscribed(ctx context.Context, channelID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?`, channelID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return count > 0, nil
}

// ListSubscriptions returns every subscribed channel in insertion order.
func (s *SQLite) ListSubscriptions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel_id FROM subscriptions ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanStrings(rows)
}

// AddChannelFeed attaches a feed URL to a channel's explicit feed list.
func (s *SQLite) AddChannelFeed(ctx context.Context, channelID, feedURL string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO channel_feeds (channel_id, feed) VALUES (?, ?)`,
		channelID, feedURL,
	)
	if err != nil {
		return fmt.Errorf("insert channel feed: %w", err)
	}
	return nil
}

// RemoveChannelFeed detaches a feed URL from a channel's explicit feed list.
func (s *SQLite) RemoveChannelFeed(ctx context.Context, channelID, feedURL string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM channel_feeds WHERE channel_id = ? AND feed = ?`,
		channelID, feedURL,
	)
	if err != nil {
		return fmt.Errorf("delete channel feed: %w", err)
	}
	return nil
}

// FeedsFor returns the channel's explicit feeds in insertion order.
func (s *SQLite) FeedsFor(ctx context.Context, channelID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT feed FROM channel_feeds WHERE channel_id = ? ORDER BY rowid`, channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("query channel feeds: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanStrings(rows)
}

// MarkSeen records that an item identity has been processed for a feed.
// Marking an already-seen identity is a no-op.
func (s *SQLite) MarkSeen(ctx context.Context, feedURL, itemHash string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen (feed, item_hash, seen_at) VALUES (?, ?, ?)`,
		feedURL, itemHash, now,
	)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// IsSeen checks whether an item identity has already been processed.
func (s *SQLite) IsSeen(ctx context.Context, feedURL, itemHash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen WHERE feed = ? AND item_hash = ?`,
		feedURL, itemHash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check seen: %w", err)
	}
	return count > 0, nil
}

// EvictSeenBefore deletes seen records older than cutoff and returns the
// number of rows removed. Keeps the seen-set bounded over feed churn.
func (s *SQLite) EvictSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM seen WHERE seen_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("evict seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// CountSeen returns the total number of seen records across all feeds.
func (s *SQLite) CountSeen(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count seen: %w", err)
	}
	return count, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
