// Package scheduler drives the recurring poll-and-deliver cycle over all
// subscribed channels.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"nfl_bot/internal/digest"
	"nfl_bot/internal/health"
	"nfl_bot/internal/model"
	"nfl_bot/internal/nfl"
	"nfl_bot/internal/storage"
)

// burstLimit caps fresh items per feed per tick, so a newly-subscribed
// channel is not flooded with a feed's entire backlog.
const burstLimit = 2

// sendPace is the fixed inter-message delay respecting the chat platform's
// rate limits. A hard serialization point, not a suggestion.
const sendPace = 700 * time.Millisecond

// Sender delivers one headline to a destination channel. The sink owns
// message formatting and destination resolution.
type Sender interface {
	SendHeadline(channelID string, item model.Item, source string) error
}

// Status is a read-only snapshot of the scheduler's observable state.
type Status struct {
	StartedAt      time.Time           `json:"started_at"`
	LastTickAt     time.Time           `json:"last_tick_at"`
	NextTickAt     time.Time           `json:"next_tick_at"`
	TickCount      int64               `json:"tick_count"`
	LastError      string              `json:"last_error,omitempty"`
	Subscriptions  int                 `json:"subscriptions"`
	SeenCount      int64               `json:"seen_count"`
	UnhealthyFeeds []health.FeedHealth `json:"unhealthy_feeds,omitempty"`
}

// Scheduler periodically polls feeds for every subscription and delivers
// fresh items. A single tick runs at a time; the next tick is armed only
// after the current one completes, so a slow tick delays rather than
// stacks.
type Scheduler struct {
	store    storage.Storage
	digest   *digest.Digest
	sender   Sender
	log      *slog.Logger
	health   *health.Tracker
	limiter  *rate.Limiter
	defaults []string
	interval time.Duration
	seenTTL  time.Duration
	burst    int

	mu     sync.Mutex
	status Status
}

// New creates a Scheduler. defaults is the deployment-wide feed list used
// for subscriptions without explicit feeds.
func New(store storage.Storage, dig *digest.Digest, sender Sender, defaults []string, interval, seenTTL time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		digest:   dig,
		sender:   sender,
		log:      log,
		health:   health.New(),
		limiter:  rate.NewLimiter(rate.Every(sendPace), 1),
		defaults: defaults,
		interval: interval,
		seenTTL:  seenTTL,
		burst:    burstLimit,
	}
}

// SetTickInterval overrides the tick interval (useful for testing).
func (s *Scheduler) SetTickInterval(d time.Duration) { s.interval = d }

// SetPace overrides the inter-send delay (useful for testing).
func (s *Scheduler) SetPace(d time.Duration) { s.limiter = rate.NewLimiter(rate.Every(d), 1) }

// SetHealthTracker swaps the feed-health tracker (useful for testing).
func (s *Scheduler) SetHealthTracker(t *health.Tracker) { s.health = t }

// Status returns a snapshot of the scheduler's state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	st := s.status
	s.mu.Unlock()
	st.UnhealthyFeeds = s.health.Snapshot()
	return st
}

// Run starts the scheduler loop, blocking until ctx is cancelled. The first
// tick fires immediately; each following tick is scheduled a full interval
// after the previous one finishes.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.status.StartedAt = time.Now().UTC()
	s.mu.Unlock()

	s.Tick(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	s.setNextTick(time.Now().Add(s.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.Tick(ctx)
			timer.Reset(s.interval)
			s.setNextTick(time.Now().Add(s.interval))
		}
	}
}

// Tick runs one poll-and-deliver cycle across all subscriptions. Errors
// are absorbed at item or feed granularity and recorded as the last error;
// they never abort the loop.
func (s *Scheduler) Tick(ctx context.Context) {
	start := time.Now().UTC()
	var lastErr error

	if n, err := s.store.EvictSeenBefore(ctx, start.Add(-s.seenTTL)); err != nil {
		s.log.Error("evict seen", "error", err)
		lastErr = err
	} else if n > 0 {
		s.log.Info("evicted seen records", "count", n)
	}

	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		s.log.Error("list subscriptions", "error", err)
		s.finishTick(start, 0, err)
		return
	}

	for _, channelID := range subs {
		if ctx.Err() != nil {
			s.finishTick(start, len(subs), lastErr)
			return
		}
		if err := s.deliverTo(ctx, channelID); err != nil {
			lastErr = err
		}
	}

	s.finishTick(start, len(subs), lastErr)
}

// deliverTo polls every feed of one subscription and sends its fresh items.
// Returns the last error encountered, having continued past it.
func (s *Scheduler) deliverTo(ctx context.Context, channelID string) error {
	feeds, err := s.store.FeedsFor(ctx, channelID)
	if err != nil {
		s.log.Error("resolve feeds", "channel", channelID, "error", err)
		return err
	}
	if len(feeds) == 0 {
		feeds = s.defaults
	}

	var lastErr error
	for _, feedURL := range feeds {
		if ctx.Err() != nil {
			return lastErr
		}
		if !s.health.Ready(feedURL, time.Now()) {
			s.log.Debug("feed suspended", "url", feedURL)
			continue
		}

		fresh, err := s.digest.Fresh(ctx, feedURL, s.burst)
		if err != nil {
			var fe *digest.FetchError
			if errors.As(err, &fe) {
				s.health.Failure(feedURL, err)
			}
			lastErr = err
			continue
		}
		s.health.Success(feedURL)

		for _, item := range fresh {
			if !item.Deliverable() {
				continue
			}
			if err := s.limiter.Wait(ctx); err != nil {
				return lastErr
			}
			if err := s.sender.SendHeadline(channelID, item, nfl.SourceLabel(feedURL)); err != nil {
				s.log.Error("send headline", "channel", channelID, "error", err)
				lastErr = err
			}
		}
	}
	return lastErr
}

func (s *Scheduler) deliverStats(ctx context.Context) int64 {
	n, err := s.store.CountSeen(ctx)
	if err != nil {
		s.log.Error("count seen", "error", err)
		return 0
	}
	return n
}

func (s *Scheduler) finishTick(start time.Time, subs int, tickErr error) {
	seen := s.deliverStats(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastTickAt = start
	s.status.TickCount++
	s.status.Subscriptions = subs
	s.status.SeenCount = seen
	if tickErr != nil {
		s.status.LastError = tickErr.Error()
	} else {
		s.status.LastError = ""
	}
}

func (s *Scheduler) setNextTick(t time.Time) {
	s.mu.Lock()
	s.status.NextTickAt = t.UTC()
	s.mu.Unlock()
}
