// Package health tracks per-feed fetch outcomes and suspends feeds that
// fail repeatedly, so a dead feed is not hammered on every tick.
package health

import (
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

const suspendAfter = 3

// FeedHealth is a snapshot of one feed's failure state.
type FeedHealth struct {
	Feed      string    `json:"feed"`
	Failures  int       `json:"failures"`
	LastError string    `json:"last_error"`
	RetryAt   time.Time `json:"retry_at"`
}

type feedState struct {
	failures int
	lastErr  string
	backoff  retry.Backoff
	retryAt  time.Time
}

// Tracker records consecutive fetch failures per feed. After suspendAfter
// failures in a row the feed is suspended with capped exponential backoff;
// one success clears everything.
type Tracker struct {
	mu      sync.Mutex
	feeds   map[string]*feedState
	base    time.Duration
	maxWait time.Duration
}

// New creates a Tracker with a 1-minute backoff base capped at 30 minutes.
func New() *Tracker {
	return NewWithBackoff(time.Minute, 30*time.Minute)
}

// NewWithBackoff creates a Tracker with a custom backoff schedule.
func NewWithBackoff(base, maxWait time.Duration) *Tracker {
	return &Tracker{
		feeds:   make(map[string]*feedState),
		base:    base,
		maxWait: maxWait,
	}
}

// Failure records a failed fetch for the feed.
func (t *Tracker) Failure(feed string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.feeds[feed]
	if st == nil {
		st = &feedState{}
		t.feeds[feed] = st
	}
	st.failures++
	if err != nil {
		st.lastErr = err.Error()
	}

	if st.failures < suspendAfter {
		return
	}
	if st.backoff == nil {
		st.backoff = retry.WithCappedDuration(t.maxWait, retry.NewExponential(t.base))
	}
	delay, _ := st.backoff.Next()
	st.retryAt = time.Now().Add(delay)
}

// Success clears the feed's failure state.
func (t *Tracker) Success(feed string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.feeds, feed)
}

// Ready reports whether the feed should be fetched now. Suspended feeds
// become ready again once their backoff window passes, as a health re-probe.
func (t *Tracker) Ready(feed string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.feeds[feed]
	if st == nil {
		return true
	}
	return !now.Before(st.retryAt)
}

// Snapshot returns the state of every feed with recorded failures.
func (t *Tracker) Snapshot() []FeedHealth {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]FeedHealth, 0, len(t.feeds))
	for feed, st := range t.feeds {
		out = append(out, FeedHealth{
			Feed:      feed,
			Failures:  st.failures,
			LastError: st.lastErr,
			RetryAt:   st.retryAt,
		})
	}
	return out
}
