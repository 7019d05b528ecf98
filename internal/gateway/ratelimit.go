package gateway

import (
	"sync"
	"time"
)

// RateWindow is the sliding window shared by both limiters.
const RateWindow = 1800 * time.Second

// Default per-window limits for the two limited endpoints.
const (
	AnalyzeRateLimit  = 10
	DownloadRateLimit = 5
)

// Limiter is a mutex-guarded sliding-window rate limiter keyed by client
// identity. Each identity holds the timestamps of its admitted requests
// within the trailing window; identities whose windows have emptied are
// swept periodically so the map stays bounded.
type Limiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	hits      map[string][]time.Time
	lastSweep time.Time

	now func() time.Time // overridable in tests
}

// NewLimiter returns a limiter admitting at most limit requests per identity
// within any trailing window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:     limit,
		window:    window,
		hits:      make(map[string][]time.Time),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether a request from identity is admitted right now.
// Timestamps older than the window are pruned on both the admit and the
// reject path; an admitted request is recorded before returning.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	recent := pruneBefore(l.hits[identity], now.Add(-l.window))
	if len(recent) >= l.limit {
		l.hits[identity] = recent
		return false
	}
	l.hits[identity] = append(recent, now)
	return true
}

// TrackedIdentities returns the number of identities currently held.
// Used for metrics.
func (l *Limiter) TrackedIdentities() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// sweepLocked drops identities whose entire window has expired. Runs at most
// once per window so steady traffic does not pay for a full map scan on every
// request. Caller must hold l.mu.
func (l *Limiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	cutoff := now.Add(-l.window)
	for id, stamps := range l.hits {
		if recent := pruneBefore(stamps, cutoff); len(recent) == 0 {
			delete(l.hits, id)
		} else {
			l.hits[id] = recent
		}
	}
	l.lastSweep = now
}

// pruneBefore returns the suffix of stamps at or after cutoff. Stamps are
// appended in order, so the first retained index bounds the rest.
func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && stamps[i].Before(cutoff) {
		i++
	}
	return stamps[i:]
}
