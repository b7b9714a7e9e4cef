package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests allowed per window
	DefaultLimit = 30
	// DefaultWindow is the trailing window duration
	DefaultWindow = 60 * time.Second
)

// SlidingWindowLimiter implements sliding window rate limiting keyed by an
// opaque client identity. Timestamps older than the window are purged lazily
// on each check; there is no background sweep.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

// Option configures a SlidingWindowLimiter.
type Option func(*SlidingWindowLimiter)

// WithClock overrides the limiter's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *SlidingWindowLimiter) {
		l.now = now
	}
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration, opts ...Option) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		windows:    make(map[string][]time.Time),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow checks whether a request for the given identity fits in the current
// window, recording it if so. A denied request is not recorded.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.windowSize)

	// Purge every identity, not just the queried one, so idle clients do not
	// pin memory between checks.
	for k, requests := range l.windows {
		valid := requests[:0]
		for _, t := range requests {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(l.windows, k)
			continue
		}
		l.windows[k] = valid
	}

	if len(l.windows[key]) >= l.limit {
		return false
	}

	l.windows[key] = append(l.windows[key], now)
	return true
}

// Reset clears the window for an identity
func (l *SlidingWindowLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
}

// Remaining reports how many requests the identity has left in the current
// window without recording anything.
func (l *SlidingWindowLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.windowSize)
	count := 0
	for _, t := range l.windows[key] {
		if t.After(windowStart) {
			count++
		}
	}
	if count >= l.limit {
		return 0
	}
	return l.limit - count
}
