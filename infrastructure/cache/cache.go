// Package cache holds the in-memory response cache for AI rationales.
package cache

import (
	"sync"
	"time"

	"mapkeeper/domain/quote"
)

// DefaultTTL is how long a cached rationale stays fresh.
const DefaultTTL = time.Hour

// ResponseCache is a time-boxed key/value store for rationales. Expired
// entries are removed lazily when observed on Get; there is no background
// sweep. Growth is unbounded, which is acceptable for a single-process
// deployment over a personal corpus.
type ResponseCache struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

type entry struct {
	value     quote.Rationale
	expiresAt time.Time
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithClock overrides the cache's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		c.now = now
	}
}

// NewResponseCache creates a cache with the given TTL.
func NewResponseCache(ttl time.Duration, opts ...Option) *ResponseCache {
	c := &ResponseCache{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves an unexpired value. An expired entry is deleted on
// observation and reported absent.
func (c *ResponseCache) Get(key string) (quote.Rationale, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return quote.Rationale{}, false
	}

	if c.now().After(item.expiresAt) {
		delete(c.items, key)
		return quote.Rationale{}, false
	}

	return item.value, true
}

// Set stores a value, always overwriting with a fresh TTL from the moment of
// the write.
func (c *ResponseCache) Set(key string, value quote.Rationale) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
