// Package headlines serves per-location news headlines from a TTL cache
// backed by an ordered list of upstream providers.
package headlines

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/newsmap/internal/newsmap"
)

// MaxPerLocation caps how many headlines are kept for one location.
const MaxPerLocation = 3

type entry struct {
	headlines  []newsmap.Headline
	insertedAt time.Time
}

// Cache maps a location key to its most recent headlines. Entries expire
// lazily: an entry older than the TTL is dropped the next time it is read.
// Concurrent misses on the same key may each reach upstream; the last
// fetch to finish wins.
type Cache struct {
	chain  *Chain
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

type Option func(*Cache)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func NewCache(logger *slog.Logger, chain *Chain, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		chain:   chain,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the headlines for key, fetching from upstream on a miss.
// The bool is false when no provider had anything; misses are not cached.
func (c *Cache) Get(ctx context.Context, key, city, country string) ([]newsmap.Headline, bool) {
	if hs, ok := c.lookup(key); ok {
		c.logger.Debug("headline cache hit", "key", key)
		return hs, true
	}

	hs, provider := c.chain.Fetch(ctx, city, country)
	if len(hs) == 0 {
		c.logger.Info("no headlines available", "key", key, "city", city)
		return nil, false
	}
	if len(hs) > MaxPerLocation {
		hs = hs[:MaxPerLocation]
	}

	now := c.now()
	stored := make([]newsmap.Headline, len(hs))
	for i, h := range hs {
		h.CachedAt = now
		stored[i] = h
	}

	c.mu.Lock()
	c.entries[key] = entry{headlines: stored, insertedAt: now}
	c.mu.Unlock()

	c.logger.Debug("headline cache filled", "key", key, "provider", provider, "count", len(stored))
	return clone(stored), true
}

func (c *Cache) lookup(key string) ([]newsmap.Headline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.fresh(e) {
		delete(c.entries, key)
		return nil, false
	}
	return clone(e.headlines), true
}

func (c *Cache) fresh(e entry) bool {
	return c.now().Sub(e.insertedAt) < c.ttl
}

// Purge drops every expired entry and reports how many were removed.
// Expiry does not depend on it; it only reclaims memory early.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if !c.fresh(e) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Check reports an error when the cache has no provider to fill it from.
func (c *Cache) Check(_ context.Context) error {
	if c.chain == nil || c.chain.Len() == 0 {
		return errors.New("no headline providers configured")
	}
	return nil
}

// RunJanitor purges expired entries every interval until ctx is done.
func (c *Cache) RunJanitor(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := c.Purge(); n > 0 {
				c.logger.Debug("purged expired headlines", "count", n)
			}
		}
	}
}

func clone(hs []newsmap.Headline) []newsmap.Headline {
	out := make([]newsmap.Headline, len(hs))
	copy(out, hs)
	return out
}
