package patterns

import (
	"context"
	"sync"
	"time"

	"cuesheet/internal/store"
)

const defaultCacheTTL = 60 * time.Second

// cache holds the full rule list, reloading from the store once the entries
// go stale. The clock is injectable for tests; mutations on the engine
// invalidate explicitly so feedback takes effect immediately.
type cache struct {
	mu       sync.Mutex
	store    *store.Store
	ttl      time.Duration
	now      func() time.Time
	loadedAt time.Time
	entries  []*store.Pattern
	valid    bool
}

func newCache(st *store.Store, ttlSeconds int) *cache {
	ttl := defaultCacheTTL
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &cache{store: st, ttl: ttl, now: time.Now}
}

func (c *cache) patterns(ctx context.Context) ([]*store.Pattern, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		return c.entries, nil
	}
	entries, err := c.store.ListPatterns(ctx)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	c.loadedAt = c.now()
	c.valid = true
	return entries, nil
}

func (c *cache) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
