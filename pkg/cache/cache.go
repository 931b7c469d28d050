package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock is injected so tests can move time without sleeping.
type Clock func() time.Time

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-process TTL cache. It is an explicit instance passed
// by reference, constructed once per process, instead of a package
// level map.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	clock      Clock
	group      singleflight.Group
}

func New(defaultTTL time.Duration, clock Clock) *Cache {
	if clock == nil {
		clock = time.Now
	}

	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		clock:      clock,
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.clock().After(e.expiresAt) {
		c.Invalidate(key)
		return nil, false
	}

	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock().Add(ttl),
	}
	c.mu.Unlock()
}

// Invalidate forces the next Get for key to miss.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	c.group.Forget(key)
}

// Clear drops every entry. Used on sign-out.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// GetOrFetch returns the cached value for key, or runs fetch and
// caches its result with the TTL fetch reports. A zero or negative
// TTL means the value is served but not cached. Concurrent callers
// for the same key share a single in-flight fetch.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, time.Duration, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: a concurrent caller may have filled the entry
		// between the miss and the flight being scheduled.
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, ttl, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if ttl > 0 {
			c.SetTTL(key, v, ttl)
		}

		return v, nil
	})

	return v, err
}
