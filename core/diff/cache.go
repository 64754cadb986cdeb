package diff

import (
	"context"
	"strings"
	"sync"
	"time"

	"ahb-manager/core/flatten"

	"golang.org/x/sync/singleflight"
)

// Loader loads the rows of one scope and version.
type Loader func(ctx context.Context) ([]flatten.Row, error)

type cacheEntry struct {
	rows  []flatten.Row
	built time.Time
}

// Cache holds loaded row sets keyed by scope.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
	now     func() time.Time
	// gen counts invalidations; a load only stores its rows if no invalidation ran meanwhile.
	gen uint64
}

// NewCache creates a cache. A zero ttl disables caching; concurrent loads are still shared.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Key builds a cache key. Keys of one kind and format version share a prefix.
func Key(kind, formatVersion, scope string) string {
	return kind + "|" + formatVersion + "|" + scope
}

func (c *Cache) fresh(e *cacheEntry) bool {
	if c.ttl == 0 {
		return false
	}
	return c.now().Sub(e.built) <= c.ttl
}

func (c *Cache) lookup(key string) ([]flatten.Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.fresh(e) {
		return nil, false
	}
	return e.rows, true
}

// Rows returns the cached rows of key or loads them.
// The load runs detached from ctx's cancellation since other callers may share it.
// Callers must not modify the returned slice.
func (c *Cache) Rows(ctx context.Context, key string, load Loader) ([]flatten.Row, error) {
	// Fast path
	if rows, ok := c.lookup(key); ok {
		return rows, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after joining the flight
		if rows, ok := c.lookup(key); ok {
			return rows, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		rows, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			if c.gen == gen {
				c.entries[key] = &cacheEntry{rows: rows, built: c.now()}
			}
			c.mu.Unlock()
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]flatten.Row), nil
}

// Invalidate drops every entry whose key starts with prefix. An empty prefix drops all entries.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
