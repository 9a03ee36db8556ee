package collector

import (
	"sync"
	"time"
)

// SourceCache suppresses re-delivery of items already seen within a TTL
// window. Each crawler-style source owns one instance. The orchestrator may
// drive concurrent fetches of the same source, so all operations lock.
type SourceCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// FilterNew keeps the items not seen before and records them. Items with an
// empty key are never cached and always pass. Input order is preserved.
func (c *SourceCache) FilterNew(items []Item) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := make([]Item, 0, len(items))
	for _, it := range items {
		key := it.Key()
		if key == "" {
			fresh = append(fresh, it)
			continue
		}
		if _, ok := c.seen[key]; ok {
			continue
		}
		c.seen[key] = c.now()
		fresh = append(fresh, it)
	}
	return fresh
}

// EvictOlderThan removes entries recorded more than maxAge ago. Callers run
// it before each fetch to bound memory.
func (c *SourceCache) EvictOlderThan(maxAge time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-maxAge)
	for key, at := range c.seen {
		if at.Before(cutoff) {
			delete(c.seen, key)
		}
	}
}

// Len reports the number of cached keys.
func (c *SourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
