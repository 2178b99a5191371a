package webpath

import (
	"sync"

	"github.com/mmwwxz/website-scanner/pkg/types"
)

// urlCache memoizes per-URL classification outcomes for the lifetime of one
// scan. A cached nil records a silently skipped URL. The cache is bounded; at
// capacity new entries are dropped rather than evicting old ones, since one
// scan visits a fixed URL universe.
type urlCache struct {
	mu      sync.RWMutex
	max     int
	entries map[string]*types.Finding
}

func newURLCache(max int) *urlCache {
	if max <= 0 {
		max = 256
	}

	return &urlCache{
		max:     max,
		entries: make(map[string]*types.Finding),
	}
}

func (c *urlCache) get(url string) (*types.Finding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.entries[url]
	return f, ok
}

func (c *urlCache) set(url string, f *types.Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[url]; !ok && len(c.entries) >= c.max {
		return
	}
	c.entries[url] = f
}

func (c *urlCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
