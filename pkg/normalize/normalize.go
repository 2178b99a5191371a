// Package normalize reduces user-supplied URL strings to bare host names.
package normalize

import (
	"container/list"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/idna"
)

const cacheSize = 100

var cache = newLRU(cacheSize)

// Host strips scheme, path, port and credentials from a raw URL or host
// string and returns the bare host name, lowercased, with unicode names
// converted to punycode. Input with no parseable host component is returned
// trimmed but otherwise unchanged. Host is idempotent and memoizes results.
func Host(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if host, ok := cache.get(trimmed); ok {
		return host
	}

	host := parseHost(trimmed)
	cache.put(trimmed, host)
	return host
}

func parseHost(raw string) string {
	candidate := raw
	if !strings.Contains(candidate, "//") {
		// Scheme-less input parses as a path; force the authority form so
		// "example.com:8080/admin" yields a host component.
		candidate = "//" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	if ascii, idnaErr := idna.Lookup.ToASCII(host); idnaErr == nil && ascii != "" {
		return ascii
	}
	return host
}

type lru struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	entries map[string]*list.Element
}

type lruEntry struct {
	key   string
	value string
}

func newLRU(capacity int) *lru {
	return &lru{
		cap:     capacity,
		order:   list.New(),
		entries: make(map[string]*list.Element, capacity),
	}
}

func (c *lru) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *lru) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*lruEntry).value = value
		return
	}

	if c.order.Len() >= c.cap {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruEntry).key)
		}
	}

	c.entries[key] = c.order.PushFront(&lruEntry{key: key, value: value})
}
