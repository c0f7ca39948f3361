// Package view holds rendering state for dashboard widgets. State is keyed
// by widget identity and reused across refreshes: an existing widget is
// updated in place rather than torn down and rebuilt, so repeated refreshes
// never create duplicate widgets or visible flicker.
package view

import "sync"

// Cache memoizes per-widget state. Entries are created on first render and
// live for the lifetime of the process; there is no eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	hits    uint64
	misses  uint64
}

// NewCache creates an empty widget cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// GetOrCreate returns the cached state for key, constructing it with create
// on first use. The bool reports whether the entry already existed.
func (c *Cache) GetOrCreate(key string, create func() any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.hits++
		return entry, true
	}
	c.misses++
	entry := create()
	c.entries[key] = entry
	return entry, false
}

// Lookup returns the cached state for key without creating it.
func (c *Cache) Lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Len returns the number of cached widgets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports cache hit/miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
