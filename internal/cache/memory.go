package cache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process cache with FIFO eviction. When a bound is
// set, inserting past it evicts the oldest-inserted entry; updating an
// existing key keeps its original queue position. A zero bound means
// unbounded, which fits the metadata cache where entries are small.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]string
	order      []string
	maxEntries int
}

// NewMemoryCache creates a MemoryCache evicting FIFO past maxEntries.
// Pass 0 for no bound.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]string),
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *MemoryCache) Set(_ context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// Flush drops all entries.
func (c *MemoryCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	c.order = nil
}

// Len reports the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
