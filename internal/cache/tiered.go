package cache

import (
	"context"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/metrics"
)

// Tier pairs a cache with the name it reports in metrics.
type Tier struct {
	Name  string
	Cache Cache
}

// TieredCache reads through an ordered list of tiers. A hit in a later
// tier back-fills every earlier tier; writes go to all tiers. The zero
// tier is expected to be the in-process cache and the last the shared
// one, but the composition is policy-free.
type TieredCache struct {
	name    string
	tiers   []Tier
	metrics *metrics.Metrics
}

// NewTieredCache composes tiers under a cache name used for metrics.
func NewTieredCache(name string, m *metrics.Metrics, tiers ...Tier) *TieredCache {
	return &TieredCache{
		name:    name,
		tiers:   tiers,
		metrics: m,
	}
}

func (c *TieredCache) Get(ctx context.Context, key string) (string, bool) {
	for i, tier := range c.tiers {
		value, ok := tier.Cache.Get(ctx, key)
		if !ok {
			continue
		}
		c.metrics.RecordCacheHit(c.name, tier.Name)
		for j := 0; j < i; j++ {
			c.tiers[j].Cache.Set(ctx, key, value)
		}
		return value, true
	}
	c.metrics.RecordCacheMiss(c.name)
	return "", false
}

func (c *TieredCache) Set(ctx context.Context, key, value string) {
	for _, tier := range c.tiers {
		tier.Cache.Set(ctx, key, value)
	}
}

// Flush drops entries from every tier that supports flushing. Shared
// tiers expire by TTL instead.
func (c *TieredCache) Flush() {
	for _, tier := range c.tiers {
		if flusher, ok := tier.Cache.(Flusher); ok {
			flusher.Flush()
		}
	}
}
