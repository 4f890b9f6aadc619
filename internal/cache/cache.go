// Package cache provides the lookaside caches for icon metadata and
// rendered SVG content: a bounded in-process tier in front of an optional
// Redis tier. Caches store opaque strings; callers own serialization.
package cache

import "context"

// Cache is a string-valued lookaside cache. Implementations never fail a
// lookup: an unreachable backend is reported as a miss and the caller
// falls through to the source of truth.
type Cache interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores value under key. TTL and eviction policy belong to the
	// implementation.
	Set(ctx context.Context, key, value string)
}

// Flusher drops every entry. In-process tiers implement it so a catalog
// reload can invalidate stale entries.
type Flusher interface {
	Flush()
}
