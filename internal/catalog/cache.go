package catalog

import (
	"sync"
	"time"

	"course-catalog-service/internal/metrics"
)

// SnapshotCache holds the most recent catalog snapshot with a TTL. It is an
// explicit, injectable object rather than a process-wide singleton: the
// provider is its single writer, and Invalidate forces the next read through
// to the source.
type SnapshotCache struct {
	mu        sync.RWMutex
	snap      *Snapshot
	expiresAt time.Time
	ttl       time.Duration
}

// NewSnapshotCache creates a cache whose entries expire after ttl.
// A non-positive ttl disables caching entirely (every Get misses).
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl}
}

// Get returns the cached snapshot if present and not expired.
func (c *SnapshotCache) Get() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil || time.Now().After(c.expiresAt) {
		metrics.SnapshotCacheMisses.Inc()
		return nil, false
	}
	metrics.SnapshotCacheHits.Inc()
	return c.snap, true
}

// Set stores a fresh snapshot, resetting the expiry clock.
func (c *SnapshotCache) Set(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.expiresAt = time.Now().Add(c.ttl)
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
