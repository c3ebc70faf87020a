package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Provider composes a Source with the snapshot cache. Concurrent cache misses
// are serialized so the source sees at most one in-flight fetch; a failed
// fetch propagates ErrUnavailable rather than falling back to stale data.
type Provider struct {
	source Source
	cache  *SnapshotCache
	logger zerolog.Logger

	fetchMu sync.Mutex
}

// NewProvider wires a source to a cache.
func NewProvider(source Source, cache *SnapshotCache, logger zerolog.Logger) *Provider {
	return &Provider{
		source: source,
		cache:  cache,
		logger: logger.With().Str("component", "catalog-provider").Logger(),
	}
}

// Snapshot returns the current catalog snapshot, fetching through the source
// when the cache is empty or expired.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap, ok := p.cache.Get(); ok {
		return snap, nil
	}

	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if snap, ok := p.cache.Get(); ok {
		return snap, nil
	}

	snap, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.cache.Set(snap)
	p.logger.Info().Int("products", snap.Len()).Msg("catalog snapshot refreshed")
	return snap, nil
}

// Invalidate forces the next Snapshot call to re-fetch.
func (p *Provider) Invalidate() {
	p.cache.Invalidate()
}
