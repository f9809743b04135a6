package cache

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	"github.com/windrosehq/windrose-go/internal/telemetry"
)

const meterScopeName = "github.com/windrosehq/windrose-go/cache"

// storeMetrics holds the wr.cache.* instruments. The instruments are
// no-ops when telemetry is disabled, so recording is unconditional.
type storeMetrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	staleHits     metric.Int64Counter
	joins         metric.Int64Counter
	invalidations metric.Int64Counter
	evictions     metric.Int64Counter
	rollbacks     metric.Int64Counter
}

func newStoreMetrics() *storeMetrics {
	m := telemetry.Meter(meterScopeName)
	hits, _ := m.Int64Counter("wr.cache.hits",
		metric.WithDescription("Reads served from a fresh cache entry"),
	)
	misses, _ := m.Int64Counter("wr.cache.misses",
		metric.WithDescription("Reads that fetched with no prior value"),
	)
	staleHits, _ := m.Int64Counter("wr.cache.stale_hits",
		metric.WithDescription("Reads that refreshed a stale entry"),
	)
	joins, _ := m.Int64Counter("wr.cache.fetch_joins",
		metric.WithDescription("Reads coalesced onto an in-flight fetch"),
	)
	invalidations, _ := m.Int64Counter("wr.cache.invalidations",
		metric.WithDescription("Entries marked stale by prefix invalidation"),
	)
	evictions, _ := m.Int64Counter("wr.cache.evictions",
		metric.WithDescription("Entries dropped past their retention window"),
	)
	rollbacks, _ := m.Int64Counter("wr.cache.rollbacks",
		metric.WithDescription("Entries restored from an optimistic snapshot"),
	)
	return &storeMetrics{
		hits:          hits,
		misses:        misses,
		staleHits:     staleHits,
		joins:         joins,
		invalidations: invalidations,
		evictions:     evictions,
		rollbacks:     rollbacks,
	}
}

func (m *storeMetrics) hit(ctx context.Context)      { m.hits.Add(ctx, 1) }
func (m *storeMetrics) miss(ctx context.Context)     { m.misses.Add(ctx, 1) }
func (m *storeMetrics) staleHit(ctx context.Context) { m.staleHits.Add(ctx, 1) }
func (m *storeMetrics) joined(ctx context.Context)   { m.joins.Add(ctx, 1) }

func (m *storeMetrics) invalidated(n int) {
	if n > 0 {
		m.invalidations.Add(context.Background(), int64(n))
	}
}

func (m *storeMetrics) evicted(n int) {
	if n > 0 {
		m.evictions.Add(context.Background(), int64(n))
	}
}

func (m *storeMetrics) rolledBack(n int) {
	if n > 0 {
		m.rollbacks.Add(context.Background(), int64(n))
	}
}
