package scorecache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// Cache stores compatibility results. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (score.Result, bool)
	Put(ctx context.Context, key string, r score.Result)
	Clear(ctx context.Context) error
}

// Counted decorates a Cache with a hit/miss counter.
type Counted struct {
	inner      Cache
	cacheTotal *prometheus.CounterVec
}

// WithCounter wraps c. cacheTotal is a counter vec with label "result" ("hit"/"miss");
// nil disables counting.
func WithCounter(c Cache, cacheTotal *prometheus.CounterVec) *Counted {
	return &Counted{inner: c, cacheTotal: cacheTotal}
}

// Get delegates and records the outcome.
func (c *Counted) Get(ctx context.Context, key string) (score.Result, bool) {
	r, ok := c.inner.Get(ctx, key)
	if ok {
		c.inc("hit")
	} else {
		c.inc("miss")
	}
	return r, ok
}

// Put delegates.
func (c *Counted) Put(ctx context.Context, key string, r score.Result) {
	c.inner.Put(ctx, key, r)
}

// Clear delegates.
func (c *Counted) Clear(ctx context.Context) error {
	return c.inner.Clear(ctx)
}

func (c *Counted) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
