package registry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mercator-hq/vendorgate/pkg/telemetry/metrics"
)

// CachedClient serves lookups from a cache before calling the registry.
// Only successful lookups are cached.
type CachedClient struct {
	next    Lookuper
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewCachedClient wraps next with cache. collector may be nil.
func NewCachedClient(next Lookuper, cache Cache, ttl time.Duration, collector *metrics.Collector, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: collector,
		logger:  logger.With("component", "registry.cache"),
	}
}

// Lookup implements Lookuper.
func (c *CachedClient) Lookup(ctx context.Context, crNumber string) (*Record, error) {
	rec, err := c.cache.Get(ctx, crNumber)
	if err == nil {
		c.metrics.RecordRegistryLookup("cache_hit")
		return rec, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("registry cache read failed", "error", err)
	}

	rec, err = c.next.Lookup(ctx, crNumber)
	switch {
	case errors.Is(err, ErrNotFound):
		c.metrics.RecordRegistryLookup("not_found")
		return nil, err
	case err != nil:
		c.metrics.RecordRegistryLookup("error")
		return nil, err
	}
	c.metrics.RecordRegistryLookup("fetched")

	if err := c.cache.Set(ctx, crNumber, rec, c.ttl); err != nil {
		c.logger.Warn("registry cache write failed", "error", err)
	}
	return rec, nil
}
