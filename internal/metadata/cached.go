package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/circuitbreaker"
	"github.com/blackcheck/black-check-api/internal/domain"
	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/metrics"
)

// CacheConfig bounds the batch pool and sets the cache lifetimes.
// Upstream request timeouts live in the provider clients.
type CacheConfig struct {
	Concurrency int
	HitTTL      time.Duration
	MissTTL     time.Duration
}

// CachedResolver decorates a Resolver with a TTL cache, a not-found circuit breaker,
// in-flight deduplication and a fixed-size worker pool for batches.
type CachedResolver struct {
	inner   Resolver
	cache   Cache
	breaker *circuitbreaker.Breaker
	clock   adapter.Clock
	config  CacheConfig
	pool    pond.Pool
	flight  singleflight.Group
}

var _ Resolver = (*CachedResolver)(nil)

func NewCachedResolver(inner Resolver, cache Cache, breaker *circuitbreaker.Breaker, clock adapter.Clock, cfg CacheConfig) *CachedResolver {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &CachedResolver{
		inner:   inner,
		cache:   cache,
		breaker: breaker,
		clock:   clock,
		config:  cfg,
		pool:    pond.NewPool(cfg.Concurrency),
	}
}

// ObserveBreakerState exports breaker transitions as a gauge and a log line
func ObserveBreakerState(from, to circuitbreaker.State) {
	if to == circuitbreaker.StateOpen {
		metrics.BreakerOpen.Set(1)
	} else {
		metrics.BreakerOpen.Set(0)
	}
	logger.Info("Metadata circuit breaker state changed",
		zap.String("from", from.String()),
		zap.String("to", to.String()))
}

const (
	opResolveOne = "one"
	opLookup     = "lookup"
)

func (c *CachedResolver) ResolveOne(ctx context.Context, tokenID int64) (*CheckMetadata, error) {
	return c.resolve(ctx, opResolveOne, tokenID, c.inner.ResolveOne)
}

func (c *CachedResolver) Lookup(ctx context.Context, tokenID int64) (*CheckMetadata, error) {
	return c.resolve(ctx, opLookup, tokenID, c.inner.Lookup)
}

// ResolveBatch drains the distinct token ids through the worker pool
func (c *CachedResolver) ResolveBatch(ctx context.Context, tokenIDs []int64) map[int64]*CheckMetadata {
	var (
		mu      sync.Mutex
		results = make(map[int64]*CheckMetadata, len(tokenIDs))
	)

	group := c.pool.NewGroupContext(ctx)
	for _, tokenID := range uniqueIDs(tokenIDs) {
		group.Submit(func() {
			m, err := c.Lookup(ctx, tokenID)
			if err != nil {
				return
			}
			mu.Lock()
			results[tokenID] = m
			mu.Unlock()
		})
	}
	if err := group.Wait(); err != nil {
		logger.WarnCtx(ctx, "Metadata batch interrupted", zap.Error(err))
	}

	mu.Lock()
	defer mu.Unlock()
	return results
}

func (c *CachedResolver) ListOwned(ctx context.Context, owner string) ([]CheckMetadata, error) {
	return c.inner.ListOwned(ctx, owner)
}

// Close stops the worker pool
func (c *CachedResolver) Close() {
	c.pool.StopAndWait()
}

type fetchFunc func(ctx context.Context, tokenID int64) (*CheckMetadata, error)

func (c *CachedResolver) resolve(ctx context.Context, op string, tokenID int64, fetch fetchFunc) (*CheckMetadata, error) {
	// a Lookup miss never scanned the aggregator holdings, so ResolveOne ignores it
	if entry, ok := c.cache.Get(ctx, tokenID); ok && (entry.Found() || entry.HoldingsScanned || op == opLookup) {
		if entry.Found() {
			metrics.MetadataLookups.WithLabelValues(metrics.OutcomeHit).Inc()
			return entry.Metadata, nil
		}
		metrics.MetadataLookups.WithLabelValues(metrics.OutcomeNegativeHit).Inc()
		return nil, domain.ErrCheckNotFound
	}

	if err := c.breaker.Allow(); err != nil {
		metrics.MetadataLookups.WithLabelValues(metrics.OutcomeShortCircuit).Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrCheckNotFound, err)
	}
	metrics.MetadataLookups.WithLabelValues(metrics.OutcomeMiss).Inc()

	key := op + ":" + strconv.FormatInt(tokenID, 10)
	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// shared by every caller waiting on the key, so it must outlive the first caller.
		// Each upstream request inside fetch carries its own timeout.
		detached := context.WithoutCancel(ctx)

		start := c.clock.Now()
		m, err := fetch(detached, tokenID)
		metrics.MetadataFetchLatency.Observe(c.clock.Since(start).Seconds())

		switch {
		case err == nil:
			c.cache.Set(detached, tokenID, Entry{Metadata: m}, c.config.HitTTL)
			c.breaker.RecordFound()
			return m, nil
		case errors.Is(err, domain.ErrCheckNotFound) && !errors.Is(err, ErrUpstreamFailed):
			c.breaker.RecordNotFound()
		default:
			c.breaker.RecordInconclusive()
			logger.WarnCtx(ctx, "Metadata fetch failed",
				zap.Int64("tokenID", tokenID),
				zap.Error(err))
		}
		c.cache.Set(detached, tokenID, Entry{HoldingsScanned: op == opResolveOne}, c.config.MissTTL)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*CheckMetadata), nil
}
