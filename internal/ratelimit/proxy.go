package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/blackcheck/black-check-api/internal/config"
	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/metrics"
)

const (
	ProviderAlchemy = "alchemy"
	ProviderOpenSea = "opensea"
)

// ErrProxyClosed is returned for requests submitted after Close
var ErrProxyClosed = errors.New("proxy is closed")

// RequestFunc is a function that performs the actual API request
type RequestFunc func(ctx context.Context) (interface{}, error)

// Proxy defines the interface for rate-limiting proxy
type Proxy interface {
	// Request waits for a token of the provider's bucket, then runs fn
	Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error)

	// Close rejects further requests
	Close() error
}

// proxy keeps one token bucket per upstream provider in process
type proxy struct {
	limiters map[string]*rate.Limiter
	closed   atomic.Bool
}

// NewProxy creates a new rate-limiting proxy from per-provider limits
func NewProxy(cfg config.RateLimitConfig) (Proxy, error) {
	providers := map[string]config.RateLimit{
		ProviderAlchemy: cfg.Alchemy,
		ProviderOpenSea: cfg.OpenSea,
	}

	limiters := make(map[string]*rate.Limiter, len(providers))
	for name, limit := range providers {
		if limit.RequestsPerSecond <= 0 {
			return nil, fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		burst := limit.Burst
		if burst <= 0 {
			burst = max(int(limit.RequestsPerSecond), 1)
		}
		limiters[name] = rate.NewLimiter(rate.Limit(limit.RequestsPerSecond), burst)
	}

	logger.Info("Rate limit proxy initialized",
		zap.Float64("alchemy_rps", cfg.Alchemy.RequestsPerSecond),
		zap.Float64("opensea_rps", cfg.OpenSea.RequestsPerSecond),
	)

	return &proxy{limiters: limiters}, nil
}

// Request runs fn through the proxy and returns the typed result.
// A nil proxy runs fn directly.
func Request[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, providerName, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

func (p *proxy) Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	limiter, ok := p.limiters[providerName]
	if !ok {
		return nil, fmt.Errorf("provider '%s' not configured", providerName)
	}

	if err := limiter.Wait(ctx); err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeThrottled).Inc()
		return nil, fmt.Errorf("rate limit wait for %s: %w", providerName, err)
	}

	value, err := fn(ctx)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(providerName, metrics.OutcomeSuccess).Inc()
	return value, nil
}

func (p *proxy) Close() error {
	p.closed.Store(true)
	return nil
}
