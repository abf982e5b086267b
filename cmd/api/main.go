package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/blackcheck/black-check-api/internal/adapter"
	"github.com/blackcheck/black-check-api/internal/aggregator"
	"github.com/blackcheck/black-check-api/internal/api/rest"
	"github.com/blackcheck/black-check-api/internal/api/server"
	"github.com/blackcheck/black-check-api/internal/circuitbreaker"
	"github.com/blackcheck/black-check-api/internal/config"
	"github.com/blackcheck/black-check-api/internal/logger"
	"github.com/blackcheck/black-check-api/internal/metadata"
	"github.com/blackcheck/black-check-api/internal/providers/alchemy"
	"github.com/blackcheck/black-check-api/internal/providers/opensea"
	"github.com/blackcheck/black-check-api/internal/ratelimit"
	"github.com/blackcheck/black-check-api/internal/store"
	"github.com/blackcheck/black-check-api/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "black-check-api",
		Network:         string(cfg.Network),
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Black Check API", zap.String("network", string(cfg.Network)))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Alchemy.Timeout)

	rateLimitProxy, err := ratelimit.NewProxy(cfg.RateLimit)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer rateLimitProxy.Close()

	// Upstream providers
	alchemyClient := alchemy.NewClient(httpClient, rateLimitProxy, cfg.Alchemy.BaseURL(cfg.Network), cfg.Alchemy.APIKey, cfg.Metadata.FetchTimeout)
	openseaClient := opensea.NewClient(httpClient, rateLimitProxy, cfg.OpenSea.URL, cfg.OpenSea.APIKey, cfg.Metadata.FetchTimeout)
	if cfg.Alchemy.APIKey == "" {
		logger.WarnCtx(ctx, "Alchemy API key not configured, metadata routes will fail")
	}

	// Metadata resolution with cache and circuit breaker
	var cache metadata.Cache
	switch cfg.Metadata.CacheBackend {
	case "redis":
		redisClient := adapter.NewRedisClient(cfg.Metadata.Redis.Addr, cfg.Metadata.Redis.Password, cfg.Metadata.Redis.DB)
		if err := redisClient.Ping(ctx); err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Metadata.Redis.Addr))
		}
		defer redisClient.Close()
		cache = metadata.NewRedisCache(redisClient, "blackcheck:metadata:"+string(cfg.Network))
	default:
		cache = metadata.NewMemoryCache(clock)
	}
	logger.InfoCtx(ctx, "Metadata cache ready", zap.String("backend", cfg.Metadata.CacheBackend))

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Threshold:     cfg.Metadata.BreakerThreshold,
		Cooldown:      cfg.Metadata.BreakerCooldown,
		OnStateChange: metadata.ObserveBreakerState,
	}, clock)

	contracts := cfg.ActiveContracts()
	resolver := metadata.NewResolver(alchemyClient, openseaClient, cfg.Network, contracts, cfg.Metadata.Concurrency)
	cachedResolver := metadata.NewCachedResolver(resolver, cache, breaker, clock, metadata.CacheConfig{
		Concurrency: cfg.Metadata.Concurrency,
		HitTTL:      cfg.Metadata.HitTTL,
		MissTTL:     cfg.Metadata.MissTTL,
	})
	defer cachedResolver.Close()

	agg := aggregator.NewAggregator(dataStore, cachedResolver, clock, contracts.Aggregator, cfg.Feed.PageSize)
	ingestor := webhook.NewIngestor(dataStore)

	if cfg.Webhook.SigningKey == "" {
		logger.WarnCtx(ctx, "Webhook signing key not configured, signatures will not be verified")
	}

	handler := rest.NewHandler(rest.Config{
		AlchemyConfigured: cfg.Alchemy.APIKey != "",
		WebhookSigningKey: cfg.Webhook.SigningKey,
	}, cachedResolver, agg, ingestor, dataStore, clock)

	srv := server.New(server.Config{
		Debug:         cfg.Debug,
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:  time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:   time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigin: cfg.AppBaseURL,
	}, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	logger.Info("API server stopped")
}
