// Package app wires together all dependencies and runs the storefront
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopmesh/storefront/internal/cache"
	"github.com/shopmesh/storefront/internal/cart"
	"github.com/shopmesh/storefront/internal/catalog"
	"github.com/shopmesh/storefront/internal/client"
	"github.com/shopmesh/storefront/internal/config"
	"github.com/shopmesh/storefront/internal/event"
	handler "github.com/shopmesh/storefront/internal/handler/http"
	"github.com/shopmesh/storefront/internal/order"
	"github.com/shopmesh/storefront/internal/query"
	"github.com/shopmesh/storefront/internal/store"
	"github.com/shopmesh/storefront/pkg/health"
	"github.com/shopmesh/storefront/pkg/httpclient"
	pkgkafka "github.com/shopmesh/storefront/pkg/kafka"
)

// App holds the service's long-lived components.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Downstream HTTP clients, each behind its own circuit breaker.
	catalogDoer := newBreakerClient("catalog", cfg, logger)
	cartDoer := newBreakerClient("cart", cfg, logger)
	orderDoer := newBreakerClient("order", cfg, logger)

	catalogClient := client.NewCatalogClient(catalogDoer, cfg.CatalogServiceURL)
	cartClient := client.NewCartClient(cartDoer, cfg.CartServiceURL)
	orderClient := client.NewOrderClient(orderDoer, cfg.OrderServiceURL)

	// Build the dependency graph.
	pageCache := cache.NewCatalogCache(rdb, cfg.CatalogCacheTTL)
	eventProducer := event.NewProducer(producer, logger)
	sessions := store.NewManager(cfg.SessionTTL)
	codec := query.NewCodec(cfg.PageSize)

	orchestrator := catalog.NewOrchestrator(catalogClient, pageCache, eventProducer, logger)
	mutator := cart.NewMutator(cartClient, eventProducer, logger)
	resolver := order.NewResolver(orderClient, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Codec:         codec,
		Sessions:      sessions,
		Orchestrator:  orchestrator,
		Mutator:       mutator,
		Resolver:      resolver,
		HealthHandler: healthHandler,
		Logger:        logger,
		CORSOrigins:   cfg.CORSAllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

func newBreakerClient(name string, cfg *config.Config, logger *slog.Logger) *httpclient.CircuitBreakerClient {
	base := httpclient.New(httpclient.DefaultConfig())

	cbCfg := httpclient.DefaultCircuitBreakerConfig(name)
	cbCfg.MaxRequests = cfg.CBMaxRequests
	cbCfg.Interval = cfg.CBInterval
	cbCfg.Timeout = cfg.CBTimeout

	return httpclient.NewCircuitBreakerClient(base, cbCfg, logger)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
