package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kelly-developers/agriecommerce/internal/cart/storage"
	"github.com/kelly-developers/agriecommerce/internal/config"
	handler "github.com/kelly-developers/agriecommerce/internal/handler/http"
	"github.com/kelly-developers/agriecommerce/internal/payment"
	"github.com/kelly-developers/agriecommerce/internal/session"
	"github.com/kelly-developers/agriecommerce/pkg/health"
	"github.com/kelly-developers/agriecommerce/pkg/httpclient"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	httpServer *http.Server
}

// NewApp creates the application, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Guest cart storage: Redis when configured, file storage otherwise.
	var (
		store storage.Store
		rdb   *redis.Client
	)
	guestTTL := time.Duration(cfg.GuestCartTTL) * time.Hour

	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = storage.NewRedisStore(rdb, guestTTL)
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	} else {
		fileStore, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("init file storage: %w", err)
		}
		store = fileStore
		logger.Info("using file storage for guest carts",
			slog.String("dir", cfg.StorageDir),
		)
	}

	// Marketplace transport: retrying client behind a circuit breaker.
	base := httpclient.New(httpclient.DefaultConfig())
	doer := httpclient.NewCircuitBreakerClient(
		base,
		httpclient.DefaultCircuitBreakerConfig("marketplace"),
		logger,
	)

	payCfg := payment.Config{
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.ConfirmTimeout,
	}

	sessions := session.NewManager(cfg.MarketplaceURL, doer, store, logger, payCfg, cfg.DeliveryFee)

	// Health checks.
	healthHandler := health.NewHandler()
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(sessions, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
		// No WriteTimeout: checkout responses wait for payment
		// confirmation, which can take up to the confirm timeout.
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		httpServer: httpServer,
	}, nil
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

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
