// Package main runs the storefront service: a point-of-sale web client for a
// convenience-store backend, with a durable shopping cart.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/web"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := run(logger); err != nil {
		logger.WithError(err).Fatal("storefront exited")
	}
}

func run(logger *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logrus.ParseLevel: %w", err)
	}
	logger.SetLevel(level)
	log := logger.WithField("service", "storefront")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, cleanup, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("newSnapshotStore: %w", err)
	}
	defer cleanup()

	cartStore, err := cart.New(ctx, cfg.StoreName, snapshots, log)
	if err != nil {
		return fmt.Errorf("cart.New: %w", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("api.NewClient: %w", err)
	}

	lister, err := catalog.NewLister(client)
	if err != nil {
		return fmt.Errorf("catalog.NewLister: %w", err)
	}

	orchestrator, err := checkout.New(cartStore, client, client, log)
	if err != nil {
		return fmt.Errorf("checkout.New: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Cart:     cartStore,
		Lister:   lister,
		Checkout: orchestrator,
		Catalog:  client,
		Orders:   client,
		Stats:    client,
		Reports:  client,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("web.NewServer: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.ListenAddr,
			"backend": cfg.SnapshotBackend,
			"store":   cfg.StoreName,
		}).Info("storefront listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpServer.Shutdown: %w", err)
		}
	}

	return nil
}

func newSnapshotStore(ctx context.Context, cfg config.Config) (port.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.SnapshotBackend {
	case config.BackendMemory:
		return repository.NewSnapshotMemory(), noop, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, fmt.Errorf("pgxpool.New: %w", err)
		}
		store, err := repository.NewSnapshotPostgres(pool)
		if err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("repository.NewSnapshotPostgres: %w", err)
		}
		return store, pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("redis.Ping: %w", err)
		}
		store, err := repository.NewSnapshotRedis(client)
		if err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("repository.NewSnapshotRedis: %w", err)
		}
		return store, func() { _ = client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown snapshot backend %q", cfg.SnapshotBackend)
	}
}
