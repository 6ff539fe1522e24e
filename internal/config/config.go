// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Snapshot backend selection for the cart store.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	// ListenAddr is the HTTP bind address of this service.
	ListenAddr string

	// APIBaseURL points at the store backend REST API.
	APIBaseURL string
	APITimeout time.Duration

	// StoreName keys the persisted cart snapshot.
	StoreName string

	// SnapshotBackend is one of memory, postgres or redis.
	SnapshotBackend string
	PostgresURL     string
	RedisAddr       string
	RedisPassword   string

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8090"),
		APIBaseURL:      os.Getenv("API_BASE_URL"),
		APITimeout:      30 * time.Second,
		StoreName:       getenv("STORE_NAME", "convenience-store-cart"),
		SnapshotBackend: getenv("SNAPSHOT_BACKEND", BackendMemory),
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = timeout
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}

	switch cfg.SnapshotBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.PostgresURL == "" {
			return Config{}, fmt.Errorf("POSTGRES_URL is required for the postgres snapshot backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
