// Package main provides an HTTP host that accumulates AG-UI event streams
// into thread state and serves the resulting threads as JSON.
//
// Agent backends (or a proxy in front of them) POST their SSE or JSON-lines
// output to /api/threads/{id}/events; frontends read the accumulated thread
// from /api/threads/{id}. Snapshots are persisted to Redis when configured.
//
// Configuration is via environment variables (a .env file is honored):
//
//	THREADS_PORT             - Server port (default: 8080)
//	THREADS_LOG_LEVEL        - debug, info, warn or error (default: info)
//	THREADS_STRICT           - Reject unrecognized event types (default: false)
//	THREADS_MAX_BODY_BYTES   - Request body limit (default: 4MiB)
//	THREADS_SHUTDOWN_TIMEOUT - Graceful shutdown timeout (default: 30s)
//	THREADS_REDIS_ADDR       - Redis address; snapshots stay in memory when empty
//	THREADS_REDIS_PASSWORD   - Redis password
//	THREADS_REDIS_DB         - Redis database (default: 0)
//	THREADS_REDIS_PREFIX     - Snapshot key prefix (default: uistream:thread:)
//	THREADS_REDIS_RETRIES    - Attempts per Redis operation (default: 5)
//
// Usage:
//
//	THREADS_REDIS_ADDR=localhost:6379 go run ./cmd/threadserver
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spetersoncode/uistream/retry"
	"github.com/spetersoncode/uistream/store"
	"github.com/spetersoncode/uistream/thread"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	ctx := context.Background()

	adapter, closeAdapter, err := createAdapter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAdapter()

	st := store.New(adapter,
		thread.WithLogger(logger),
		thread.WithStrict(cfg.Strict),
	)
	if err := st.Load(ctx); err != nil {
		return fmt.Errorf("load threads: %w", err)
	}

	handler := NewThreadHandler(st, cfg, logger)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler.Routes(),
		ReadTimeout: 0, // event bodies stream for the length of a run
		IdleTimeout: 120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		if err := st.Sync(shutdownCtx); err != nil {
			logger.Error("final sync failed", "error", err)
		}
	}()

	logger.Info("thread server starting",
		"port", cfg.Port,
		"strict", cfg.Strict,
		"redis", cfg.RedisAddr != "",
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	<-done
	logger.Info("server stopped")
	return nil
}

// createAdapter returns the Redis adapter when configured and the in-memory
// adapter otherwise.
func createAdapter(ctx context.Context, cfg *Config) (store.Adapter, func(), error) {
	if cfg.RedisAddr == "" {
		return store.NewMemoryAdapter(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	var adapter store.Adapter = store.NewRedisAdapter(rdb, cfg.RedisPrefix)
	if cfg.RedisRetries > 1 {
		rc := retry.DefaultConfig()
		rc.MaxAttempts = cfg.RedisRetries
		adapter = store.NewRetryAdapter(adapter, rc)
	}
	return adapter, closeFn, nil
}
