package main

import (
	"context"
	"fmt"
	"log/slog"

	"aula/internal/adapters/metrics"
	"aula/internal/adapters/storage"
	"aula/internal/adapters/storage/preference"
	"aula/internal/config"
)

// backend is an opened preference store with its health check and closer.
type backend struct {
	store  preference.Store
	health func(ctx context.Context) error
	close  func() error
}

// openBackend opens the preference store the config names.
func openBackend(ctx context.Context, c *config.Config, timing storage.TimingOptions) (*backend, error) {
	switch c.Storage.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(c.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		timing.SlowQuery = c.Storage.SlowQuery
		timing.Observe = metrics.ObserveQuery
		timed := storage.NewTimedDB(db, timing)
		slog.Info("storage_ready", "backend", "sqlite", "path", c.Storage.SQLitePath)
		return &backend{
			store:  preference.NewSQLiteStore(timed),
			health: timed.PingContext,
			close:  timed.Close,
		}, nil

	case config.BackendRedis:
		client, err := preference.DialRedis(ctx, c.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		slog.Info("storage_ready", "backend", "redis", "ttl", c.Storage.RedisTTL)
		return &backend{
			store:  preference.NewRedisStore(client, c.Storage.RedisTTL),
			health: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close:  client.Close,
		}, nil

	case config.BackendMemory:
		slog.Warn("storage_ready", "backend", "memory", "note", "preferences are lost on restart")
		return &backend{
			store: preference.NewMemoryStore(),
			close: func() error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
}
