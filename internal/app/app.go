// Package app wires the fetch, cache, index and report stages into one run.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/swapi-reader/pkg/cache"
	"github.com/Sternrassler/swapi-reader/pkg/client"
	"github.com/Sternrassler/swapi-reader/pkg/index"
	"github.com/Sternrassler/swapi-reader/pkg/logging"
	"github.com/Sternrassler/swapi-reader/pkg/metrics"
	"github.com/Sternrassler/swapi-reader/pkg/pagination"
	"github.com/Sternrassler/swapi-reader/pkg/report"
	"github.com/Sternrassler/swapi-reader/pkg/swapi"
)

// Run loads all six collections (from snapshots or the API), builds the
// indexes and writes both reports. The first error aborts the run.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{out: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logging.Setup(cfg.Log)
	logger := logging.NewLogger("app")

	logger.Info().
		Str("base_url", cfg.API.BaseURL).
		Str("cache_backend", cfg.Cache.Backend).
		Str("data_dir", cfg.Cache.Dir).
		Bool("refresh", app.refresh).
		Bool("tolerate_missing", cfg.Report.TolerateMissing).
		Msg("Configuration loaded")

	if cfg.Metrics.Textfile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
				logger.Warn().Err(werr).Str("path", cfg.Metrics.Textfile).Msg("Metrics textfile not written")
			}
		}()
	}

	store, closeStore, err := openStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	api, err := client.New(cfg.API)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	manager := cache.NewManager(store, pagination.NewFetcher(api, cfg.Fetch), api)

	if app.refresh {
		if err := purgeAll(ctx, manager, logger); err != nil {
			return err
		}
	}

	ds, err := manager.Load(ctx)
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	policy := report.MissingFail
	if cfg.Report.TolerateMissing {
		policy = report.MissingMark
	}

	gen := report.New(index.BuildAll(ds), policy)
	if err := gen.Write(app.out, ds); err != nil {
		return err
	}

	logger.Debug().Msg("Reports written")
	return nil
}

// openStore returns the configured snapshot store and a function releasing
// its resources.
func openStore(ctx context.Context, cfg CacheConfig) (cache.Store, func(), error) {
	switch cfg.Backend {
	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return cache.NewRedisStore(rdb, cache.DefaultNamespace), func() { _ = rdb.Close() }, nil
	default:
		fs, err := cache.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("init snapshot dir: %w", err)
		}
		return fs, func() {}, nil
	}
}

func purgeAll(ctx context.Context, m *cache.Manager, logger zerolog.Logger) error {
	for _, name := range swapi.All() {
		if err := m.Purge(ctx, name); err != nil {
			return fmt.Errorf("purge %s: %w", name, err)
		}
	}
	logger.Info().Msg("Snapshots purged")
	return nil
}
