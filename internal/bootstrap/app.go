// Package bootstrap handles application initialization and lifecycle for
// the icon catalog service.
package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/api"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/content"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/metrics"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/resolver"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/watcher"
)

// Start initializes and runs the icon catalog service until SIGINT or
// SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Phase 1: config and logger.
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	serviceMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Phase 2: metadata stores. A down database at boot is survivable:
	// the flat catalog keeps lookups working while the database recovers.
	store, closeStore := SetupStore(cfg, log, serviceMetrics)
	defer closeStore()

	// Phase 3: cache tiers, with Redis when enabled and reachable.
	redisClient := SetupRedis(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	iconCache, contentCache := SetupCaches(cfg, redisClient, serviceMetrics, log)

	// Phase 4: the lookup resolver.
	assetReader := content.NewReader(cfg.Catalog.ContentRoots, log)
	svc := resolver.New(resolver.Options{
		Store:        store,
		Assets:       assetReader,
		IconCache:    iconCache,
		ContentCache: contentCache,
		Logger:       log,
		Metrics:      serviceMetrics,
		DefaultSize:  cfg.Catalog.DefaultIconSize,
	})

	// Phase 5: catalog watcher (optional).
	if cfg.Catalog.WatchCatalog {
		catalogWatcher, watchErr := watcher.New(cfg.Catalog.Paths, svc.FlushCaches, log)
		if watchErr != nil {
			log.Warn("Catalog watching disabled", logger.Error(watchErr))
		} else {
			defer func() { _ = catalogWatcher.Close() }()
			go catalogWatcher.Start(ctx)
		}
	}

	// Phase 6: HTTP server.
	router := api.NewRouter(api.RouterOptions{
		Service:     svc,
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
		Debug:       cfg.Debug,
	})

	if runErr := RunServer(ctx, cfg, router, log); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
