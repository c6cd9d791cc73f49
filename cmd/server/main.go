// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/stylematch/internal/api"
	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/config"
	"github.com/tomtom215/stylematch/internal/logging"
	"github.com/tomtom215/stylematch/internal/recommend/storage"
	"github.com/tomtom215/stylematch/internal/supervisor"
	"github.com/tomtom215/stylematch/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("catalog", cfg.Catalog.Path).
		Str("strategy", cfg.Recommend.Strategy).
		Str("store", cfg.Store.Backend).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Stylematch with supervisor tree")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}

	store, err := storage.Open(storage.Config{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open signal store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing signal store")
		}
	}()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec, err := initRecommend(ctx, cfg, logger)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize recommendation service")
		return
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation backends")
		}
	}()

	// Bridge zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	// A typed nil would defeat the nil check inside the catalog service.
	var snapshots services.DescriptorSnapshots
	if rec.Descriptors != nil {
		snapshots = rec.Descriptors
	}
	catalogSvc := services.NewCatalogService(
		catalog.NewLoader(logger),
		rec.Service,
		snapshots,
		services.CatalogServiceConfig{
			Path:           cfg.Catalog.Path,
			ImagesPath:     cfg.Catalog.ImagesPath,
			ReloadInterval: cfg.Catalog.ReloadInterval,
		},
		logger,
	)

	handler := api.NewHandler(api.HandlerConfig{
		Recommender:    rec.Service,
		Store:          store,
		Reloader:       catalogSvc,
		ScoringTimeout: cfg.Recommend.ScoringTimeout,
		Logger:         logger,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwConfig.TrustedProxies = cfg.Security.TrustedProxies

	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig), logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===
	tree.AddCatalogService(catalogSvc)
	logging.Info().
		Str("path", cfg.Catalog.Path).
		Dur("reload_interval", cfg.Catalog.ReloadInterval).
		Msg("Catalog service added to supervisor tree")

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Only the log level is hot-reloadable; everything else needs a restart.
	if path := config.ConfigFile(); path != "" {
		watchErr := config.WatchConfigFile(path, func() {
			reloaded, err := config.Load()
			if err != nil {
				logging.Warn().Err(err).Msg("Ignoring invalid config file change")
				return
			}
			logging.SetLevelString(reloaded.Logging.Level)
			logging.Info().Str("level", reloaded.Logging.Level).Msg("Log level reloaded")
		})
		if watchErr != nil {
			logging.Warn().Err(watchErr).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers the tree's single exit error.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
