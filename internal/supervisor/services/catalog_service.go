// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/catalog"
	"github.com/tomtom215/stylematch/internal/metrics"
)

// CatalogSource reads a catalog from disk. Satisfied by *catalog.Loader.
type CatalogSource interface {
	LoadFile(path, imagesPath string) (*catalog.Catalog, catalog.LoadStats, error)
}

// CatalogConsumer swaps in a freshly read catalog. Satisfied by
// *recommend.Service.
type CatalogConsumer interface {
	Load(ctx context.Context, cat *catalog.Catalog) error
}

// DescriptorSnapshots restores and persists computed visual descriptors.
// Satisfied by *storage.CachingDescriptor.
type DescriptorSnapshots interface {
	Restore(ctx context.Context) error
	Persist(ctx context.Context) error
}

// CatalogServiceConfig holds configuration for the catalog service.
type CatalogServiceConfig struct {
	// Path is the catalog file (.csv or .json).
	Path string

	// ImagesPath is an optional images.csv.
	ImagesPath string

	// ReloadInterval re-reads the catalog periodically; 0 disables.
	ReloadInterval time.Duration
}

// ReloadResult describes one successful catalog load.
type ReloadResult struct {
	Stats    catalog.LoadStats
	Duration time.Duration
}

// CatalogService loads the catalog into the recommendation service under
// suture supervision.
//
// On its first run it restores descriptor snapshots, then performs the
// initial load. A failed initial load is returned to the supervisor, which
// restarts the service with backoff. Once a catalog is in service, failed
// periodic reloads are logged and the previous catalog stays active.
type CatalogService struct {
	source    CatalogSource
	consumer  CatalogConsumer
	snapshots DescriptorSnapshots // nil when snapshots are disabled
	config    CatalogServiceConfig
	logger    zerolog.Logger
	name      string

	restoreOnce sync.Once
	loaded      atomic.Bool
	reloadMu    sync.Mutex
}

// NewCatalogService creates a catalog service. snapshots may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogService(source CatalogSource, consumer CatalogConsumer, snapshots DescriptorSnapshots, cfg CatalogServiceConfig, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		source:    source,
		consumer:  consumer,
		snapshots: snapshots,
		config:    cfg,
		logger:    logger.With().Str("service", "catalog").Logger(),
		name:      "catalog-service",
	}
}

// Serve implements suture.Service.
func (s *CatalogService) Serve(ctx context.Context) error {
	s.restoreOnce.Do(func() { s.restore(ctx) })

	if !s.loaded.Load() {
		if _, err := s.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("initial catalog load: %w", err)
		}
	}

	if s.config.ReloadInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.ReloadInterval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.ReloadInterval).Msg("periodic catalog reload enabled")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("scheduled catalog reload failed, keeping previous catalog")
			}
		}
	}
}

// Reload reads the catalog source and hands it to the consumer. Concurrent
// calls are serialized. Descriptor snapshots are persisted after a
// successful load; a snapshot failure is logged and does not fail the reload.
func (s *CatalogService) Reload(ctx context.Context) (ReloadResult, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	cat, stats, err := s.source.LoadFile(s.config.Path, s.config.ImagesPath)
	if err == nil {
		err = s.consumer.Load(ctx, cat)
	}
	metrics.RecordCatalogLoad(stats.Loaded, stats.Skipped, err)
	if err != nil {
		return ReloadResult{Stats: stats}, fmt.Errorf("load %s: %w", s.config.Path, err)
	}

	s.loaded.Store(true)
	result := ReloadResult{Stats: stats, Duration: time.Since(start)}

	s.logger.Info().
		Str("path", s.config.Path).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Dur("duration", result.Duration).
		Msg("catalog loaded")

	if s.snapshots != nil {
		if err := s.snapshots.Persist(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("descriptor snapshot not saved")
		}
	}
	return result, nil
}

// Loaded reports whether a catalog has been loaded successfully.
func (s *CatalogService) Loaded() bool {
	return s.loaded.Load()
}

func (s *CatalogService) restore(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	err := s.snapshots.Restore(ctx)
	switch {
	case err == nil:
		s.logger.Info().Msg("descriptor snapshot restored")
	case errors.Is(err, context.Canceled):
	default:
		s.logger.Warn().Err(err).Msg("descriptor snapshot not restored, descriptors will be recomputed")
	}
}

// String returns the service name for logging.
func (s *CatalogService) String() string {
	return s.name
}
