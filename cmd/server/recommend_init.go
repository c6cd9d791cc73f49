// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/stylematch/internal/cache"
	"github.com/tomtom215/stylematch/internal/config"
	"github.com/tomtom215/stylematch/internal/recommend"
	"github.com/tomtom215/stylematch/internal/recommend/reranking"
	"github.com/tomtom215/stylematch/internal/recommend/storage"
	"github.com/tomtom215/stylematch/internal/recommend/strategies"
)

// RecommendComponents holds all recommendation-related components.
type RecommendComponents struct {
	Service *recommend.Service

	// Descriptors is nil unless visual descriptors are snapshotted.
	Descriptors *storage.CachingDescriptor

	// closers release backend connections on shutdown.
	closers []func() error
}

// Close releases backend connections held by the components.
func (c *RecommendComponents) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// initRecommend builds the recommendation service with its visual
// provider, strategies, selectors and response cache.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	recCfg := buildRecommendConfig(cfg)
	components := &RecommendComponents{}

	visual, descriptors, err := initVisualProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	components.Descriptors = descriptors

	extractor := recommend.NewFeatureExtractor(recCfg.Features, visual, logger)
	svc, err := recommend.NewService(recCfg, extractor, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation service: %w", err)
	}
	components.Service = svc

	registerStrategies(svc, recCfg, logger)

	if cfg.Cache.Enabled {
		c, err := cache.New[[]recommend.ScoredCandidate](ctx, cache.Config{
			Backend:    cache.Backend(cfg.Cache.Backend),
			MaxEntries: cfg.Cache.MaxEntries,
			TTL:        cfg.Cache.TTL,
			Redis: cache.RedisConfig{
				Addr:     cfg.Cache.RedisAddr,
				Password: cfg.Cache.RedisPassword,
				DB:       cfg.Cache.RedisDB,
				Prefix:   cfg.Cache.RedisPrefix,
				TTL:      cfg.Cache.TTL,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create response cache: %w", err)
		}
		if closer, ok := c.(interface{ Close() error }); ok {
			components.closers = append(components.closers, closer.Close)
		}
		svc.SetCache(c)
		logger.Info().
			Str("backend", cfg.Cache.Backend).
			Dur("ttl", cfg.Cache.TTL).
			Msg("response cache enabled")
	} else {
		logger.Info().Msg("response cache disabled (CACHE_ENABLED=false)")
	}

	logger.Info().
		Str("strategy", recCfg.Strategy).
		Str("visual_provider", cfg.Visual.Provider).
		Int("default_k", recCfg.Limits.DefaultK).
		Msg("recommendation service initialized")

	return components, nil
}

// buildRecommendConfig maps the flat app configuration onto the
// recommendation service configuration.
func buildRecommendConfig(cfg *config.Config) *recommend.Config {
	rc := &cfg.Recommend

	out := recommend.DefaultConfig()
	out.Strategy = rc.Strategy
	out.Seed = rc.Seed

	out.Features.VisualWeight = rc.VisualWeight
	out.Features.MetadataWeight = rc.MetadataWeight
	out.Features.Concurrency = rc.FeatureConcurrency
	if cfg.Visual.Provider == "none" {
		out.Features.VisualWeight = 0
	}

	out.Preference.LikeWeight = rc.LikeWeight
	out.Preference.ViewWeight = rc.ViewWeight
	out.Preference.DislikePenalty = rc.DislikePenalty
	out.Preference.MemoEntries = rc.MemoEntries

	out.Scoring = recommend.ScoringConfig{
		ComplementaryBoost: rc.ComplementaryBoost,
		CategoryBoost:      rc.CategoryBoost,
		ColourBoost:        rc.ColourBoost,
		BoostCap:           rc.BoostCap,
		JitterFraction:     rc.JitterFraction,
		QuizFloor:          rc.QuizFloor,
	}

	out.Selection = recommend.SelectionConfig{
		ComplementaryQuota:        rc.ComplementaryQuota,
		SimilarComplementaryQuota: rc.SimilarComplementaryQuota,
		PerCategory:               rc.PerCategory,
		GenderFilter:              rc.GenderFilter,
		MMRLambda:                 rc.MMRLambda,
	}

	out.Limits = recommend.LimitsConfig{
		DefaultK:       rc.DefaultK,
		MaxK:           rc.MaxK,
		LoadTimeout:    rc.LoadTimeout,
		ScoringTimeout: rc.ScoringTimeout,
	}

	out.Cache = recommend.CacheConfig{
		Enabled:    cfg.Cache.Enabled,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	}
	return out
}

// registerStrategies registers scoring strategies, selectors and the
// optional MMR reranker. One random source is shared so a fixed seed makes
// jitter and shuffles reproducible across strategies.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func registerStrategies(svc *recommend.Service, cfg *recommend.Config, logger zerolog.Logger) {
	rng := recommend.NewRand(cfg.Seed)

	var personal recommend.ScoringStrategy
	switch cfg.Strategy {
	case recommend.StrategyRule:
		personal = strategies.NewRuleBased(strategies.DefaultRuleWeights(), cfg.Scoring.JitterFraction, rng)
	default:
		personal = strategies.NewVectorSimilarity(cfg.Scoring)
	}
	svc.RegisterStrategy(recommend.KindPersonal, personal)
	svc.RegisterStrategy(recommend.KindQuiz, strategies.NewQuizKeyword(cfg.Scoring, rng))
	svc.RegisterStrategy(recommend.KindSimilar, strategies.NewItemSimilarity(true))
	logger.Debug().Str("personal", personal.Name()).Msg("registered scoring strategies")

	svc.RegisterSelector(recommend.KindPersonal, reranking.NewComplementaryQuota(cfg.Selection.ComplementaryQuota))
	svc.RegisterSelector(recommend.KindSimilar, reranking.NewComplementaryQuota(cfg.Selection.SimilarComplementaryQuota))
	svc.RegisterSelector(recommend.KindDefaults, reranking.NewCategoryDiversity(cfg.Selection.PerCategory, rng))

	if cfg.Selection.MMRLambda < 1 {
		svc.RegisterReranker(reranking.NewMMR(cfg.Selection.MMRLambda))
		logger.Debug().Float64("lambda", cfg.Selection.MMRLambda).Msg("registered MMR reranker")
	}
}

// initVisualProvider builds the configured descriptor provider. When a
// snapshot directory is set the provider is wrapped so computed
// descriptors survive restarts.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initVisualProvider(cfg *config.Config, logger zerolog.Logger) (recommend.VisualDescriptorProvider, *storage.CachingDescriptor, error) {
	v := &cfg.Visual

	var provider recommend.VisualDescriptorProvider
	switch v.Provider {
	case "none":
		logger.Info().Msg("visual descriptors disabled (VISUAL_PROVIDER=none)")
		return nil, nil, nil
	case "http":
		h, err := recommend.NewHTTPDescriptor(recommend.HTTPDescriptorConfig{
			BaseURL:           v.BaseURL,
			APIKey:            v.APIKey,
			Dimension:         v.Dimension,
			Timeout:           v.Timeout,
			RequestsPerSecond: v.RequestsPerSecond,
			Burst:             v.Burst,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create visual descriptor client: %w", err)
		}
		provider = h
	default:
		provider = recommend.NewHashDescriptor(v.Dimension)
	}

	if v.SnapshotDir == "" {
		return provider, nil, nil
	}

	snapshots, err := storage.NewSnapshotStore(v.SnapshotDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open descriptor snapshots: %w", err)
	}
	caching := storage.NewCachingDescriptor(provider, snapshots, v.SnapshotKeep, logger)
	logger.Info().
		Str("provider", provider.Name()).
		Str("dir", v.SnapshotDir).
		Int("keep", v.SnapshotKeep).
		Msg("visual descriptor snapshots enabled")
	return caching, caching, nil
}
