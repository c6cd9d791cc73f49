// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategyVector = "vector"
	StrategyRule   = "rule"
)

// Config contains all configuration for the recommendation service.
type Config struct {
	// Strategy selects the personalized scoring strategy ("vector" or "rule").
	// Default: "vector".
	Strategy string `json:"strategy"`

	// Features contains feature extraction parameters.
	Features FeatureConfig `json:"features"`

	// Preference contains profile building parameters.
	Preference PreferenceConfig `json:"preference"`

	// Scoring contains boost and jitter parameters.
	Scoring ScoringConfig `json:"scoring"`

	// Selection contains final list assembly parameters.
	Selection SelectionConfig `json:"selection"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`

	// Seed seeds the jitter and shuffle source.
	// If zero, the source is seeded from the clock.
	Seed int64 `json:"seed"`
}

// FeatureConfig contains feature extraction parameters.
type FeatureConfig struct {
	// VisualWeight scales the visual block before concatenation.
	// Default: 0.7.
	VisualWeight float64 `json:"visual_weight"`

	// MetadataWeight scales the one-hot block before concatenation.
	// Default: 0.3.
	MetadataWeight float64 `json:"metadata_weight"`

	// Concurrency is the number of workers computing visual descriptors.
	// Default: 8.
	Concurrency int `json:"concurrency"`
}

// PreferenceConfig contains profile building parameters.
type PreferenceConfig struct {
	// LikeWeight is the vector weight of a liked item.
	// Default: 1.0.
	LikeWeight float64 `json:"like_weight"`

	// ViewWeight is the vector weight of a viewed item.
	// Default: 0.3.
	ViewWeight float64 `json:"view_weight"`

	// DislikePenalty scales the mean disliked vector subtracted from the profile.
	// Default: 0.5.
	DislikePenalty float64 `json:"dislike_penalty"`

	// LikeCount, ViewCount and DislikeCount are the counter increments.
	// Defaults: 3, 1, -2.
	LikeCount    float64 `json:"like_count"`
	ViewCount    float64 `json:"view_count"`
	DislikeCount float64 `json:"dislike_count"`

	// MemoEntries bounds the number of memoized profiles.
	// Default: 10000.
	MemoEntries int `json:"memo_entries"`
}

// ScoringConfig contains boost and jitter parameters.
type ScoringConfig struct {
	// ComplementaryBoost multiplies complementary items with a compatible colour.
	// Default: 1.2.
	ComplementaryBoost float64 `json:"complementary_boost"`

	// CategoryBoost multiplies items whose type is a top category.
	// Default: 1.1.
	CategoryBoost float64 `json:"category_boost"`

	// ColourBoost multiplies items whose colour is a top colour.
	// Default: 1.05.
	ColourBoost float64 `json:"colour_boost"`

	// BoostCap bounds the combined multiplier. Zero leaves it uncapped.
	// Default: 0.
	BoostCap float64 `json:"boost_cap"`

	// JitterFraction bounds the rule and quiz jitter as a fraction of the score.
	// Default: 0.05.
	JitterFraction float64 `json:"jitter_fraction"`

	// QuizFloor is the score a quiz candidate must exceed.
	// Default: 1.0.
	QuizFloor float64 `json:"quiz_floor"`
}

// SelectionConfig contains final list assembly parameters.
type SelectionConfig struct {
	// ComplementaryQuota caps complementary items in personalized results.
	// Default: 3.
	ComplementaryQuota int `json:"complementary_quota"`

	// SimilarComplementaryQuota caps complementary items in item-to-item results.
	// Default: 2.
	SimilarComplementaryQuota int `json:"similar_complementary_quota"`

	// PerCategory is the cold-start items taken per article type.
	// Default: 2.
	PerCategory int `json:"per_category"`

	// GenderFilter drops candidates that conflict with the preferred gender.
	// Default: true.
	GenderFilter bool `json:"gender_filter"`

	// MMRLambda enables attribute diversity reranking when below 1.
	// 1.0 = pure relevance, 0.0 = pure diversity.
	// Default: 1.0 (disabled).
	MMRLambda float64 `json:"mmr_lambda"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the default number of recommendations to return.
	// Default: 8.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed K value.
	// Default: 100.
	MaxK int `json:"max_k"`

	// LoadTimeout bounds a full catalog load including feature extraction.
	// Default: 10m.
	LoadTimeout time.Duration `json:"load_timeout"`

	// ScoringTimeout bounds a single scoring pass.
	// Default: 5s.
	ScoringTimeout time.Duration `json:"scoring_timeout"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 30m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Strategy: StrategyVector,
		Features: FeatureConfig{
			VisualWeight:   0.7,
			MetadataWeight: 0.3,
			Concurrency:    8,
		},
		Preference: PreferenceConfig{
			LikeWeight:     1.0,
			ViewWeight:     0.3,
			DislikePenalty: 0.5,
			LikeCount:      3,
			ViewCount:      1,
			DislikeCount:   -2,
			MemoEntries:    10000,
		},
		Scoring: ScoringConfig{
			ComplementaryBoost: 1.2,
			CategoryBoost:      1.1,
			ColourBoost:        1.05,
			BoostCap:           0,
			JitterFraction:     0.05,
			QuizFloor:          1.0,
		},
		Selection: SelectionConfig{
			ComplementaryQuota:        3,
			SimilarComplementaryQuota: 2,
			PerCategory:               2,
			GenderFilter:              true,
			MMRLambda:                 1.0,
		},
		Limits: LimitsConfig{
			DefaultK:       8,
			MaxK:           100,
			LoadTimeout:    10 * time.Minute,
			ScoringTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        30 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Strategy != StrategyVector && c.Strategy != StrategyRule {
		return fmt.Errorf("strategy must be %q or %q, got %q", StrategyVector, StrategyRule, c.Strategy)
	}

	if c.Features.VisualWeight < 0 || c.Features.MetadataWeight < 0 {
		return fmt.Errorf("features weights must be non-negative, got %f/%f",
			c.Features.VisualWeight, c.Features.MetadataWeight)
	}
	if c.Features.VisualWeight+c.Features.MetadataWeight == 0 {
		return fmt.Errorf("features weights must not both be zero")
	}
	if c.Features.Concurrency < 1 {
		return fmt.Errorf("features.concurrency must be positive, got %d", c.Features.Concurrency)
	}

	if c.Preference.LikeWeight <= 0 {
		return fmt.Errorf("preference.like_weight must be positive, got %f", c.Preference.LikeWeight)
	}
	if c.Preference.ViewWeight < 0 {
		return fmt.Errorf("preference.view_weight must be non-negative, got %f", c.Preference.ViewWeight)
	}
	if c.Preference.DislikePenalty < 0 {
		return fmt.Errorf("preference.dislike_penalty must be non-negative, got %f", c.Preference.DislikePenalty)
	}
	if c.Preference.MemoEntries < 1 {
		return fmt.Errorf("preference.memo_entries must be positive, got %d", c.Preference.MemoEntries)
	}

	if c.Scoring.ComplementaryBoost < 1 || c.Scoring.CategoryBoost < 1 || c.Scoring.ColourBoost < 1 {
		return fmt.Errorf("scoring boosts must be >= 1")
	}
	if c.Scoring.BoostCap != 0 && c.Scoring.BoostCap < 1 {
		return fmt.Errorf("scoring.boost_cap must be 0 or >= 1, got %f", c.Scoring.BoostCap)
	}
	if c.Scoring.JitterFraction < 0 || c.Scoring.JitterFraction > 1 {
		return fmt.Errorf("scoring.jitter_fraction must be in [0, 1], got %f", c.Scoring.JitterFraction)
	}

	if c.Selection.ComplementaryQuota < 0 || c.Selection.SimilarComplementaryQuota < 0 {
		return fmt.Errorf("selection quotas must be non-negative")
	}
	if c.Selection.PerCategory < 1 {
		return fmt.Errorf("selection.per_category must be positive, got %d", c.Selection.PerCategory)
	}
	if c.Selection.MMRLambda < 0 || c.Selection.MMRLambda > 1 {
		return fmt.Errorf("selection.mmr_lambda must be in [0, 1], got %f", c.Selection.MMRLambda)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.LoadTimeout <= 0 {
		return fmt.Errorf("limits.load_timeout must be positive, got %v", c.Limits.LoadTimeout)
	}
	if c.Limits.ScoringTimeout <= 0 {
		return fmt.Errorf("limits.scoring_timeout must be positive, got %v", c.Limits.ScoringTimeout)
	}

	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// nested structs contain only value types
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type limits struct {
		DefaultK       int    `json:"default_k"`
		MaxK           int    `json:"max_k"`
		LoadTimeout    string `json:"load_timeout"`
		ScoringTimeout string `json:"scoring_timeout"`
	}
	type cache struct {
		Enabled    bool   `json:"enabled"`
		TTL        string `json:"ttl"`
		MaxEntries int    `json:"max_entries"`
	}
	return json.Marshal(&struct {
		*Alias
		Limits limits `json:"limits"`
		Cache  cache  `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Limits: limits{
			DefaultK:       c.Limits.DefaultK,
			MaxK:           c.Limits.MaxK,
			LoadTimeout:    c.Limits.LoadTimeout.String(),
			ScoringTimeout: c.Limits.ScoringTimeout.String(),
		},
		Cache: cache{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
	})
}
