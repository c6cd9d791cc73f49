// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Visual     VisualConfig     `koanf:"visual"`
	Store      StoreConfig      `koanf:"store"`
	Cache      CacheConfig      `koanf:"cache"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CatalogConfig holds catalog source settings.
//
// Environment Variables:
//   - CATALOG_PATH: styles.csv or a JSON array of items (required)
//   - CATALOG_IMAGES_PATH: optional images.csv (filename,link)
//   - CATALOG_RELOAD_INTERVAL: periodic reload, 0 disables (default: 0)
type CatalogConfig struct {
	Path           string        `koanf:"path"`
	ImagesPath     string        `koanf:"images_path"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// RecommendConfig holds recommendation service tuning. Field names follow
// the recommend package configuration.
type RecommendConfig struct {
	// Strategy selects personalized scoring: "vector" or "rule".
	Strategy string `koanf:"strategy"`

	VisualWeight       float64 `koanf:"visual_weight"`
	MetadataWeight     float64 `koanf:"metadata_weight"`
	FeatureConcurrency int     `koanf:"feature_concurrency"`

	LikeWeight     float64 `koanf:"like_weight"`
	ViewWeight     float64 `koanf:"view_weight"`
	DislikePenalty float64 `koanf:"dislike_penalty"`
	MemoEntries    int     `koanf:"memo_entries"`

	ComplementaryBoost float64 `koanf:"complementary_boost"`
	CategoryBoost      float64 `koanf:"category_boost"`
	ColourBoost        float64 `koanf:"colour_boost"`
	BoostCap           float64 `koanf:"boost_cap"` // 0 = uncapped
	JitterFraction     float64 `koanf:"jitter_fraction"`
	QuizFloor          float64 `koanf:"quiz_floor"`

	ComplementaryQuota        int     `koanf:"complementary_quota"`
	SimilarComplementaryQuota int     `koanf:"similar_complementary_quota"`
	PerCategory               int     `koanf:"per_category"`
	GenderFilter              bool    `koanf:"gender_filter"`
	MMRLambda                 float64 `koanf:"mmr_lambda"` // 1.0 disables

	DefaultK       int           `koanf:"default_k"`
	MaxK           int           `koanf:"max_k"`
	LoadTimeout    time.Duration `koanf:"load_timeout"`
	ScoringTimeout time.Duration `koanf:"scoring_timeout"`

	// Seed fixes jitter and shuffles; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`
}

// VisualConfig selects the visual descriptor provider.
//
// Environment Variables:
//   - VISUAL_PROVIDER: none, hash, http (default: hash)
//   - VISUAL_DIMENSION: descriptor length (default: 512)
//   - VISUAL_BASE_URL / VISUAL_API_KEY: remote service for the http provider
//   - VISUAL_SNAPSHOT_DIR: descriptor snapshot directory, empty disables
type VisualConfig struct {
	Provider          string        `koanf:"provider"`
	Dimension         int           `koanf:"dimension"`
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	SnapshotDir       string        `koanf:"snapshot_dir"`
	SnapshotKeep      int           `koanf:"snapshot_keep"`
}

// StoreConfig selects the signal store backend.
type StoreConfig struct {
	// Backend is "memory" (default) or "badger".
	Backend string `koanf:"backend"`

	// Path is the BadgerDB directory (required when backend=badger).
	Path string `koanf:"path"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Backend    string        `koanf:"backend"` // "memory" or "redis"
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`
}

// SupervisorConfig holds supervisor tree restart settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Load reads configuration with LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
