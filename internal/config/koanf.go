// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/stylematch/config.yaml",
	"/etc/stylematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path:           "",
			ImagesPath:     "",
			ReloadInterval: 0, // periodic reload disabled
		},
		Recommend: RecommendConfig{
			Strategy:           "vector",
			VisualWeight:       0.7,
			MetadataWeight:     0.3,
			FeatureConcurrency: 8,
			LikeWeight:         1.0,
			ViewWeight:         0.3,
			DislikePenalty:     0.5,
			MemoEntries:        10000,

			ComplementaryBoost: 1.2,
			CategoryBoost:      1.1,
			ColourBoost:        1.05,
			BoostCap:           0,
			JitterFraction:     0.05,
			QuizFloor:          1,

			ComplementaryQuota:        3,
			SimilarComplementaryQuota: 2,
			PerCategory:               2,
			GenderFilter:              true,
			MMRLambda:                 1.0,

			DefaultK:       8,
			MaxK:           100,
			LoadTimeout:    10 * time.Minute,
			ScoringTimeout: 5 * time.Second,
			Seed:           0,
		},
		Visual: VisualConfig{
			Provider:          "hash",
			Dimension:         512,
			Timeout:           5 * time.Second,
			RequestsPerSecond: 20,
			Burst:             5,
			SnapshotDir:       "",
			SnapshotKeep:      3,
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "",
		},
		Cache: CacheConfig{
			Enabled:     true,
			Backend:     "memory",
			TTL:         30 * time.Minute,
			MaxEntries:  10000,
			RedisAddr:   "localhost:6379",
			RedisDB:     0,
			RedisPrefix: "stylematch:",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CATALOG_PATH -> catalog.path
	// RECOMMEND_COMPLEMENTARY_BOOST -> recommend.complementary_boost
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ConfigFile returns the config file LoadWithKoanf would read, or "".
func ConfigFile() string {
	return findConfigFile()
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-case environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog mappings
	"catalog_path":            "catalog.path",
	"catalog_images_path":     "catalog.images_path",
	"catalog_reload_interval": "catalog.reload_interval",

	// Recommendation mappings
	"recommend_strategy":                    "recommend.strategy",
	"recommend_visual_weight":               "recommend.visual_weight",
	"recommend_metadata_weight":             "recommend.metadata_weight",
	"recommend_feature_concurrency":         "recommend.feature_concurrency",
	"recommend_like_weight":                 "recommend.like_weight",
	"recommend_view_weight":                 "recommend.view_weight",
	"recommend_dislike_penalty":             "recommend.dislike_penalty",
	"recommend_memo_entries":                "recommend.memo_entries",
	"recommend_complementary_boost":         "recommend.complementary_boost",
	"recommend_category_boost":              "recommend.category_boost",
	"recommend_colour_boost":                "recommend.colour_boost",
	"recommend_boost_cap":                   "recommend.boost_cap",
	"recommend_jitter_fraction":             "recommend.jitter_fraction",
	"recommend_quiz_floor":                  "recommend.quiz_floor",
	"recommend_complementary_quota":         "recommend.complementary_quota",
	"recommend_similar_complementary_quota": "recommend.similar_complementary_quota",
	"recommend_per_category":                "recommend.per_category",
	"recommend_gender_filter":               "recommend.gender_filter",
	"recommend_mmr_lambda":                  "recommend.mmr_lambda",
	"recommend_default_k":                   "recommend.default_k",
	"recommend_max_k":                       "recommend.max_k",
	"recommend_load_timeout":                "recommend.load_timeout",
	"recommend_scoring_timeout":             "recommend.scoring_timeout",
	"recommend_seed":                        "recommend.seed",

	// Visual descriptor mappings
	"visual_provider":            "visual.provider",
	"visual_dimension":           "visual.dimension",
	"visual_base_url":            "visual.base_url",
	"visual_api_key":             "visual.api_key",
	"visual_timeout":             "visual.timeout",
	"visual_requests_per_second": "visual.requests_per_second",
	"visual_burst":               "visual.burst",
	"visual_snapshot_dir":        "visual.snapshot_dir",
	"visual_snapshot_keep":       "visual.snapshot_keep",

	// Signal store mappings
	"store_backend": "store.backend",
	"store_path":    "store.path",

	// Cache mappings
	"cache_enabled":        "cache.enabled",
	"cache_backend":        "cache.backend",
	"cache_ttl":            "cache.ttl",
	"cache_max_entries":    "cache.max_entries",
	"cache_redis_addr":     "cache.redis_addr",
	"cache_redis_password": "cache.redis_password",
	"cache_redis_db":       "cache.redis_db",
	"cache_redis_prefix":   "cache.redis_prefix",

	// Supervisor mappings
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_PATH -> catalog.path
//   - RECOMMEND_STRATEGY -> recommend.strategy
//   - CACHE_REDIS_ADDR -> cache.redis_addr
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Returning "" skips the variable so unrelated environment does not
	// pollute the config.
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The callback runs after every change event; the caller is responsible
// for reloading and synchronizing access to any derived state.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
