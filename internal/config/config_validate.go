// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateCatalog,
		c.validateRecommend,
		c.validateVisual,
		c.validateStore,
		c.validateCache,
		c.validateSupervisor,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates rate limiting and CORS settings
func (c *Config) validateSecurity() error {
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateCORS()
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed when ENVIRONMENT=production. " +
			"Set specific origins: CORS_ORIGINS=https://shop.example.com,https://admin.example.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// catalogExtensions lists the file types the catalog loader understands.
var catalogExtensions = map[string]bool{
	".csv":  true,
	".json": true,
}

// validateCatalog validates the catalog source
func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if !catalogExtensions[strings.ToLower(filepath.Ext(c.Catalog.Path))] {
		return fmt.Errorf("CATALOG_PATH must be a .csv or .json file, got: %s", c.Catalog.Path)
	}
	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative")
	}
	if c.Catalog.ReloadInterval > 0 && c.Catalog.ReloadInterval < time.Minute {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must be 0 (disabled) or at least 1m")
	}
	return nil
}

// validateRecommend checks the recommendation tunables. The recommend
// package validates the same values again when the service is built; the
// checks here report them under their environment names.
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	switch r.Strategy {
	case "vector", "rule":
	default:
		return fmt.Errorf("RECOMMEND_STRATEGY must be one of: vector, rule")
	}
	if r.VisualWeight < 0 || r.MetadataWeight < 0 || r.VisualWeight+r.MetadataWeight == 0 {
		return fmt.Errorf("RECOMMEND_VISUAL_WEIGHT and RECOMMEND_METADATA_WEIGHT must be non-negative and not both zero")
	}
	if r.FeatureConcurrency < 1 || r.FeatureConcurrency > 256 {
		return fmt.Errorf("RECOMMEND_FEATURE_CONCURRENCY must be between 1 and 256")
	}
	if r.LikeWeight <= 0 || r.ViewWeight < 0 || r.DislikePenalty < 0 {
		return fmt.Errorf("RECOMMEND_LIKE_WEIGHT must be positive; view weight and dislike penalty must be non-negative")
	}
	if r.ComplementaryBoost < 1 || r.CategoryBoost < 1 || r.ColourBoost < 1 {
		return fmt.Errorf("recommendation boosts must be at least 1.0")
	}
	if r.BoostCap != 0 && r.BoostCap < 1 {
		return fmt.Errorf("RECOMMEND_BOOST_CAP must be 0 (uncapped) or at least 1.0")
	}
	if r.JitterFraction < 0 || r.JitterFraction > 1 {
		return fmt.Errorf("RECOMMEND_JITTER_FRACTION must be between 0 and 1")
	}
	if r.QuizFloor < 0 {
		return fmt.Errorf("RECOMMEND_QUIZ_FLOOR must not be negative")
	}
	if r.ComplementaryQuota < 0 || r.SimilarComplementaryQuota < 0 {
		return fmt.Errorf("complementary quotas must not be negative")
	}
	if r.PerCategory < 1 {
		return fmt.Errorf("RECOMMEND_PER_CATEGORY must be at least 1")
	}
	if r.MMRLambda < 0 || r.MMRLambda > 1 {
		return fmt.Errorf("RECOMMEND_MMR_LAMBDA must be between 0 and 1")
	}
	if r.DefaultK < 1 || r.MaxK < r.DefaultK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be at least 1 and not exceed RECOMMEND_MAX_K")
	}
	if r.LoadTimeout <= 0 || r.ScoringTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_LOAD_TIMEOUT and RECOMMEND_SCORING_TIMEOUT must be positive")
	}
	return nil
}

// validVisualProviders defines the allowed visual descriptor providers
var validVisualProviders = map[string]bool{
	"none": true,
	"hash": true,
	"http": true,
}

// validateVisual validates the visual descriptor provider
func (c *Config) validateVisual() error {
	v := &c.Visual
	if !validVisualProviders[v.Provider] {
		return fmt.Errorf("VISUAL_PROVIDER must be one of: none, hash, http")
	}
	if v.Provider == "none" {
		return nil
	}
	if v.Dimension < 1 || v.Dimension > 8192 {
		return fmt.Errorf("VISUAL_DIMENSION must be between 1 and 8192")
	}
	if v.SnapshotDir != "" && v.SnapshotKeep < 1 {
		return fmt.Errorf("VISUAL_SNAPSHOT_KEEP must be at least 1 when VISUAL_SNAPSHOT_DIR is set")
	}
	if v.Provider != "http" {
		return nil
	}
	if v.BaseURL == "" {
		return fmt.Errorf("VISUAL_BASE_URL is required when VISUAL_PROVIDER=http")
	}
	if err := validateHTTPURL(v.BaseURL, "VISUAL_BASE_URL"); err != nil {
		return fmt.Errorf("VISUAL_BASE_URL is invalid: %w", err)
	}
	if v.Timeout <= 0 {
		return fmt.Errorf("VISUAL_TIMEOUT must be positive")
	}
	if v.RequestsPerSecond <= 0 || v.Burst < 1 {
		return fmt.Errorf("VISUAL_REQUESTS_PER_SECOND must be positive and VISUAL_BURST at least 1")
	}
	return nil
}

// validateStore validates the signal store backend
func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
		return nil
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_BACKEND=badger")
		}
		return nil
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: memory, badger")
	}
}

// validateCache validates the response cache
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	switch c.Cache.Backend {
	case "memory":
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("CACHE_REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
		if c.Cache.RedisDB < 0 || c.Cache.RedisDB > 15 {
			return fmt.Errorf("CACHE_REDIS_DB must be between 0 and 15")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}
	return nil
}

// validateSupervisor validates supervisor restart settings
func (c *Config) validateSupervisor() error {
	s := &c.Supervisor
	if s.FailureThreshold <= 0 || s.FailureDecay <= 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_THRESHOLD and SUPERVISOR_FAILURE_DECAY must be positive")
	}
	if s.FailureBackoff <= 0 || s.ShutdownTimeout <= 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_BACKOFF and SUPERVISOR_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
