// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package config provides centralized configuration management for Stylematch.

Configuration is layered with Koanf v2:

 1. Defaults: built-in values from defaultConfig()
 2. Config file: optional YAML from CONFIG_PATH, ./config.yaml, or
    /etc/stylematch/config.yaml
 3. Environment variables: an explicit mapping table, unmapped names are ignored

The result is validated before it is returned, and every error names the
environment variable that controls the offending value.

# Configuration Structure

  - ServerConfig: HTTP listen address and timeouts
  - SecurityConfig: rate limiting, CORS origins, trusted proxies
  - LoggingConfig: zerolog level, format and caller
  - CatalogConfig: catalog file, optional images file, periodic reload
  - RecommendConfig: scoring strategy, weights, boosts, quotas, limits
  - VisualConfig: visual descriptor provider and descriptor snapshots
  - StoreConfig: interaction and quiz store backend (memory, badger)
  - CacheConfig: response cache (memory LRU or redis)
  - SupervisorConfig: suture restart policy

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Request timeout (default: 30s)
  - ENVIRONMENT: development or production (default: development)

Security:
  - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
  - RATE_LIMIT_WINDOW: Window length (default: 1m)
  - DISABLE_RATE_LIMIT: Disable rate limiting (default: false)
  - CORS_ORIGINS: Comma-separated origins (default: *)

Catalog:
  - CATALOG_PATH: styles.csv or items JSON (required)
  - CATALOG_IMAGES_PATH: images.csv with filename,link columns
  - CATALOG_RELOAD_INTERVAL: Periodic reload, 0 disables (default: 0)

Recommendation:
  - RECOMMEND_STRATEGY: vector or rule (default: vector)
  - RECOMMEND_COMPLEMENTARY_BOOST, RECOMMEND_CATEGORY_BOOST, RECOMMEND_COLOUR_BOOST
  - RECOMMEND_BOOST_CAP: 0 leaves boosts uncapped (default: 0)
  - RECOMMEND_MMR_LAMBDA: 1.0 disables attribute diversity (default: 1.0)
  - RECOMMEND_SEED: Fixed random seed, 0 seeds from the clock

Visual descriptors:
  - VISUAL_PROVIDER: none, hash or http (default: hash)
  - VISUAL_BASE_URL, VISUAL_API_KEY: Remote descriptor service
  - VISUAL_SNAPSHOT_DIR: Descriptor snapshot directory, empty disables

Storage and cache:
  - STORE_BACKEND: memory or badger (default: memory)
  - STORE_PATH: BadgerDB directory
  - CACHE_BACKEND: memory or redis (default: memory)
  - CACHE_REDIS_ADDR, CACHE_REDIS_PASSWORD, CACHE_REDIS_DB

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	addr := cfg.Server.Addr()

# Thread Safety

Config values are read-only after Load and safe for concurrent reads.
WatchConfigFile callbacks run on the watcher goroutine.
*/
package config
