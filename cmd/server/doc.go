// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

/*
Package main is the entry point for the Stylematch server.

Stylematch serves personalized fashion recommendations over a static product
catalog. Shoppers record likes, dislikes and views, answer a style quiz, and
receive ranked product lists with a short reason per item.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("stylematch")
	├── CatalogSupervisor ("catalog-layer")
	│   └── Catalog Service (initial load, periodic reloads, descriptor snapshots)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Signal Store: in-memory or BadgerDB
 4. Recommendation Service: visual provider, strategies, selectors, cache
 5. Supervisor Tree: catalog service and HTTP server
 6. Config Watch: hot-reload of the log level

The HTTP server starts before the catalog finishes loading. Until the first
load completes, readiness probes and recommendation endpoints answer 503
with a Retry-After header.

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Catalog
	CATALOG_PATH=/data/styles.csv
	CATALOG_IMAGES_PATH=/data/images.csv
	CATALOG_RELOAD_INTERVAL=0    # 0 disables periodic reloads

	# Recommendation
	RECOMMEND_STRATEGY=vector    # vector or rule
	RECOMMEND_MMR_LAMBDA=1.0     # below 1 enables diversity reranking
	RECOMMEND_SEED=0             # fixed seed for reproducible jitter

	# Visual descriptors
	VISUAL_PROVIDER=hash         # none, hash or http
	VISUAL_SNAPSHOT_DIR=/data/descriptors

	# Storage and cache
	STORE_BACKEND=memory         # memory or badger
	STORE_PATH=/data/signals
	CACHE_BACKEND=memory         # memory or redis
	CACHE_REDIS_ADDR=localhost:6379

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests up to HTTP_SHUTDOWN_TIMEOUT
  - Closes the signal store and cache connections

# Example Usage

	export CATALOG_PATH=./data/styles.csv
	export LOG_FORMAT=console
	./stylematch

Docker:

	docker run -d \
	  -e CATALOG_PATH=/data/styles.csv \
	  -e STORE_BACKEND=badger \
	  -e STORE_PATH=/data/signals \
	  -v ./data:/data \
	  -p 8080:8080 \
	  ghcr.io/tomtom215/stylematch
*/
package main
