// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss indicates the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cacher is a best-effort key/value cache. Backend failures surface as
// misses; callers recompute rather than fail.
type Cacher[V any] interface {
	// Get returns the cached value and true on a hit.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores value under key with the cache's configured TTL.
	Set(ctx context.Context, key string, value V)

	// Purge drops every entry owned by this cache.
	Purge(ctx context.Context)

	// Stats returns usage counters.
	Stats() Stats
}

// Stats holds cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int64 `json:"entries"`
}

// HitRate returns hits as a percentage of lookups, 0 when there were none.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Backend selects a Cacher implementation.
type Backend string

const (
	// BackendMemory keeps entries in a per-process LRU (default).
	BackendMemory Backend = "memory"

	// BackendRedis shares entries between replicas through Redis.
	BackendRedis Backend = "redis"
)

// Config describes the cache to build.
type Config struct {
	Backend    Backend
	MaxEntries int
	TTL        time.Duration
	Redis      RedisConfig
}

// New builds a Cacher for cfg. The Redis backend pings the server and fails
// when it is unreachable.
func New[V any](ctx context.Context, cfg Config) (Cacher[V], error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewLocal[V](cfg.MaxEntries, cfg.TTL), nil
	case BackendRedis:
		if cfg.Redis.TTL <= 0 {
			cfg.Redis.TTL = cfg.TTL
		}
		r, err := NewRedis[V](ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

var (
	_ Cacher[int] = (*Local[int])(nil)
	_ Cacher[int] = (*Redis[int])(nil)
)
