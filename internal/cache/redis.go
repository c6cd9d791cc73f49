// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/stylematch/internal/logging"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int

	// Prefix namespaces every key; Purge only deletes keys under it.
	Prefix string

	TTL time.Duration
}

// redisCommands is the subset of the go-redis client used by Redis.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// Redis is a Cacher storing JSON-encoded values in Redis.
type Redis[V any] struct {
	client redisCommands
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis[V any](ctx context.Context, cfg RedisConfig) (*Redis[V], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisWithClient[V](client, cfg.Prefix, cfg.TTL), nil
}

func newRedisWithClient[V any](client redisCommands, prefix string, ttl time.Duration) *Redis[V] {
	if prefix == "" {
		prefix = "stylematch:rec:"
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis[V]{client: client, prefix: prefix, ttl: ttl}
}

// Get implements Cacher. Decode and transport errors are logged and
// reported as misses.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var value V
	data, err := r.getBytes(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logging.Warn().Err(err).Str("key", key).Msg("Redis cache read failed")
		}
		r.misses.Add(1)
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		r.misses.Add(1)
		return value, false
	}
	r.hits.Add(1)
	return value, true
}

func (r *Redis[V]) getBytes(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set implements Cacher.
func (r *Redis[V]) Set(ctx context.Context, key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Cannot encode cache entry")
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Redis cache write failed")
	}
}

// Purge implements Cacher by deleting every key under the prefix.
func (r *Redis[V]) Purge(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			logging.Warn().Err(err).Msg("Redis cache purge failed")
			return
		}
	}
	if err := iter.Err(); err != nil {
		logging.Warn().Err(err).Msg("Redis cache scan failed")
	}
}

// Stats implements Cacher. Entries is not tracked for Redis.
func (r *Redis[V]) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

// Close releases the Redis connection pool.
func (r *Redis[V]) Close() error {
	return r.client.Close()
}
