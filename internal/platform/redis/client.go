// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

Tahmin uses it as a short-lived read-through cache in front of the football
data provider so repeated scoreboard requests do not burn the upstream quota.
Redis is optional: when REDIS_URL is empty the server runs without a cache.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pool and timeouts sized for small GET/SET cache traffic.
const (
	cacheDialTimeout = 2 * time.Second
	cacheIOTimeout   = 500 * time.Millisecond
	pingTimeout      = 2 * time.Second

	cachePoolSize = 8
	cacheMinIdle  = 1
)

// NewClient parses redisURL, tunes the pool for cache traffic and verifies
// connectivity with a ping.
func NewClient(ctx stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	tuneForCache(options)

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

// tuneForCache applies the pool and timeout settings unless the URL set them.
func tuneForCache(options *redis.Options) {
	if options.PoolSize == 0 {
		options.PoolSize = cachePoolSize
	}
	if options.MinIdleConns == 0 {
		options.MinIdleConns = cacheMinIdle
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = cacheDialTimeout
	}
	if options.ReadTimeout == 0 {
		options.ReadTimeout = cacheIOTimeout
	}
	if options.WriteTimeout == 0 {
		options.WriteTimeout = cacheIOTimeout
	}
}

// Ping verifies that the Redis server answers within pingTimeout.
func Ping(ctx stdctx.Context, client redis.Cmdable) error {
	pingCtx, cancel := stdctx.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
