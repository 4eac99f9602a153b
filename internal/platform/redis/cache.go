// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by [Cache.Get] when the key is absent or expired.
var ErrCacheMiss = errors.New("redis: cache miss")

// Cache stores opaque byte payloads under a key prefix with a fixed TTL.
type Cache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCache creates a Cache. client may be a *redis.Client or a test double.
func NewCache(client redis.Cmdable, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached payload for key or [ErrCacheMiss].
func (c *Cache) Get(ctx stdctx.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return payload, nil
}

// Set stores payload under key with the cache TTL.
func (c *Cache) Set(ctx stdctx.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
