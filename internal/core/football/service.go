// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package football

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/redis"
)

// Service serves provider data through an optional read-through cache.
type Service struct {
	provider Provider
	cache    Cache
}

// NewService constructs a football [Service]. cache may be nil.
func NewService(provider Provider, cache Cache) *Service {
	return &Service{provider: provider, cache: cache}
}

// LiveScores returns fixtures currently in play.
func (service *Service) LiveScores(ctx context.Context) ([]Fixture, error) {
	return cached(ctx, service.cache, "live", func() ([]Fixture, error) {
		return service.provider.LiveScores(ctx)
	})
}

// Fixtures returns fixtures on date, optionally restricted to league.
func (service *Service) Fixtures(ctx context.Context, date string, league int) ([]Fixture, error) {
	key := fmt.Sprintf("fixtures:%s:%d", date, league)
	return cached(ctx, service.cache, key, func() ([]Fixture, error) {
		return service.provider.Fixtures(ctx, date, league)
	})
}

// Standings returns the table of league in season.
func (service *Service) Standings(ctx context.Context, league, season int) ([]StandingRow, error) {
	key := fmt.Sprintf("standings:%d:%d", league, season)
	return cached(ctx, service.cache, key, func() ([]StandingRow, error) {
		return service.provider.Standings(ctx, league, season)
	})
}

// cached returns the cached value for key or loads and stores it. Cache
// failures are logged and otherwise ignored.
func cached[T any](ctx context.Context, cache Cache, key string, load func() (T, error)) (T, error) {
	logger := ctxutil.GetLogger(ctx)

	if cache != nil {
		payload, err := cache.Get(ctx, key)
		switch {
		case err == nil:
			var value T
			if err := json.Unmarshal(payload, &value); err == nil {
				return value, nil
			}
			logger.WarnContext(ctx, "football_cache_corrupt", slog.String("key", key))
		case !errors.Is(err, redis.ErrCacheMiss):
			logger.WarnContext(ctx, "football_cache_get_failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if cache != nil {
		payload, err := json.Marshal(value)
		if err == nil {
			err = cache.Set(ctx, key, payload)
		}
		if err != nil {
			logger.WarnContext(ctx, "football_cache_set_failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return value, nil
}
