// Package cache stores derived read models (statistics, details, plan
// lists) in Redis, with an in-memory fallback for development and tests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/metrics"
)

var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented cache with glob invalidation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// ForgetPattern deletes every key matching a glob such as "providers.*".
	ForgetPattern(ctx context.Context, pattern string) error
}

// Remember returns the cached value under key, or calls load and caches its
// result for ttl. Cache failures never fail the call; the value is loaded
// from source instead.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	raw, err := s.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		}
	case !errors.Is(err, ErrMiss):
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	raw, err = json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("encode cache value %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw, ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return v, nil
}
