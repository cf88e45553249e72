package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ConnectTimeout bounds how long NewPool keeps retrying an unreachable
// database at startup.
const ConnectTimeout = 30 * time.Second

// NewPool connects to Postgres, retrying with exponential backoff until the
// database answers a ping or ConnectTimeout elapses.
func NewPool(ctx context.Context, databaseURL string, logger zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	attempt := 0
	connect := func() (*pgxpool.Pool, error) {
		attempt++
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("create db pool: %w", err))
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			logger.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")
			return nil, fmt.Errorf("ping db: %w", err)
		}
		return pool, nil
	}

	pool, err := backoff.Retry(ctx, connect,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(ConnectTimeout),
	)
	if err != nil {
		return nil, err
	}
	return pool, nil
}
