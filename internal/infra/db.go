// README: Postgres connection pool initialization using pgxpool, retried at startup.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewDB opens the pool and pings it, retrying with exponential backoff for up to maxElapsed.
func NewDB(ctx context.Context, dsn string, maxElapsed time.Duration, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsed
	policy.MaxInterval = 15 * time.Second

	err = backoff.RetryNotify(
		func() error { return pool.Ping(ctx) },
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("postgres not ready, retrying",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}
