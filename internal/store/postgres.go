// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package store provides database bootstrap and schema management.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// connectTimeout bounds the whole connect-and-ping sequence, including
// retries while the database comes up.
const connectTimeout = 30 * time.Second

// Connect opens a connection pool and verifies it with a ping. The ping is
// retried with fibonacci backoff so the service tolerates a database that
// is still starting, as happens under container orchestration.
func Connect(ctx context.Context, databaseURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_INVALID_URL").
			With("operation", "parse database url").
			Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	backoff := retry.WithMaxDuration(connectTimeout, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			logger.Warn("database not ready, retrying", "error", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	logger.Info("database connected")
	return pool, nil
}
