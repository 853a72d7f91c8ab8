// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/threadline/threadline/internal/account"
)

const resetKeyPrefix = "forget-password:"

// ResetTokenStore implements account.ResetTokenStore using Redis.
type ResetTokenStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewResetTokenStore creates a ResetTokenStore. A non-positive ttl falls
// back to account.ResetTokenTTL.
func NewResetTokenStore(client *goredis.Client, ttl time.Duration) *ResetTokenStore {
	if ttl <= 0 {
		ttl = account.ResetTokenTTL
	}
	return &ResetTokenStore{client: client, ttl: ttl}
}

// Put stores the token mapped to a user id under the store's TTL.
func (s *ResetTokenStore) Put(ctx context.Context, token string, userID int64) error {
	err := s.client.Set(ctx, resetKeyPrefix+token, userID, s.ttl).Err()
	if err != nil {
		return oops.Code("RESET_TOKEN_PUT_FAILED").
			With("operation", "redis set").
			Wrap(err)
	}
	return nil
}

// Consume atomically fetches and deletes the token via GETDEL. Returns
// account.ErrNotFound when the token is absent, expired, or already
// consumed by a concurrent redemption.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (int64, error) {
	val, err := s.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, oops.Code("RESET_TOKEN_NOT_FOUND").Wrap(account.ErrNotFound)
		}
		return 0, oops.Code("RESET_TOKEN_CONSUME_FAILED").
			With("operation", "redis getdel").
			Wrap(err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, oops.Code("RESET_TOKEN_CORRUPT").
			With("operation", "parse token user id").
			With("value", val).
			Wrap(err)
	}
	return userID, nil
}

// Compile-time interface check.
var _ account.ResetTokenStore = (*ResetTokenStore)(nil)
