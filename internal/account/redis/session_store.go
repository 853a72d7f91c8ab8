// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package redis implements the account session and reset-token stores on
// top of Redis, which owns all session state and token expiry.
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

const sessionKeyPrefix = "sess:"

// SessionStore implements account.SessionStore using Redis.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. A non-positive ttl falls back to
// account.SessionTTL.
func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = account.SessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Bind associates the session id with a user id, creating the session if
// needed and refreshing its expiry.
func (s *SessionStore) Bind(ctx context.Context, sid string, userID int64) error {
	err := s.client.Set(ctx, sessionKeyPrefix+sid, userID, s.ttl).Err()
	if err != nil {
		return oops.Code("SESSION_BIND_FAILED").
			With("operation", "redis set").
			Wrap(err)
	}
	return nil
}

// Get returns the user id bound to the session, or account.ErrNotFound
// when the session is absent or expired.
func (s *SessionStore) Get(ctx context.Context, sid string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+sid).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, oops.Code("SESSION_NOT_FOUND").Wrap(account.ErrNotFound)
		}
		return 0, oops.Code("SESSION_GET_FAILED").
			With("operation", "redis get").
			Wrap(err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, oops.Code("SESSION_CORRUPT").
			With("operation", "parse bound user id").
			With("value", val).
			Wrap(err)
	}
	return userID, nil
}

// Destroy removes the session. Destroying an absent session is a no-op.
func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		return oops.Code("SESSION_DESTROY_FAILED").
			With("operation", "redis del").
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ account.SessionStore = (*SessionStore)(nil)
