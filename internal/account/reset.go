// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Reset token configuration.
const (
	// ResetTokenBytes is the entropy of a reset token. 32 bytes = 64 hex chars.
	ResetTokenBytes = 32

	// ResetTokenTTL is how long a reset token stays redeemable.
	ResetTokenTTL = 3 * 24 * time.Hour
)

// NewResetToken creates a secure random password-reset token. The token
// itself is the lookup key in the ResetTokenStore and is embedded in the
// emailed reset link.
func NewResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("RESET_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", ResetTokenBytes).
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// ResetTokenStore holds single-use password-reset tokens with expiry.
type ResetTokenStore interface {
	// Put stores the token mapped to a user id with the store's fixed TTL.
	Put(ctx context.Context, token string, userID int64) error

	// Consume atomically fetches and deletes the token, returning the user
	// id it was issued for. Returns ErrNotFound when the token is absent,
	// expired, or already consumed. The atomicity is what enforces
	// single-use: concurrent redemptions of one token cannot both succeed.
	Consume(ctx context.Context, token string) (int64, error)
}

// Notifier dispatches account-recovery email. Delivery is fire-and-forget
// from the account core's perspective; implementations live in
// internal/notify.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}
