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

// Session configuration.
const (
	// SessionIDBytes is the entropy of a session identifier.
	// 32 bytes = 64 hex chars.
	SessionIDBytes = 32

	// SessionTTL is how long a bound session survives without an explicit
	// logout. Effectively "until logout".
	SessionTTL = 10 * 365 * 24 * time.Hour
)

// NewSessionID creates an opaque, unguessable session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, SessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SESSION_ID_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionIDBytes).
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// SessionIDFunc supplies the caller's session identifier on demand. The
// services invoke it only at the moment an operation binds a user to the
// session, so the transport can defer minting an identifier (and setting
// a cookie) until server-side state actually exists for it.
type SessionIDFunc func() (string, error)

// SessionStore binds opaque session identifiers to user identifiers.
// A session starts unbound (absent from the store), becomes bound on
// login/register/reset, and is removed by Destroy or expiry.
type SessionStore interface {
	// Bind associates the session id with a user id, creating the session
	// if it does not exist and refreshing its expiry.
	Bind(ctx context.Context, sid string, userID int64) error

	// Get returns the user id bound to the session. Returns ErrNotFound
	// when the session is absent, unbound, or expired.
	Get(ctx context.Context, sid string) (int64, error)

	// Destroy removes the session. Destroying an absent session is not an
	// error.
	Destroy(ctx context.Context, sid string) error
}
