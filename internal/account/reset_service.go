// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/threadline/threadline/pkg/errutil"
)

// ResetService handles the password recovery flow: issuing single-use
// reset tokens and redeeming them for a password change.
type ResetService struct {
	users    UserRepository
	tokens   ResetTokenStore
	sessions SessionStore
	hasher   PasswordHasher
	notifier Notifier
	logger   *slog.Logger
}

// NewResetService creates a ResetService using the default logger.
func NewResetService(users UserRepository, tokens ResetTokenStore, sessions SessionStore, hasher PasswordHasher, notifier Notifier) (*ResetService, error) {
	return NewResetServiceWithLogger(users, tokens, sessions, hasher, notifier, slog.Default())
}

// NewResetServiceWithLogger creates a ResetService with an explicit logger.
func NewResetServiceWithLogger(users UserRepository, tokens ResetTokenStore, sessions SessionStore, hasher PasswordHasher, notifier Notifier, logger *slog.Logger) (*ResetService, error) {
	if users == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("users repository is required")
	}
	if tokens == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("reset token store is required")
	}
	if sessions == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("sessions store is required")
	}
	if hasher == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("password hasher is required")
	}
	if notifier == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("notifier is required")
	}
	if logger == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("logger is required")
	}
	return &ResetService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// RequestReset issues a reset token for the account registered under
// email and dispatches the reset link. When no such account exists it
// returns nil without any observable difference, so the response never
// reveals whether an email is registered. Email dispatch failures are
// logged and swallowed; the error return is reserved for store failures.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := NewResetToken()
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "generate reset token").
			Wrap(err)
	}

	if err := s.tokens.Put(ctx, token, user.ID); err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "store reset token").
			Wrap(err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, token); err != nil {
		errutil.LogError(s.logger, "failed to send password reset email", err)
	}

	return nil
}

// CompleteReset redeems a reset token for a password change and binds the
// user to the caller's session. sid is invoked only once the change has
// been persisted. The token is consumed atomically before any mutation,
// so a token authorizes at most one successful change even under
// concurrent redemption.
func (s *ResetService) CompleteReset(ctx context.Context, sid SessionIDFunc, token, newPassword string) (*User, *FieldError, error) {
	if ferr := ValidateNewPassword(newPassword); ferr != nil {
		return nil, ferr, nil
	}

	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &FieldError{Field: "token", Message: "Token expired"}, nil
		}
		return nil, nil, oops.Code("RESET_COMPLETE_FAILED").
			With("operation", "consume reset token").
			Wrap(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Token outlived its user: a data-consistency problem, reported
			// through the same channel as user input errors.
			return nil, &FieldError{Field: "token", Message: "User do not exist"}, nil
		}
		return nil, nil, oops.Code("RESET_COMPLETE_FAILED").
			With("operation", "get user by id").
			With("user_id", userID).
			Wrap(err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, nil, oops.Code("RESET_COMPLETE_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, nil, oops.Code("RESET_COMPLETE_FAILED").
			With("operation", "update password").
			With("user_id", user.ID).
			Wrap(err)
	}
	user.PasswordHash = hash

	sessionID, err := sid()
	if err != nil {
		return nil, nil, oops.Code("SESSION_BIND_FAILED").
			With("operation", "obtain session id for reset").
			Wrap(err)
	}
	if err := s.sessions.Bind(ctx, sessionID, user.ID); err != nil {
		return nil, nil, oops.Code("SESSION_BIND_FAILED").
			With("operation", "bind session after reset").
			With("user_id", user.ID).
			Wrap(err)
	}

	return user, nil, nil
}
