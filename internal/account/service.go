// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/threadline/threadline/pkg/errutil"
)

// Service orchestrates registration, login, logout, and session-bound
// identity. Operations that bind a user take the caller's session
// identifier as a SessionIDFunc invoked only on the success path, so no
// identifier is minted for a request that binds nothing; binding a user
// to that session is the only way a session acquires an identity.
type Service struct {
	users    UserRepository
	sessions SessionStore
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a Service using the default logger.
func NewService(users UserRepository, sessions SessionStore, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionStore, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("sessions store is required")
	}
	if hasher == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("ACCOUNT_INVALID_DEPS").Errorf("logger is required")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks: password verification still runs so response time stays
// consistent. This is NOT a real credential and will never match any
// password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a new user and binds it to the caller's session.
// Validation failures and username/email collisions come back as a
// *FieldError; nothing is persisted and sid is never invoked in those
// cases. The error return is reserved for fatal storage failures.
func (s *Service) Register(ctx context.Context, sid SessionIDFunc, username, email, password string) (*User, *FieldError, error) {
	if ferr := ValidateRegistration(username, email, password); ferr != nil {
		return nil, ferr, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	// No pre-check-then-insert: the store's own uniqueness constraint is
	// the arbiter, which avoids a check-then-act race.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, &FieldError{Field: "username", Message: "username already taken"}, nil
		}
		return nil, nil, oops.Code("ACCOUNT_REGISTER_FAILED").
			With("operation", "create user").
			With("username", username).
			Wrap(err)
	}

	sessionID, err := sid()
	if err != nil {
		return nil, nil, oops.Code("SESSION_BIND_FAILED").
			With("operation", "obtain session id for register").
			Wrap(err)
	}
	if err := s.sessions.Bind(ctx, sessionID, user.ID); err != nil {
		return nil, nil, oops.Code("SESSION_BIND_FAILED").
			With("operation", "bind session after register").
			With("user_id", user.ID).
			Wrap(err)
	}

	return user, nil, nil
}

// Login authenticates by username or email and binds the user to the
// caller's session. sid is invoked only once the credentials check out.
// Uses constant-time operations so response time does not reveal whether
// the account exists.
func (s *Service) Login(ctx context.Context, sid SessionIDFunc, usernameOrEmail, password string) (*User, *FieldError, error) {
	var (
		user      *User
		lookupErr error
	)
	if strings.Contains(usernameOrEmail, "@") {
		user, lookupErr = s.users.GetByEmail(ctx, usernameOrEmail)
	} else {
		user, lookupErr = s.users.GetByUsername(ctx, usernameOrEmail)
	}

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, nil, oops.Code("ACCOUNT_LOGIN_FAILED").
				With("operation", "look up user").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always verify, even against the dummy hash, to keep timing flat.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil && userExists {
		return nil, nil, oops.Code("ACCOUNT_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists {
		return nil, &FieldError{Field: "usernameOrEmail", Message: "that user name doesn't exist"}, nil
	}
	if !valid {
		return nil, &FieldError{Field: "password", Message: "incorrect password"}, nil
	}

	// Transparently upgrade legacy hashes. Best effort: login succeeds
	// regardless.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			if updErr := s.users.UpdatePassword(ctx, user.ID, newHash); updErr == nil {
				user.PasswordHash = newHash
			}
		}
	}

	sessionID, err := sid()
	if err != nil {
		return nil, nil, oops.Code("SESSION_BIND_FAILED").
			With("operation", "obtain session id for login").
			Wrap(err)
	}
	if err := s.sessions.Bind(ctx, sessionID, user.ID); err != nil {
		return nil, nil, oops.Code("SESSION_BIND_FAILED").
			With("operation", "bind session after login").
			With("user_id", user.ID).
			Wrap(err)
	}

	return user, nil, nil
}

// Logout destroys the caller's session. Returns true on success. Store
// failures are logged and swallowed: logout is best-effort from the
// client's perspective.
func (s *Service) Logout(ctx context.Context, sid string) bool {
	if sid == "" {
		return true
	}
	if err := s.sessions.Destroy(ctx, sid); err != nil {
		errutil.LogError(s.logger, "failed to destroy session", err)
		return false
	}
	return true
}

// CurrentUser resolves the user bound to the caller's session. Returns
// (nil, nil) for an unbound or expired session, and also when the bound
// user no longer exists.
func (s *Service) CurrentUser(ctx context.Context, sid string) (*User, error) {
	if sid == "" {
		return nil, nil
	}

	userID, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get session").
			Wrap(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get user by id").
			With("user_id", userID).
			Wrap(err)
	}

	return user, nil
}

// ListUsers returns all registered users.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.Code("ACCOUNT_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}
