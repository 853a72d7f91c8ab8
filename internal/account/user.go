// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package account

import (
	"context"
	"time"
)

// User is an identity record. The ID is assigned by storage on creation
// and immutable afterwards. Username and email are each unique across all
// users; the password is held only as a one-way hash.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create inserts a new user and fills in the storage-assigned ID and
	// timestamps. A username or email uniqueness violation is reported as
	// ErrDuplicateKey; any other failure is fatal.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword replaces the password hash and bumps updated_at.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*User, error)
}
