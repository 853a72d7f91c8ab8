// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package postgres implements the account repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/threadline/threadline/internal/account"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. It is
// satisfied by both *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements account.UserRepository using PostgreSQL.
type UserRepository struct {
	pool PgxPool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. The database assigns the ID and timestamps,
// which are written back into user. A unique-constraint violation on
// username or email is reported as account.ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user *account.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, created_at, updated_at
	`, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_DUPLICATE").
				With("username", user.Username).
				Wrap(account.ErrDuplicateKey)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_USERNAME_FAILED").
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// UpdatePassword updates only the password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, id, passwordHash, time.Now())
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(account.ErrNotFound)
	}
	return nil
}

// List returns all users ordered by ID.
func (r *UserRepository) List(ctx context.Context) ([]*account.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "query users").
			Wrap(err)
	}
	defer rows.Close()

	var users []*account.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, oops.Code("USER_LIST_FAILED").
				With("operation", "scan user row").
				Wrap(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "iterate users").
			Wrap(err)
	}
	return users, nil
}

// scanUser scans a single row into a User. Callers are responsible for
// handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*account.User, error) {
	var user account.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}
	return &user, nil
}

// Compile-time interface check.
var _ account.UserRepository = (*UserRepository)(nil)
