// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package postgres implements the forum repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/threadline/threadline/internal/forum"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. It is
// satisfied by both *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostRepository implements forum.PostRepository using PostgreSQL.
type PostRepository struct {
	pool PgxPool
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool PgxPool) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create inserts a new post. The database assigns the ID and timestamps,
// which are written back into post.
func (r *PostRepository) Create(ctx context.Context, post *forum.Post) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, created_at, updated_at)
		VALUES ($1, now(), now())
		RETURNING id, created_at, updated_at
	`, post.Title).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return oops.Code("POST_CREATE_FAILED").
			With("operation", "insert post").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*forum.Post, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, id)

	var post forum.Post
	err := row.Scan(&post.ID, &post.Title, &post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("id", id).
			Wrap(forum.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post by id").
			With("id", id).
			Wrap(err)
	}
	return &post, nil
}

// List returns all posts ordered by ID.
func (r *PostRepository) List(ctx context.Context) ([]*forum.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, created_at, updated_at
		FROM posts
		ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "query posts").
			Wrap(err)
	}
	defer rows.Close()

	var posts []*forum.Post
	for rows.Next() {
		var post forum.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, oops.Code("POST_LIST_FAILED").
				With("operation", "scan post row").
				Wrap(err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "iterate posts").
			Wrap(err)
	}
	return posts, nil
}

// UpdateTitle replaces the post's title and bumps updated_at.
func (r *PostRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE posts SET title = $2, updated_at = $3
		WHERE id = $1
	`, id, title, time.Now())
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").
			With("operation", "update title").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", id).
			Wrap(forum.ErrNotFound)
	}
	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM posts WHERE id = $1
	`, id)
	if err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").
			With("id", id).
			Wrap(forum.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ forum.PostRepository = (*PostRepository)(nil)
