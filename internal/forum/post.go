// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package forum provides post CRUD. Posts are a thin pass-through to
// storage; the interesting state lives in the account package.
package forum

import (
	"context"
	"time"
)

// Post is a forum post.
type Post struct {
	ID        int64
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostRepository manages post persistence.
type PostRepository interface {
	// Create inserts a new post and fills in the storage-assigned ID and
	// timestamps.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Post, error)

	// List returns all posts ordered by ID.
	List(ctx context.Context) ([]*Post, error)

	// UpdateTitle replaces the post's title. Returns ErrNotFound if absent.
	UpdateTitle(ctx context.Context, id int64, title string) error

	// Delete removes a post. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error
}
