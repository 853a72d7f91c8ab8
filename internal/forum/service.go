// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package forum

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Service provides post operations over a PostRepository.
type Service struct {
	posts PostRepository
}

// NewService creates a Service.
func NewService(posts PostRepository) (*Service, error) {
	if posts == nil {
		return nil, oops.Code("FORUM_INVALID_DEPS").Errorf("posts repository is required")
	}
	return &Service{posts: posts}, nil
}

// List returns all posts.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts").
			Wrap(err)
	}
	return posts, nil
}

// Get returns a post by ID, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post").
			With("id", id).
			Wrap(err)
	}
	return post, nil
}

// Create inserts a new post with the given title.
func (s *Service) Create(ctx context.Context, title string) (*Post, error) {
	post := &Post{Title: title}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("operation", "create post").
			Wrap(err)
	}
	return post, nil
}

// Update replaces the post's title when one is given. A nil title leaves
// the post unchanged. Returns nil when the post does not exist.
func (s *Service) Update(ctx context.Context, id int64, title *string) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("POST_UPDATE_FAILED").
			With("operation", "get post").
			With("id", id).
			Wrap(err)
	}

	if title == nil {
		return post, nil
	}

	if err := s.posts.UpdateTitle(ctx, id, *title); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted between read and write; report as absent.
			return nil, nil
		}
		return nil, oops.Code("POST_UPDATE_FAILED").
			With("operation", "update title").
			With("id", id).
			Wrap(err)
	}
	post.Title = *title
	return post, nil
}

// Delete removes a post. Returns true when a post was deleted, false when
// none existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("id", id).
			Wrap(err)
	}
	return true, nil
}
