// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/internal/forum"
	"github.com/threadline/threadline/internal/forum/postgres"
)

func newPostRepo(t *testing.T) (pgxmock.PgxPoolIface, *postgres.PostRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock, postgres.NewPostRepository(mock)
}

func TestPostRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fills in assigned id and timestamps", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO posts`).
			WithArgs("first post").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), now, now))

		post := &forum.Post{Title: "first post"}
		err := repo.Create(ctx, post)
		require.NoError(t, err)
		assert.Equal(t, int64(1), post.ID)
		assert.Equal(t, now, post.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error is fatal", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectQuery(`INSERT INTO posts`).
			WithArgs("first post").
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(ctx, &forum.Post{Title: "first post"})
		require.Error(t, err)
	})
}

func TestPostRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("returns the post", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectQuery(`FROM posts\s+WHERE id`).
			WithArgs(int64(3)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "created_at", "updated_at"}).
				AddRow(int64(3), "hello", now, now))

		post, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Title)
	})

	t.Run("absent post reports not found", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectQuery(`FROM posts\s+WHERE id`).
			WithArgs(int64(3)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "created_at", "updated_at"}))

		_, err := repo.GetByID(ctx, 3)
		assert.ErrorIs(t, err, forum.ErrNotFound)
	})
}

func TestPostRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	mock, repo := newPostRepo(t)

	mock.ExpectQuery(`FROM posts\s+ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "created_at", "updated_at"}).
			AddRow(int64(1), "first", now, now).
			AddRow(int64(2), "second", now, now))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Title)
	assert.Equal(t, "second", posts[1].Title)
}

func TestPostRepository_UpdateTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("updates existing post", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectExec(`UPDATE posts SET title`).
			WithArgs(int64(3), "renamed", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateTitle(ctx, 3, "renamed")
		require.NoError(t, err)
	})

	t.Run("absent post reports not found", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectExec(`UPDATE posts SET title`).
			WithArgs(int64(3), "renamed", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateTitle(ctx, 3, "renamed")
		assert.ErrorIs(t, err, forum.ErrNotFound)
	})
}

func TestPostRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing post", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectExec(`DELETE FROM posts WHERE id`).
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, 3)
		require.NoError(t, err)
	})

	t.Run("absent post reports not found", func(t *testing.T) {
		mock, repo := newPostRepo(t)

		mock.ExpectExec(`DELETE FROM posts WHERE id`).
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, 3)
		assert.ErrorIs(t, err, forum.ErrNotFound)
	})
}
