// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package mocks provides testify mocks for the forum package's
// collaborator interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/threadline/threadline/internal/forum"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockPostRepository is a mock of forum.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

// NewMockPostRepository creates a MockPostRepository that asserts its
// expectations at test cleanup.
func NewMockPostRepository(t testingT) *MockPostRepository {
	m := &MockPostRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPostRepository) Create(ctx context.Context, post *forum.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*forum.Post, error) {
	args := m.Called(ctx, id)
	var post *forum.Post
	if args.Get(0) != nil {
		post = args.Get(0).(*forum.Post)
	}
	return post, args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*forum.Post, error) {
	args := m.Called(ctx)
	var posts []*forum.Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]*forum.Post)
	}
	return posts, args.Error(1)
}

func (m *MockPostRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Compile-time interface check.
var _ forum.PostRepository = (*MockPostRepository)(nil)
