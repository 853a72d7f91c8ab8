// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

// Package mocks provides testify mocks for the account package's
// collaborator interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/threadline/threadline/internal/account"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUserRepository is a mock of account.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository that asserts its
// expectations at test cleanup.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*account.User, error) {
	args := m.Called(ctx, id)
	var user *account.User
	if args.Get(0) != nil {
		user = args.Get(0).(*account.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*account.User, error) {
	args := m.Called(ctx, username)
	var user *account.User
	if args.Get(0) != nil {
		user = args.Get(0).(*account.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	var user *account.User
	if args.Get(0) != nil {
		user = args.Get(0).(*account.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*account.User, error) {
	args := m.Called(ctx)
	var users []*account.User
	if args.Get(0) != nil {
		users = args.Get(0).([]*account.User)
	}
	return users, args.Error(1)
}

// MockSessionStore is a mock of account.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

// NewMockSessionStore creates a MockSessionStore that asserts its
// expectations at test cleanup.
func NewMockSessionStore(t testingT) *MockSessionStore {
	m := &MockSessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionStore) Bind(ctx context.Context, sid string, userID int64) error {
	args := m.Called(ctx, sid, userID)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, sid string) (int64, error) {
	args := m.Called(ctx, sid)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionStore) Destroy(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

// MockResetTokenStore is a mock of account.ResetTokenStore.
type MockResetTokenStore struct {
	mock.Mock
}

// NewMockResetTokenStore creates a MockResetTokenStore that asserts its
// expectations at test cleanup.
func NewMockResetTokenStore(t testingT) *MockResetTokenStore {
	m := &MockResetTokenStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockResetTokenStore) Put(ctx context.Context, token string, userID int64) error {
	args := m.Called(ctx, token, userID)
	return args.Error(0)
}

func (m *MockResetTokenStore) Consume(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

// MockPasswordHasher is a mock of account.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations at test cleanup.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockPasswordHasher) NeedsUpgrade(hash string) bool {
	args := m.Called(hash)
	return args.Bool(0)
}

// MockNotifier is a mock of account.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier that asserts its expectations at
// test cleanup.
func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

// Compile-time interface checks.
var (
	_ account.UserRepository  = (*MockUserRepository)(nil)
	_ account.SessionStore    = (*MockSessionStore)(nil)
	_ account.ResetTokenStore = (*MockResetTokenStore)(nil)
	_ account.PasswordHasher  = (*MockPasswordHasher)(nil)
	_ account.Notifier        = (*MockNotifier)(nil)
)
