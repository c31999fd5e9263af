package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn               func(ctx context.Context, user *domain.User) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	GetByEmailOrUsernameFn func(ctx context.Context, identifier string) (*domain.User, error)
	UpdateFn               func(ctx context.Context, user *domain.User) error
	UpdateLastLoginFn      func(ctx context.Context, id uuid.UUID, at time.Time) error

	// Data for default implementation, keyed by normalized email
	Users       map[string]*domain.User
	LastUserID  uuid.UUID
	CreateError error
	GetError    error
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	email := domain.NormalizeEmail(user.Email)
	if _, exists := m.Users[email]; exists {
		return store.ErrEmailExists
	}
	for _, existing := range m.Users {
		if domain.NormalizeEmail(existing.Username) == domain.NormalizeEmail(user.Username) {
			return store.ErrUsernameExists
		}
	}

	// The real store hashes and clears the plaintext; mirror that so
	// handler tests exercise the same user shape.
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}

	m.Users[email] = user
	m.LastUserID = user.ID
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	user, exists := m.Users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByEmailOrUsername implements the UserStore interface
func (m *MockUserStore) GetByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	if m.GetByEmailOrUsernameFn != nil {
		return m.GetByEmailOrUsernameFn(ctx, identifier)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	normalized := domain.NormalizeEmail(identifier)
	if user, exists := m.Users[normalized]; exists {
		return user, nil
	}
	for _, user := range m.Users {
		if domain.NormalizeEmail(user.Username) == normalized {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	for email, existing := range m.Users {
		if existing.ID == user.ID {
			delete(m.Users, email)
			m.Users[domain.NormalizeEmail(user.Email)] = user
			return nil
		}
	}
	return store.ErrUserNotFound
}

// UpdateLastLogin implements the UserStore interface
func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.UpdateLastLoginFn != nil {
		return m.UpdateLastLoginFn(ctx, id, at)
	}

	for _, user := range m.Users {
		if user.ID == id {
			login := at
			user.LastLoginAt = &login
			return nil
		}
	}
	return store.ErrUserNotFound
}
