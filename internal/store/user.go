package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studybuddy/studybuddy-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists or ErrUsernameExists if the identifier is
	// already taken (matched case-insensitively after trimming).
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. The email is
	// normalized (trimmed, lowercased) before lookup.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByEmailOrUsername retrieves a user matching the identifier as
	// either email or username, normalized before lookup.
	// Returns ErrUserNotFound if no user matches.
	GetByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error)

	// Update modifies an existing user's details.
	// If a new plaintext Password is provided it is hashed and replaces
	// the stored hash. Returns ErrUserNotFound if the user does not
	// exist, ErrEmailExists when updating to a taken email, and
	// validation errors from the domain User if data is invalid.
	Update(ctx context.Context, user *domain.User) error

	// UpdateLastLogin records a successful login at the given time.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
