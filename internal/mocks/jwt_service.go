package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy/studybuddy-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// Function fields for customizable behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Data for default implementation
	Token         string
	Claims        *auth.Claims
	GenerateError error
	ValidateError error
	Lifetime      time.Duration
}

// Ensure MockJWTService implements auth.JWTService
var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTService creates a new mock with a fixed token and 24h lifetime
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{
		Token:    "test-token",
		Lifetime: 24 * time.Hour,
	}
}

// GenerateToken implements the JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}

	if m.GenerateError != nil {
		return "", m.GenerateError
	}

	// Remember who the token was issued for so ValidateToken round-trips.
	if m.Claims == nil {
		now := time.Now()
		m.Claims = &auth.Claims{
			UserID:    userID,
			Subject:   userID.String(),
			IssuedAt:  now,
			ExpiresAt: now.Add(m.Lifetime),
			ID:        uuid.New().String(),
		}
	}

	return m.Token, nil
}

// ValidateToken implements the JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}

	if m.ValidateError != nil {
		return nil, m.ValidateError
	}

	if tokenString == "" {
		return nil, auth.ErrMissingToken
	}

	if tokenString != m.Token || m.Claims == nil {
		return nil, auth.ErrInvalidToken
	}

	return m.Claims, nil
}

// TokenLifetime implements the JWTService interface
func (m *MockJWTService) TokenLifetime() time.Duration {
	return m.Lifetime
}
