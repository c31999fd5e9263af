package mocks

import (
	"github.com/studybuddy/studybuddy-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// Function field for customizable behavior
	CompareFn func(hashedPassword, password string) error

	// Error to return from the default implementation
	CompareError error
}

// Ensure MockPasswordVerifier implements auth.PasswordVerifier
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// NewMockPasswordVerifier creates a mock that accepts every password
func NewMockPasswordVerifier() *MockPasswordVerifier {
	return &MockPasswordVerifier{}
}

// Compare implements the PasswordVerifier interface.
// The default pairs with MockUserStore, which stores "hashed:" + password.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}

	if m.CompareError != nil {
		return m.CompareError
	}

	if hashedPassword != "hashed:"+password {
		return auth.ErrInvalidCredentials
	}
	return nil
}
