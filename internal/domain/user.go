package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooShort    = errors.New("username must be at least 3 characters long")
	ErrUsernameTooLong     = errors.New("username must be at most 50 characters long")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Username length bounds.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Password length bounds. The minimum follows the registration contract;
// the maximum is bcrypt's practical input limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Preferences holds per-user display and notification settings.
type Preferences struct {
	Timezone           string `json:"timezone"`
	EmailNotifications bool   `json:"email_notifications"`
	TaskReminders      bool   `json:"task_reminders"`
}

// DefaultPreferences returns the preference set assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Timezone:           "UTC",
		EmailNotifications: true,
		TaskReminders:      true,
	}
}

// User represents a registered user of the application.
// It contains essential identity information and authentication details.
type User struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Password       string      `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string      `json:"-"` // Never expose password hash in JSON
	IsActive       bool        `json:"is_active"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
	Preferences    Preferences `json:"preferences"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewUser creates a new User with the given username, email and password.
// The username and email are trimmed and the email lowercased before any
// checks, so callers never have to pre-sanitize. The user starts active
// with default preferences.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(username, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Username:    strings.TrimSpace(username),
		Email:       NormalizeEmail(email),
		Password:    password, // Plaintext password - must be hashed before storage
		IsActive:    true,
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address. All lookups and uniqueness checks operate on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	switch {
	case u.Username == "":
		return ErrEmptyUsername
	case len(u.Username) < MinUsernameLength:
		return ErrUsernameTooShort
	case len(u.Username) > MaxUsernameLength:
		return ErrUsernameTooLong
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	// During user creation/update we validate the provided plaintext
	// password; existing users loaded from the store carry only the hash.
	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// TODO: Replace this basic email validation with a more robust library.
// Request-level validation additionally runs the validator package's
// "email" tag, so this only guards entities constructed in code.
//
// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Domain must contain an interior dot, e.g. "a.b" at minimum.
	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 {
		return false
	}

	dotIndex := strings.IndexByte(domainPart, '.')
	if dotIndex <= 0 || dotIndex == len(domainPart)-1 {
		return false
	}

	return true
}
