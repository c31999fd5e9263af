package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials is the single generic failure for login
	// attempts. It deliberately never distinguishes an unknown email
	// from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled indicates the referenced account exists but has
	// been deactivated.
	ErrAccountDisabled = errors.New("account is disabled")
)
