package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifierCompare(t *testing.T) {
	// MinCost keeps the test fast; the verifier doesn't care about cost.
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	verifier := NewBcryptVerifier()

	assert.NoError(t, verifier.Compare(string(hash), "secret1"))
	assert.Error(t, verifier.Compare(string(hash), "wrong-password"))
	assert.Error(t, verifier.Compare("not-a-hash", "secret1"))
}
