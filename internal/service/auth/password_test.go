package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifierCompare(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("a long enough password"), bcrypt.MinCost)
	require.NoError(t, err)
	verifier := NewBcryptVerifier()

	assert.NoError(t, verifier.Compare(string(hash), "a long enough password"))
	assert.Error(t, verifier.Compare(string(hash), "the wrong password"))
	assert.Error(t, verifier.Compare("not a bcrypt hash", "a long enough password"))
}
