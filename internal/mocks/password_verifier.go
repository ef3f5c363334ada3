package mocks

import (
	"errors"

	"github.com/stackit/stackit-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing without
// paying bcrypt cost. It treats the hash as the plaintext it should match.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != password {
		return errors.New("password mismatch")
	}
	return nil
}
