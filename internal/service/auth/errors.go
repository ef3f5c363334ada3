package auth

import "errors"

// Token validation errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has an invalid
	// signature, or otherwise fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")
)
