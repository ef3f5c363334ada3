package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/config"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

func newTestJWTService(t *testing.T, lifetime time.Duration) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:     testSecret,
		TokenLifetime: lifetime,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTService(t *testing.T) {
	t.Run("rejects a short secret", func(t *testing.T) {
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "too short"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("defaults the token lifetime", func(t *testing.T) {
		svc := newTestJWTService(t, 0)
		assert.Equal(t, time.Hour, svc.tokenLifetime)
	})
}

func TestJWTServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestJWTServiceValidateToken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("expired token", func(t *testing.T) {
		svc := newTestJWTService(t, time.Hour)
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		// Jump past the lifetime and the clock skew allowance.
		svc.timeFunc = func() time.Time {
			return time.Now().Add(time.Hour + 3*time.Minute)
		}
		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("clock skew tolerates a slightly stale token", func(t *testing.T) {
		svc := newTestJWTService(t, time.Hour)
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		svc.timeFunc = func() time.Time {
			return time.Now().Add(time.Hour + time.Minute)
		}
		_, err = svc.ValidateToken(ctx, token)
		assert.NoError(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		svc := newTestJWTService(t, time.Hour)
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		other := newTestJWTService(t, time.Hour)
		other.signingKey = []byte("a-different-secret-also-32-characters")
		_, err = other.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		svc := newTestJWTService(t, time.Hour)
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		parts[1] = parts[1][:len(parts[1])-2] + "xx"
		_, err = svc.ValidateToken(ctx, strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		svc := newTestJWTService(t, time.Hour)
		// alg=none header with an arbitrary payload.
		_, err := svc.ValidateToken(ctx, "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0.")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage input", func(t *testing.T) {
		svc := newTestJWTService(t, time.Hour)
		_, err := svc.ValidateToken(ctx, "not a token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
