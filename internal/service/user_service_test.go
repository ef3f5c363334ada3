package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/mocks"
	"github.com/stackit/stackit-api/internal/service/auth"
	"github.com/stackit/stackit-api/internal/store"
)

func newUserService(users *mocks.MockUserStore) *UserService {
	// bcrypt.MinCost keeps the hashing in tests cheap.
	return NewUserService(users, &mocks.MockPasswordVerifier{}, bcrypt.MinCost, slog.Default())
}

func TestUserServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and normalizes the email", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		service := NewUserService(users, auth.NewBcryptVerifier(), bcrypt.MinCost, slog.Default())

		user, err := service.Register(ctx, "learner", "  Learner@Example.COM ", "a long enough password")
		require.NoError(t, err)
		assert.Equal(t, "learner@example.com", user.Email)
		assert.Empty(t, user.Password)
		require.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte("a long enough password")))
	})

	t.Run("password too short", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		service := newUserService(users)

		_, err := service.Register(ctx, "learner", "learner@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		service := newUserService(users)

		_, err := service.Register(ctx, "first", "learner@example.com", "a long enough password")
		require.NoError(t, err)

		_, err = service.Register(ctx, "second", "learner@example.com", "a long enough password")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		service := newUserService(users)

		_, err := service.Register(ctx, "learner", "first@example.com", "a long enough password")
		require.NoError(t, err)

		_, err = service.Register(ctx, "learner", "second@example.com", "a long enough password")
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*UserService, *domain.User) {
		users := mocks.NewMockUserStore()
		// The mock verifier matches when hash equals plaintext.
		service := newUserService(users)

		user, err := domain.NewUser("learner", "learner@example.com", "a long enough password")
		require.NoError(t, err)
		user.HashedPassword = "a long enough password"
		user.Password = ""
		users.Add(user)
		return service, user
	}

	t.Run("valid credentials", func(t *testing.T) {
		service, user := seed(t)

		got, err := service.Authenticate(ctx, "Learner@Example.com", "a long enough password")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, _ := seed(t)

		_, err := service.Authenticate(ctx, "learner@example.com", "wrong password here")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		service, _ := seed(t)

		_, err := service.Authenticate(ctx, "nobody@example.com", "a long enough password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserServiceGetProfile(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserStore()
	service := newUserService(users)

	user, err := domain.NewUser("learner", "learner@example.com", "a long enough password")
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	user.Password = ""
	users.Add(user)

	got, err := service.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = service.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
