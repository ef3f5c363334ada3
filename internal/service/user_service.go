package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/service/auth"
	"github.com/stackit/stackit-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when login fails. It deliberately does
// not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService handles registration, authentication and profile reads.
type UserService struct {
	users      store.UserStore
	verifier   auth.PasswordVerifier
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService creates a new UserService. bcryptCost of zero falls back to
// the bcrypt default.
func NewUserService(users store.UserStore, verifier auth.PasswordVerifier, bcryptCost int, logger *slog.Logger) *UserService {
	if verifier == nil {
		verifier = auth.NewBcryptVerifier()
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:      users,
		verifier:   verifier,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_service")),
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(username, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return nil, wrapError("register", "failed to hash password", err)
	}
	user.HashedPassword = string(hashed)
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, store.ErrUsernameExists) {
			return nil, err
		}
		return nil, wrapError("register", "failed to create user", err)
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrapError("authenticate", "failed to retrieve user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile retrieves a user by ID.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapError("get_profile", "failed to retrieve user", err)
	}
	return user, nil
}
