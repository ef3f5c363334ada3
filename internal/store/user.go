package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// UserStore defines persistence operations for users and their learning
// counters.
type UserStore interface {
	// Create saves a new user. Returns ErrEmailExists or ErrUsernameExists
	// on unique violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// AddLearningStats atomically increments the user's running counters
	// with a single relative UPDATE. It is only called from the transaction
	// that appends the matching journal entry.
	AddLearningStats(ctx context.Context, id uuid.UUID, points, questionsAsked, answersGiven int) error

	// SetMentorFlag sets the cached global mentor flag. Called in the same
	// transaction as every mentor-set mutation so the flag cannot drift.
	SetMentorFlag(ctx context.Context, id uuid.UUID, isMentor bool) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
