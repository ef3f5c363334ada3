package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// QuestionStore defines persistence operations for questions.
type QuestionStore interface {
	// Create saves a new question.
	Create(ctx context.Context, question *domain.Question) error

	// GetByID retrieves a question by ID. Returns ErrQuestionNotFound if
	// absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// GetForUpdate retrieves a question locking its row for the duration of
	// the enclosing transaction. The accept flow uses it so resolution is
	// decided under the lock.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// UpdateResolution persists the question's resolution state and weak
	// reference to the accepted answer.
	UpdateResolution(ctx context.Context, question *domain.Question) error

	// UpdateAnnotation persists the advisory AI fields. Runs in its own
	// transaction after the creating transaction committed.
	UpdateAnnotation(ctx context.Context, id uuid.UUID, annotation domain.QuestionAnnotation) error

	// IncrementViewCount atomically increments the view counter.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// ListByCommunity returns the community's questions, newest first.
	ListByCommunity(ctx context.Context, communityID uuid.UUID, limit, offset int) ([]*domain.Question, error)

	// WithTx returns a QuestionStore bound to the given transaction.
	WithTx(tx *sql.Tx) QuestionStore
}
