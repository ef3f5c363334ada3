package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// Vote is one row of the answer_votes join relation: a user's current vote
// on an answer. The pair (answer, user) is unique, which is what makes the
// up/down sets disjoint.
type Vote struct {
	AnswerID  uuid.UUID
	UserID    uuid.UUID
	Direction domain.VoteDirection
}

// AnswerStore defines persistence operations for answers and their votes.
type AnswerStore interface {
	// Create saves a new answer.
	Create(ctx context.Context, answer *domain.Answer) error

	// GetByID retrieves an answer by ID with its vote counts. Returns
	// ErrAnswerNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error)

	// GetForUpdate retrieves an answer locking its row for the duration of
	// the enclosing transaction. Vote toggling and the accept/verify flows
	// serialize on this lock.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Answer, error)

	// UpdateFlags persists acceptance and mentor-verification state.
	UpdateFlags(ctx context.Context, answer *domain.Answer) error

	// UpdateAnnotation persists the advisory AI feedback fields.
	UpdateAnnotation(ctx context.Context, id uuid.UUID, annotation domain.AnswerAnnotation) error

	// GetVote returns the user's current vote on the answer, or nil if the
	// user has not voted.
	GetVote(ctx context.Context, answerID, userID uuid.UUID) (*Vote, error)

	// UpsertVote records the user's vote, replacing any previous vote in
	// either direction.
	UpsertVote(ctx context.Context, vote Vote) error

	// DeleteVote removes the user's vote. Deleting a non-existent vote is a
	// no-op.
	DeleteVote(ctx context.Context, answerID, userID uuid.UUID) error

	// CountVotes returns the current upvote and downvote totals.
	CountVotes(ctx context.Context, answerID uuid.UUID) (up, down int, err error)

	// ListByQuestion returns the question's answers, newest first.
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error)

	// WithTx returns an AnswerStore bound to the given transaction.
	WithTx(tx *sql.Tx) AnswerStore
}
