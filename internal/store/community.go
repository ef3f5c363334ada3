package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// CommunityStore defines persistence operations for communities and their
// membership/mentor join relations.
type CommunityStore interface {
	// Create saves a new community. Returns ErrInviteCodeExists if the
	// generated invite code collides.
	Create(ctx context.Context, community *domain.Community) error

	// GetByID retrieves a community by ID. Returns ErrCommunityNotFound if
	// absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Community, error)

	// GetByInviteCode retrieves a community by its shareable invite code.
	GetByInviteCode(ctx context.Context, code string) (*domain.Community, error)

	// AddMember adds the user to the member roster. Adding an existing
	// member is a no-op, so invite acceptance stays idempotent.
	AddMember(ctx context.Context, communityID, userID uuid.UUID) error

	// RemoveMember removes the user from the member roster.
	RemoveMember(ctx context.Context, communityID, userID uuid.UUID) error

	// IsMember reports whether the user is on the member roster.
	IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)

	// ListMembers returns the community's members.
	ListMembers(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error)

	// AddMentor adds the user to the mentor set. The caller must have
	// verified membership; the database also enforces it with a foreign key
	// into the membership relation.
	AddMentor(ctx context.Context, communityID, userID uuid.UUID) error

	// RemoveMentor removes the user from the mentor set. Removing a
	// non-mentor is a no-op.
	RemoveMentor(ctx context.Context, communityID, userID uuid.UUID) error

	// IsMentor reports whether the user is in the community's mentor set.
	IsMentor(ctx context.Context, communityID, userID uuid.UUID) (bool, error)

	// ListMentors returns the community's mentors.
	ListMentors(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error)

	// CountMentorships returns how many communities the user mentors.
	// Used to re-derive the user's global mentor flag after a demotion.
	CountMentorships(ctx context.Context, userID uuid.UUID) (int, error)

	// IncrementQuestions atomically increments the community's question
	// counter.
	IncrementQuestions(ctx context.Context, communityID uuid.UUID) error

	// IncrementAnswers atomically increments the community's answer counter.
	IncrementAnswers(ctx context.Context, communityID uuid.UUID) error

	// WithTx returns a CommunityStore bound to the given transaction.
	WithTx(tx *sql.Tx) CommunityStore
}
