package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// InviteStore defines persistence operations for community invites.
type InviteStore interface {
	// Create saves a new invite. Returns ErrDuplicate if an un-accepted
	// invite for the same (community, email) pair already exists.
	Create(ctx context.Context, invite *domain.Invite) error

	// GetByID retrieves an invite by ID. Returns ErrInviteNotFound if
	// absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error)

	// HasUnaccepted reports whether an un-accepted invite exists for the
	// email on the community.
	HasUnaccepted(ctx context.Context, communityID uuid.UUID, email string) (bool, error)

	// MarkAccepted flips the invite's accepted flag.
	MarkAccepted(ctx context.Context, id uuid.UUID) error

	// Delete removes the invite record. Used when an invite is declined;
	// no terminal record is retained.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByEmail returns the open invites addressed to the email.
	ListByEmail(ctx context.Context, email string) ([]*domain.Invite, error)

	// WithTx returns an InviteStore bound to the given transaction.
	WithTx(tx *sql.Tx) InviteStore
}
