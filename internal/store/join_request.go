package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// JoinRequestStore defines persistence operations for community join
// requests.
type JoinRequestStore interface {
	// Create saves a new pending join request. Returns ErrDuplicate if a
	// pending request for the (community, user) pair already exists; a
	// partial unique index backs this up under concurrency.
	Create(ctx context.Context, request *domain.JoinRequest) error

	// GetPendingForUpdate retrieves a pending request by ID scoped to the
	// community, locking the row so the request resolves exactly once.
	// Returns ErrJoinRequestNotFound if no pending request matches.
	GetPendingForUpdate(ctx context.Context, id, communityID uuid.UUID) (*domain.JoinRequest, error)

	// HasPending reports whether the user has an unresolved request for the
	// community.
	HasPending(ctx context.Context, communityID, userID uuid.UUID) (bool, error)

	// Update persists a reviewed request's status, reviewer and timestamp.
	Update(ctx context.Context, request *domain.JoinRequest) error

	// ListPending returns the community's pending requests, newest first.
	ListPending(ctx context.Context, communityID uuid.UUID) ([]*domain.JoinRequest, error)

	// WithTx returns a JoinRequestStore bound to the given transaction.
	WithTx(tx *sql.Tx) JoinRequestStore
}
