package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/platform/logger"
	"github.com/stackit/stackit-api/internal/store"
)

// PostgresInviteStore implements the store.InviteStore interface using a
// PostgreSQL database as the storage backend. A partial unique index on
// (community_id, email) WHERE NOT accepted keeps at most one open invite per
// address.
type PostgresInviteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInviteStore creates a new PostgreSQL implementation of the
// InviteStore interface.
func NewPostgresInviteStore(db store.DBTX, logger *slog.Logger) *PostgresInviteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInviteStore{
		db:     db,
		logger: logger.With(slog.String("component", "invite_store")),
	}
}

// Ensure PostgresInviteStore implements store.InviteStore
var _ store.InviteStore = (*PostgresInviteStore)(nil)

// WithTx returns an InviteStore bound to the given transaction.
func (s *PostgresInviteStore) WithTx(tx *sql.Tx) store.InviteStore {
	return &PostgresInviteStore{db: tx, logger: s.logger}
}

const inviteColumns = `id, community_id, invited_by, email, accepted, created_at`

// Create implements store.InviteStore.Create.
func (s *PostgresInviteStore) Create(ctx context.Context, invite *domain.Invite) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invite.Validate(); err != nil {
		log.Warn("invite validation failed during create",
			slog.String("error", err.Error()),
			slog.String("invite_id", invite.ID.String()))
		return err
	}

	query := `
		INSERT INTO invites (id, community_id, invited_by, email, accepted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		invite.ID,
		invite.CommunityID,
		invite.InvitedBy,
		invite.Email,
		invite.Accepted,
		invite.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: open invite: %v", store.ErrDuplicate, err)
		}
		log.Error("failed to create invite",
			slog.String("error", err.Error()),
			slog.String("invite_id", invite.ID.String()))
		return MapError(err)
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID.String()),
		slog.String("community_id", invite.CommunityID.String()))
	return nil
}

// GetByID implements store.InviteStore.GetByID.
func (s *PostgresInviteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`

	var invite domain.Invite
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&invite.ID,
		&invite.CommunityID,
		&invite.InvitedBy,
		&invite.Email,
		&invite.Accepted,
		&invite.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInviteNotFound
		}
		return nil, MapError(err)
	}
	return &invite, nil
}

// HasUnaccepted implements store.InviteStore.HasUnaccepted.
func (s *PostgresInviteStore) HasUnaccepted(ctx context.Context, communityID uuid.UUID, email string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM invites
		WHERE community_id = $1 AND email = $2 AND NOT accepted
	)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, communityID, strings.ToLower(email)).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// MarkAccepted implements store.InviteStore.MarkAccepted.
func (s *PostgresInviteStore) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE invites SET accepted = TRUE WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "invite")
}

// Delete implements store.InviteStore.Delete.
func (s *PostgresInviteStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invites WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "invite")
}

// ListByEmail implements store.InviteStore.ListByEmail.
func (s *PostgresInviteStore) ListByEmail(ctx context.Context, email string) ([]*domain.Invite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + inviteColumns + `
		FROM invites
		WHERE email = $1 AND NOT accepted
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, strings.ToLower(email))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	invites := []*domain.Invite{}
	for rows.Next() {
		var invite domain.Invite
		err := rows.Scan(
			&invite.ID,
			&invite.CommunityID,
			&invite.InvitedBy,
			&invite.Email,
			&invite.Accepted,
			&invite.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		invites = append(invites, &invite)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return invites, nil
}
