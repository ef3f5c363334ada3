package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/platform/logger"
	"github.com/stackit/stackit-api/internal/store"
)

// PostgresJoinRequestStore implements the store.JoinRequestStore interface
// using a PostgreSQL database as the storage backend. A partial unique index
// on (community_id, user_id) WHERE status = 'pending' guarantees at most one
// pending request per pair even under concurrent submission.
type PostgresJoinRequestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJoinRequestStore creates a new PostgreSQL implementation of the
// JoinRequestStore interface.
func NewPostgresJoinRequestStore(db store.DBTX, logger *slog.Logger) *PostgresJoinRequestStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJoinRequestStore{
		db:     db,
		logger: logger.With(slog.String("component", "join_request_store")),
	}
}

// Ensure PostgresJoinRequestStore implements store.JoinRequestStore
var _ store.JoinRequestStore = (*PostgresJoinRequestStore)(nil)

// WithTx returns a JoinRequestStore bound to the given transaction.
func (s *PostgresJoinRequestStore) WithTx(tx *sql.Tx) store.JoinRequestStore {
	return &PostgresJoinRequestStore{db: tx, logger: s.logger}
}

const joinRequestColumns = `id, community_id, user_id, status, message, reviewed_by, reviewed_at, created_at`

// Create implements store.JoinRequestStore.Create.
func (s *PostgresJoinRequestStore) Create(ctx context.Context, request *domain.JoinRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := request.Validate(); err != nil {
		log.Warn("join request validation failed during create",
			slog.String("error", err.Error()),
			slog.String("request_id", request.ID.String()))
		return err
	}

	query := `
		INSERT INTO join_requests (id, community_id, user_id, status, message, reviewed_by, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		request.ID,
		request.CommunityID,
		request.UserID,
		request.Status,
		request.Message,
		request.ReviewedBy,
		request.ReviewedAt,
		request.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: pending join request: %v", store.ErrDuplicate, err)
		}
		log.Error("failed to create join request",
			slog.String("error", err.Error()),
			slog.String("request_id", request.ID.String()))
		return MapError(err)
	}

	log.Info("join request created",
		slog.String("request_id", request.ID.String()),
		slog.String("community_id", request.CommunityID.String()),
		slog.String("user_id", request.UserID.String()))
	return nil
}

// GetPendingForUpdate implements store.JoinRequestStore.GetPendingForUpdate.
// The row lock serializes concurrent reviews so a request resolves exactly
// once; the loser of the race sees no pending row and gets
// ErrJoinRequestNotFound.
func (s *PostgresJoinRequestStore) GetPendingForUpdate(ctx context.Context, id, communityID uuid.UUID) (*domain.JoinRequest, error) {
	query := `
		SELECT ` + joinRequestColumns + `
		FROM join_requests
		WHERE id = $1 AND community_id = $2 AND status = 'pending'
		FOR UPDATE
	`
	return s.scanRequest(s.db.QueryRowContext(ctx, query, id, communityID))
}

// HasPending implements store.JoinRequestStore.HasPending.
func (s *PostgresJoinRequestStore) HasPending(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM join_requests
		WHERE community_id = $1 AND user_id = $2 AND status = 'pending'
	)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, communityID, userID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Update implements store.JoinRequestStore.Update.
func (s *PostgresJoinRequestStore) Update(ctx context.Context, request *domain.JoinRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE join_requests
		SET status = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		request.ID,
		request.Status,
		request.ReviewedBy,
		request.ReviewedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "join request")
}

// ListPending implements store.JoinRequestStore.ListPending.
func (s *PostgresJoinRequestStore) ListPending(ctx context.Context, communityID uuid.UUID) ([]*domain.JoinRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + joinRequestColumns + `
		FROM join_requests
		WHERE community_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, communityID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	requests := []*domain.JoinRequest{}
	for rows.Next() {
		request, err := scanRequestRow(rows)
		if err != nil {
			return nil, MapError(err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return requests, nil
}

func (s *PostgresJoinRequestStore) scanRequest(row *sql.Row) (*domain.JoinRequest, error) {
	var request domain.JoinRequest
	var status string
	err := row.Scan(
		&request.ID,
		&request.CommunityID,
		&request.UserID,
		&status,
		&request.Message,
		&request.ReviewedBy,
		&request.ReviewedAt,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJoinRequestNotFound
		}
		return nil, MapError(err)
	}
	request.Status = domain.JoinRequestStatus(status)
	return &request, nil
}

func scanRequestRow(rows *sql.Rows) (*domain.JoinRequest, error) {
	var request domain.JoinRequest
	var status string
	err := rows.Scan(
		&request.ID,
		&request.CommunityID,
		&request.UserID,
		&status,
		&request.Message,
		&request.ReviewedBy,
		&request.ReviewedAt,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	request.Status = domain.JoinRequestStatus(status)
	return &request, nil
}
