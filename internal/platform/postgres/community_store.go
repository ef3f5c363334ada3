package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/platform/logger"
	"github.com/stackit/stackit-api/internal/store"
)

// PostgresCommunityStore implements the store.CommunityStore interface using
// a PostgreSQL database as the storage backend. Membership and mentor sets
// are join relations (community_members, community_mentors) with uniqueness
// on the (community, user) pair; the mentor relation references the
// membership relation so mentors ⊆ members holds at the schema level and
// leaving a community cascades away mentor status.
type PostgresCommunityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommunityStore creates a new PostgreSQL implementation of the
// CommunityStore interface.
func NewPostgresCommunityStore(db store.DBTX, logger *slog.Logger) *PostgresCommunityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommunityStore{
		db:     db,
		logger: logger.With(slog.String("component", "community_store")),
	}
}

// Ensure PostgresCommunityStore implements store.CommunityStore
var _ store.CommunityStore = (*PostgresCommunityStore)(nil)

// WithTx returns a CommunityStore bound to the given transaction.
func (s *PostgresCommunityStore) WithTx(tx *sql.Tx) store.CommunityStore {
	return &PostgresCommunityStore{db: tx, logger: s.logger}
}

const communityColumns = `id, name, description, owner_id, is_private, invite_code,
	total_questions, total_answers, created_at, updated_at`

// Create implements store.CommunityStore.Create.
func (s *PostgresCommunityStore) Create(ctx context.Context, community *domain.Community) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := community.Validate(); err != nil {
		log.Warn("community validation failed during create",
			slog.String("error", err.Error()),
			slog.String("community_id", community.ID.String()))
		return err
	}

	query := `
		INSERT INTO communities (id, name, description, owner_id, is_private, invite_code,
			total_questions, total_answers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		community.ID,
		community.Name,
		community.Description,
		community.OwnerID,
		community.IsPrivate,
		community.InviteCode,
		community.TotalQuestions,
		community.TotalAnswers,
		community.CreatedAt,
		community.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrInviteCodeExists, err)
		}
		log.Error("failed to create community",
			slog.String("error", err.Error()),
			slog.String("community_id", community.ID.String()))
		return MapError(err)
	}

	log.Info("community created",
		slog.String("community_id", community.ID.String()),
		slog.String("owner_id", community.OwnerID.String()))
	return nil
}

// GetByID implements store.CommunityStore.GetByID.
func (s *PostgresCommunityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE id = $1`
	return s.scanCommunity(s.db.QueryRowContext(ctx, query, id))
}

// GetByInviteCode implements store.CommunityStore.GetByInviteCode.
func (s *PostgresCommunityStore) GetByInviteCode(ctx context.Context, code string) (*domain.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE invite_code = $1`
	return s.scanCommunity(s.db.QueryRowContext(ctx, query, code))
}

// AddMember implements store.CommunityStore.AddMember. Re-adding an existing
// member is a no-op so invite acceptance and approval retries stay
// idempotent.
func (s *PostgresCommunityStore) AddMember(ctx context.Context, communityID, userID uuid.UUID) error {
	query := `
		INSERT INTO community_members (community_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, communityID, userID, time.Now().UTC())
	return MapError(err)
}

// RemoveMember implements store.CommunityStore.RemoveMember. The mentor
// relation cascades on delete, so removing a member also clears any mentor
// row for the pair.
func (s *PostgresCommunityStore) RemoveMember(ctx context.Context, communityID, userID uuid.UUID) error {
	query := `DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`
	_, err := s.db.ExecContext(ctx, query, communityID, userID)
	return MapError(err)
}

// IsMember implements store.CommunityStore.IsMember.
func (s *PostgresCommunityStore) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2
	)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, communityID, userID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ListMembers implements store.CommunityStore.ListMembers.
func (s *PostgresCommunityStore) ListMembers(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.hashed_password, u.bio, u.is_mentor,
			u.questions_asked, u.answers_given, u.total_points, u.created_at, u.updated_at
		FROM users u
		JOIN community_members m ON m.user_id = u.id
		WHERE m.community_id = $1
		ORDER BY m.joined_at
	`
	return s.queryUsers(ctx, query, communityID)
}

// AddMentor implements store.CommunityStore.AddMentor.
func (s *PostgresCommunityStore) AddMentor(ctx context.Context, communityID, userID uuid.UUID) error {
	query := `
		INSERT INTO community_mentors (community_id, user_id, granted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, communityID, userID, time.Now().UTC())
	return MapError(err)
}

// RemoveMentor implements store.CommunityStore.RemoveMentor. Removing a
// non-mentor is a no-op, not an error.
func (s *PostgresCommunityStore) RemoveMentor(ctx context.Context, communityID, userID uuid.UUID) error {
	query := `DELETE FROM community_mentors WHERE community_id = $1 AND user_id = $2`
	_, err := s.db.ExecContext(ctx, query, communityID, userID)
	return MapError(err)
}

// IsMentor implements store.CommunityStore.IsMentor.
func (s *PostgresCommunityStore) IsMentor(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM community_mentors WHERE community_id = $1 AND user_id = $2
	)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, communityID, userID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ListMentors implements store.CommunityStore.ListMentors.
func (s *PostgresCommunityStore) ListMentors(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.hashed_password, u.bio, u.is_mentor,
			u.questions_asked, u.answers_given, u.total_points, u.created_at, u.updated_at
		FROM users u
		JOIN community_mentors m ON m.user_id = u.id
		WHERE m.community_id = $1
		ORDER BY m.granted_at
	`
	return s.queryUsers(ctx, query, communityID)
}

// CountMentorships implements store.CommunityStore.CountMentorships.
func (s *PostgresCommunityStore) CountMentorships(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM community_mentors WHERE user_id = $1`
	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// IncrementQuestions implements store.CommunityStore.IncrementQuestions.
func (s *PostgresCommunityStore) IncrementQuestions(ctx context.Context, communityID uuid.UUID) error {
	return s.incrementCounter(ctx, "total_questions", communityID)
}

// IncrementAnswers implements store.CommunityStore.IncrementAnswers.
func (s *PostgresCommunityStore) IncrementAnswers(ctx context.Context, communityID uuid.UUID) error {
	return s.incrementCounter(ctx, "total_answers", communityID)
}

// incrementCounter bumps one of the running counters with a relative UPDATE
// so concurrent creations never lose increments. column is one of the two
// fixed counter names, never caller input.
func (s *PostgresCommunityStore) incrementCounter(ctx context.Context, column string, communityID uuid.UUID) error {
	query := fmt.Sprintf(
		`UPDATE communities SET %s = %s + 1, updated_at = $2 WHERE id = $1`,
		column, column,
	)
	result, err := s.db.ExecContext(ctx, query, communityID, time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "community")
}

func (s *PostgresCommunityStore) scanCommunity(row *sql.Row) (*domain.Community, error) {
	var community domain.Community
	err := row.Scan(
		&community.ID,
		&community.Name,
		&community.Description,
		&community.OwnerID,
		&community.IsPrivate,
		&community.InviteCode,
		&community.TotalQuestions,
		&community.TotalAnswers,
		&community.CreatedAt,
		&community.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommunityNotFound
		}
		return nil, MapError(err)
	}
	return &community, nil
}

func (s *PostgresCommunityStore) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	users := []*domain.User{}
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.HashedPassword,
			&user.Bio,
			&user.IsMentor,
			&user.QuestionsAsked,
			&user.AnswersGiven,
			&user.TotalPoints,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return users, nil
}
