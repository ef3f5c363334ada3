package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/platform/logger"
	"github.com/stackit/stackit-api/internal/store"
)

// PostgresAnswerStore implements the store.AnswerStore interface using a
// PostgreSQL database as the storage backend. Votes live in the answer_votes
// relation with a unique (answer_id, user_id) pair; vote counts are computed
// from that relation rather than kept as columns, so the counts can never
// drift from the vote rows.
type PostgresAnswerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAnswerStore creates a new PostgreSQL implementation of the
// AnswerStore interface.
func NewPostgresAnswerStore(db store.DBTX, logger *slog.Logger) *PostgresAnswerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAnswerStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_store")),
	}
}

// Ensure PostgresAnswerStore implements store.AnswerStore
var _ store.AnswerStore = (*PostgresAnswerStore)(nil)

// WithTx returns an AnswerStore bound to the given transaction.
func (s *PostgresAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return &PostgresAnswerStore{db: tx, logger: s.logger}
}

const answerSelect = `
	SELECT a.id, a.question_id, a.author_id, a.content, a.confidence_level,
		a.is_accepted, a.mentor_verified, a.verified_by,
		(SELECT COUNT(*) FROM answer_votes v WHERE v.answer_id = a.id AND v.direction = 'up'),
		(SELECT COUNT(*) FROM answer_votes v WHERE v.answer_id = a.id AND v.direction = 'down'),
		a.annotation, a.created_at, a.updated_at
	FROM answers a`

// Create implements store.AnswerStore.Create.
func (s *PostgresAnswerStore) Create(ctx context.Context, answer *domain.Answer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := answer.Validate(); err != nil {
		log.Warn("answer validation failed during create",
			slog.String("error", err.Error()),
			slog.String("answer_id", answer.ID.String()))
		return err
	}

	annotationJSON, err := json.Marshal(answer.Annotation)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation: %w", err)
	}

	query := `
		INSERT INTO answers (id, question_id, author_id, content, confidence_level,
			is_accepted, mentor_verified, verified_by, annotation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		answer.ID,
		answer.QuestionID,
		answer.AuthorID,
		answer.Content,
		answer.ConfidenceLevel,
		answer.IsAccepted,
		answer.MentorVerified,
		answer.VerifiedBy,
		annotationJSON,
		answer.CreatedAt,
		answer.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create answer",
			slog.String("error", err.Error()),
			slog.String("answer_id", answer.ID.String()))
		return MapError(err)
	}

	log.Debug("answer created",
		slog.String("answer_id", answer.ID.String()),
		slog.String("question_id", answer.QuestionID.String()))
	return nil
}

// GetByID implements store.AnswerStore.GetByID.
func (s *PostgresAnswerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	query := answerSelect + ` WHERE a.id = $1`
	return s.scanAnswer(s.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate implements store.AnswerStore.GetForUpdate. Only the answers
// row is locked; the vote-count subqueries must not take FOR UPDATE locks.
func (s *PostgresAnswerStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	query := answerSelect + ` WHERE a.id = $1 FOR UPDATE OF a`
	return s.scanAnswer(s.db.QueryRowContext(ctx, query, id))
}

// UpdateFlags implements store.AnswerStore.UpdateFlags.
func (s *PostgresAnswerStore) UpdateFlags(ctx context.Context, answer *domain.Answer) error {
	query := `
		UPDATE answers
		SET is_accepted = $2, mentor_verified = $3, verified_by = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		answer.ID,
		answer.IsAccepted,
		answer.MentorVerified,
		answer.VerifiedBy,
		answer.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "answer")
}

// UpdateAnnotation implements store.AnswerStore.UpdateAnnotation.
func (s *PostgresAnswerStore) UpdateAnnotation(ctx context.Context, id uuid.UUID, annotation domain.AnswerAnnotation) error {
	annotationJSON, err := json.Marshal(annotation)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation: %w", err)
	}

	query := `UPDATE answers SET annotation = $2, updated_at = $3 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, annotationJSON, time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "answer")
}

// GetVote implements store.AnswerStore.GetVote.
func (s *PostgresAnswerStore) GetVote(ctx context.Context, answerID, userID uuid.UUID) (*store.Vote, error) {
	query := `SELECT answer_id, user_id, direction FROM answer_votes WHERE answer_id = $1 AND user_id = $2`

	var vote store.Vote
	var direction string
	err := s.db.QueryRowContext(ctx, query, answerID, userID).Scan(&vote.AnswerID, &vote.UserID, &direction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, MapError(err)
	}
	vote.Direction = domain.VoteDirection(direction)
	return &vote, nil
}

// UpsertVote implements store.AnswerStore.UpsertVote. The conflict target is
// the unique (answer_id, user_id) pair, so switching direction replaces the
// old row and a user can never hold both an upvote and a downvote.
func (s *PostgresAnswerStore) UpsertVote(ctx context.Context, vote store.Vote) error {
	query := `
		INSERT INTO answer_votes (answer_id, user_id, direction, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (answer_id, user_id) DO UPDATE SET direction = EXCLUDED.direction
	`
	_, err := s.db.ExecContext(ctx, query, vote.AnswerID, vote.UserID, string(vote.Direction), time.Now().UTC())
	return MapError(err)
}

// DeleteVote implements store.AnswerStore.DeleteVote.
func (s *PostgresAnswerStore) DeleteVote(ctx context.Context, answerID, userID uuid.UUID) error {
	query := `DELETE FROM answer_votes WHERE answer_id = $1 AND user_id = $2`
	_, err := s.db.ExecContext(ctx, query, answerID, userID)
	return MapError(err)
}

// CountVotes implements store.AnswerStore.CountVotes.
func (s *PostgresAnswerStore) CountVotes(ctx context.Context, answerID uuid.UUID) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE direction = 'up'),
			COUNT(*) FILTER (WHERE direction = 'down')
		FROM answer_votes
		WHERE answer_id = $1
	`
	var up, down int
	if err := s.db.QueryRowContext(ctx, query, answerID).Scan(&up, &down); err != nil {
		return 0, 0, MapError(err)
	}
	return up, down, nil
}

// ListByQuestion implements store.AnswerStore.ListByQuestion.
func (s *PostgresAnswerStore) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := answerSelect + ` WHERE a.question_id = $1 ORDER BY a.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	answers := []*domain.Answer{}
	for rows.Next() {
		answer, err := scanAnswerRow(rows)
		if err != nil {
			return nil, MapError(err)
		}
		answers = append(answers, answer)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return answers, nil
}

func (s *PostgresAnswerStore) scanAnswer(row *sql.Row) (*domain.Answer, error) {
	var answer domain.Answer
	var annotationJSON []byte
	err := row.Scan(
		&answer.ID,
		&answer.QuestionID,
		&answer.AuthorID,
		&answer.Content,
		&answer.ConfidenceLevel,
		&answer.IsAccepted,
		&answer.MentorVerified,
		&answer.VerifiedBy,
		&answer.Upvotes,
		&answer.Downvotes,
		&annotationJSON,
		&answer.CreatedAt,
		&answer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAnswerNotFound
		}
		return nil, MapError(err)
	}
	if err := unmarshalAnswerAnnotation(&answer, annotationJSON); err != nil {
		return nil, err
	}
	return &answer, nil
}

func scanAnswerRow(rows *sql.Rows) (*domain.Answer, error) {
	var answer domain.Answer
	var annotationJSON []byte
	err := rows.Scan(
		&answer.ID,
		&answer.QuestionID,
		&answer.AuthorID,
		&answer.Content,
		&answer.ConfidenceLevel,
		&answer.IsAccepted,
		&answer.MentorVerified,
		&answer.VerifiedBy,
		&answer.Upvotes,
		&answer.Downvotes,
		&annotationJSON,
		&answer.CreatedAt,
		&answer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalAnswerAnnotation(&answer, annotationJSON); err != nil {
		return nil, err
	}
	return &answer, nil
}

func unmarshalAnswerAnnotation(answer *domain.Answer, annotationJSON []byte) error {
	if len(annotationJSON) > 0 {
		if err := json.Unmarshal(annotationJSON, &answer.Annotation); err != nil {
			return fmt.Errorf("failed to unmarshal annotation: %w", err)
		}
	}
	return nil
}
