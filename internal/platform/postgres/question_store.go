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

// PostgresQuestionStore implements the store.QuestionStore interface using a
// PostgreSQL database as the storage backend. Tags and the advisory
// annotation are stored as JSONB.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of the
// QuestionStore interface.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements store.QuestionStore
var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// WithTx returns a QuestionStore bound to the given transaction.
func (s *PostgresQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return &PostgresQuestionStore{db: tx, logger: s.logger}
}

const questionColumns = `id, community_id, author_id, title, content, tags,
	is_resolved, resolved_answer_id, view_count, annotation, created_at, updated_at`

// Create implements store.QuestionStore.Create.
func (s *PostgresQuestionStore) Create(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during create",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	tagsJSON, err := json.Marshal(question.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	annotationJSON, err := json.Marshal(question.Annotation)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation: %w", err)
	}

	query := `
		INSERT INTO questions (id, community_id, author_id, title, content, tags,
			is_resolved, resolved_answer_id, view_count, annotation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(ctx, query,
		question.ID,
		question.CommunityID,
		question.AuthorID,
		question.Title,
		question.Content,
		tagsJSON,
		question.IsResolved,
		question.ResolvedAnswerID,
		question.ViewCount,
		annotationJSON,
		question.CreatedAt,
		question.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(err)
	}

	log.Debug("question created",
		slog.String("question_id", question.ID.String()),
		slog.String("community_id", question.CommunityID.String()))
	return nil
}

// GetByID implements store.QuestionStore.GetByID.
func (s *PostgresQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	return s.scanQuestion(s.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate implements store.QuestionStore.GetForUpdate.
func (s *PostgresQuestionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1 FOR UPDATE`
	return s.scanQuestion(s.db.QueryRowContext(ctx, query, id))
}

// UpdateResolution implements store.QuestionStore.UpdateResolution.
func (s *PostgresQuestionStore) UpdateResolution(ctx context.Context, question *domain.Question) error {
	query := `
		UPDATE questions
		SET is_resolved = $2, resolved_answer_id = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		question.ID,
		question.IsResolved,
		question.ResolvedAnswerID,
		question.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "question")
}

// UpdateAnnotation implements store.QuestionStore.UpdateAnnotation. The
// question may have been deleted since the annotation task was enqueued, so a
// missing row surfaces as ErrNotFound for the caller to swallow.
func (s *PostgresQuestionStore) UpdateAnnotation(ctx context.Context, id uuid.UUID, annotation domain.QuestionAnnotation) error {
	annotationJSON, err := json.Marshal(annotation)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation: %w", err)
	}

	query := `UPDATE questions SET annotation = $2, updated_at = $3 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, annotationJSON, time.Now().UTC())
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "question")
}

// IncrementViewCount implements store.QuestionStore.IncrementViewCount.
// Relative UPDATE; concurrent views never lose counts.
func (s *PostgresQuestionStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE questions SET view_count = view_count + 1 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "question")
}

// ListByCommunity implements store.QuestionStore.ListByCommunity.
func (s *PostgresQuestionStore) ListByCommunity(ctx context.Context, communityID uuid.UUID, limit, offset int) ([]*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE community_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, communityID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	questions := []*domain.Question{}
	for rows.Next() {
		question, err := scanQuestionRow(rows)
		if err != nil {
			return nil, MapError(err)
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return questions, nil
}

func (s *PostgresQuestionStore) scanQuestion(row *sql.Row) (*domain.Question, error) {
	var question domain.Question
	var tagsJSON, annotationJSON []byte
	err := row.Scan(
		&question.ID,
		&question.CommunityID,
		&question.AuthorID,
		&question.Title,
		&question.Content,
		&tagsJSON,
		&question.IsResolved,
		&question.ResolvedAnswerID,
		&question.ViewCount,
		&annotationJSON,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuestionNotFound
		}
		return nil, MapError(err)
	}
	if err := unmarshalQuestionJSON(&question, tagsJSON, annotationJSON); err != nil {
		return nil, err
	}
	return &question, nil
}

func scanQuestionRow(rows *sql.Rows) (*domain.Question, error) {
	var question domain.Question
	var tagsJSON, annotationJSON []byte
	err := rows.Scan(
		&question.ID,
		&question.CommunityID,
		&question.AuthorID,
		&question.Title,
		&question.Content,
		&tagsJSON,
		&question.IsResolved,
		&question.ResolvedAnswerID,
		&question.ViewCount,
		&annotationJSON,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalQuestionJSON(&question, tagsJSON, annotationJSON); err != nil {
		return nil, err
	}
	return &question, nil
}

func unmarshalQuestionJSON(question *domain.Question, tagsJSON, annotationJSON []byte) error {
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &question.Tags); err != nil {
			return fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	if question.Tags == nil {
		question.Tags = []string{}
	}
	if len(annotationJSON) > 0 {
		if err := json.Unmarshal(annotationJSON, &question.Annotation); err != nil {
			return fmt.Errorf("failed to unmarshal annotation: %w", err)
		}
	}
	return nil
}
