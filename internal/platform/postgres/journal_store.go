package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/platform/logger"
	"github.com/stackit/stackit-api/internal/store"
)

// PostgresJournalStore implements the store.JournalStore interface using a
// PostgreSQL database as the storage backend. The journal is append-only, so
// the store exposes no update or delete.
type PostgresJournalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJournalStore creates a new PostgreSQL implementation of the
// JournalStore interface.
func NewPostgresJournalStore(db store.DBTX, logger *slog.Logger) *PostgresJournalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJournalStore{
		db:     db,
		logger: logger.With(slog.String("component", "journal_store")),
	}
}

// Ensure PostgresJournalStore implements store.JournalStore
var _ store.JournalStore = (*PostgresJournalStore)(nil)

// WithTx returns a JournalStore bound to the given transaction.
func (s *PostgresJournalStore) WithTx(tx *sql.Tx) store.JournalStore {
	return &PostgresJournalStore{db: tx, logger: s.logger}
}

// Append implements store.JournalStore.Append.
func (s *PostgresJournalStore) Append(ctx context.Context, entry *domain.JournalEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("journal entry validation failed during append",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO journal_entries (id, user_id, activity_type, title, description,
			related_question_id, related_answer_id, points_earned,
			confidence_before, confidence_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ActivityType,
		entry.Title,
		entry.Description,
		entry.RelatedQuestionID,
		entry.RelatedAnswerID,
		entry.PointsEarned,
		entry.ConfidenceBefore,
		entry.ConfidenceAfter,
		entry.CreatedAt,
	)

	if err != nil {
		log.Error("failed to append journal entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return MapError(err)
	}

	log.Debug("journal entry appended",
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.String("activity_type", string(entry.ActivityType)),
		slog.Int("points_earned", entry.PointsEarned))
	return nil
}

// ListByUser implements store.JournalStore.ListByUser.
func (s *PostgresJournalStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, activity_type, title, description,
			related_question_id, related_answer_id, points_earned,
			confidence_before, confidence_after, created_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*domain.JournalEntry{}
	for rows.Next() {
		var entry domain.JournalEntry
		var activityType string
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&activityType,
			&entry.Title,
			&entry.Description,
			&entry.RelatedQuestionID,
			&entry.RelatedAnswerID,
			&entry.PointsEarned,
			&entry.ConfidenceBefore,
			&entry.ConfidenceAfter,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		entry.ActivityType = domain.ActivityType(activityType)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// StatsByUser implements store.JournalStore.StatsByUser.
func (s *PostgresJournalStore) StatsByUser(ctx context.Context, userID uuid.UUID) (*store.JournalStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT activity_type, COUNT(*), COALESCE(SUM(points_earned), 0)
		FROM journal_entries
		WHERE user_id = $1
		GROUP BY activity_type
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	stats := &store.JournalStats{
		Breakdown: map[domain.ActivityType]int{},
	}
	for rows.Next() {
		var activityType string
		var count, points int
		if err := rows.Scan(&activityType, &count, &points); err != nil {
			return nil, MapError(err)
		}
		stats.Breakdown[domain.ActivityType(activityType)] = count
		stats.TotalActivities += count
		stats.TotalPoints += points
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return stats, nil
}
