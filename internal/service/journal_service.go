package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

// JournalSummary combines a user's journal aggregates with the counters the
// reputation score is derived from.
type JournalSummary struct {
	TotalPoints     int                         `json:"total_points"`
	TotalActivities int                         `json:"total_activities"`
	Breakdown       map[domain.ActivityType]int `json:"activity_breakdown"`
	QuestionsAsked  int                         `json:"questions_asked"`
	AnswersGiven    int                         `json:"answers_given"`
	ReputationScore int                         `json:"reputation_score"`
}

// JournalService provides read access to the learning journal and the
// derived reputation score. The journal itself is written only by the
// engagement orchestrator.
type JournalService struct {
	users   store.UserStore
	journal store.JournalStore
	logger  *slog.Logger
}

// NewJournalService creates a new JournalService.
func NewJournalService(users store.UserStore, journal store.JournalStore, logger *slog.Logger) *JournalService {
	if logger == nil {
		logger = slog.Default()
	}

	return &JournalService{
		users:   users,
		journal: journal,
		logger:  logger.With(slog.String("component", "journal_service")),
	}
}

// ListEntries returns the user's journal entries, newest first.
func (s *JournalService) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.journal.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, wrapError("list_journal_entries", "failed to list journal entries", err)
	}
	return entries, nil
}

// Summary aggregates the user's journal and computes the reputation score
// from the running counters. The score is recomputed on every read, never
// cached, so it always reflects the latest ledger state.
func (s *JournalService) Summary(ctx context.Context, userID uuid.UUID) (*JournalSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapError("journal_summary", "failed to retrieve user", err)
	}

	stats, err := s.journal.StatsByUser(ctx, userID)
	if err != nil {
		return nil, wrapError("journal_summary", "failed to aggregate journal", err)
	}

	return &JournalSummary{
		TotalPoints:     stats.TotalPoints,
		TotalActivities: stats.TotalActivities,
		Breakdown:       stats.Breakdown,
		QuestionsAsked:  user.QuestionsAsked,
		AnswersGiven:    user.AnswersGiven,
		ReputationScore: user.ReputationScore(),
	}, nil
}
