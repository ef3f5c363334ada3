package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
)

// JournalStats summarizes a user's learning journal.
type JournalStats struct {
	TotalPoints     int                         `json:"total_points"`
	TotalActivities int                         `json:"total_activities"`
	Breakdown       map[domain.ActivityType]int `json:"activity_breakdown"`
}

// JournalStore defines persistence operations for the learning journal.
// The journal is append-only: there is deliberately no update or delete.
type JournalStore interface {
	// Append saves a new journal entry.
	Append(ctx context.Context, entry *domain.JournalEntry) error

	// ListByUser returns the user's entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error)

	// StatsByUser aggregates the user's journal into totals and a
	// per-activity breakdown.
	StatsByUser(ctx context.Context, userID uuid.UUID) (*JournalStats, error)

	// WithTx returns a JournalStore bound to the given transaction.
	WithTx(tx *sql.Tx) JournalStore
}
