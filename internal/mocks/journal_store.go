package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

// MockJournalStore implements store.JournalStore in memory. Like the real
// store it is append-only.
type MockJournalStore struct {
	mu      sync.Mutex
	Entries []*domain.JournalEntry

	AppendFn func(ctx context.Context, entry *domain.JournalEntry) error
}

var _ store.JournalStore = (*MockJournalStore)(nil)

// NewMockJournalStore creates an empty MockJournalStore.
func NewMockJournalStore() *MockJournalStore {
	return &MockJournalStore{}
}

func (m *MockJournalStore) Append(ctx context.Context, entry *domain.JournalEntry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.Entries = append(m.Entries, &copied)
	return nil
}

func (m *MockJournalStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := []*domain.JournalEntry{}
	for _, entry := range m.Entries {
		if entry.UserID == userID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if offset >= len(entries) {
		return []*domain.JournalEntry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockJournalStore) StatsByUser(ctx context.Context, userID uuid.UUID) (*store.JournalStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &store.JournalStats{Breakdown: make(map[domain.ActivityType]int)}
	for _, entry := range m.Entries {
		if entry.UserID != userID {
			continue
		}
		stats.TotalPoints += entry.PointsEarned
		stats.TotalActivities++
		stats.Breakdown[entry.ActivityType]++
	}
	return stats, nil
}

// EntriesFor returns the user's entries in insertion order, for assertions.
func (m *MockJournalStore) EntriesFor(userID uuid.UUID) []*domain.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := []*domain.JournalEntry{}
	for _, entry := range m.Entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (m *MockJournalStore) WithTx(tx *sql.Tx) store.JournalStore {
	return m
}
