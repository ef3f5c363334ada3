package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

// MockInviteStore implements store.InviteStore in memory.
type MockInviteStore struct {
	mu      sync.Mutex
	Invites map[uuid.UUID]*domain.Invite
}

var _ store.InviteStore = (*MockInviteStore)(nil)

// NewMockInviteStore creates an empty MockInviteStore.
func NewMockInviteStore() *MockInviteStore {
	return &MockInviteStore{Invites: make(map[uuid.UUID]*domain.Invite)}
}

// Add seeds an invite directly.
func (m *MockInviteStore) Add(invite *domain.Invite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invites[invite.ID] = invite
}

func (m *MockInviteStore) Create(ctx context.Context, invite *domain.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Invites {
		if existing.CommunityID == invite.CommunityID &&
			strings.EqualFold(existing.Email, invite.Email) &&
			!existing.Accepted {
			return store.ErrDuplicate
		}
	}
	m.Invites[invite.ID] = invite
	return nil
}

func (m *MockInviteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	invite, ok := m.Invites[id]
	if !ok {
		return nil, store.ErrInviteNotFound
	}
	copied := *invite
	return &copied, nil
}

func (m *MockInviteStore) HasUnaccepted(ctx context.Context, communityID uuid.UUID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, invite := range m.Invites {
		if invite.CommunityID == communityID && strings.EqualFold(invite.Email, email) && !invite.Accepted {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockInviteStore) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	invite, ok := m.Invites[id]
	if !ok {
		return store.ErrInviteNotFound
	}
	invite.Accepted = true
	return nil
}

func (m *MockInviteStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Invites[id]; !ok {
		return store.ErrInviteNotFound
	}
	delete(m.Invites, id)
	return nil
}

func (m *MockInviteStore) ListByEmail(ctx context.Context, email string) ([]*domain.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	open := []*domain.Invite{}
	for _, invite := range m.Invites {
		if strings.EqualFold(invite.Email, email) && !invite.Accepted {
			copied := *invite
			open = append(open, &copied)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].CreatedAt.After(open[j].CreatedAt)
	})
	return open, nil
}

func (m *MockInviteStore) WithTx(tx *sql.Tx) store.InviteStore {
	return m
}
