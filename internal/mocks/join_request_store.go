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

// MockJoinRequestStore implements store.JoinRequestStore in memory.
type MockJoinRequestStore struct {
	mu       sync.Mutex
	Requests map[uuid.UUID]*domain.JoinRequest

	CreateFn func(ctx context.Context, request *domain.JoinRequest) error
}

var _ store.JoinRequestStore = (*MockJoinRequestStore)(nil)

// NewMockJoinRequestStore creates an empty MockJoinRequestStore.
func NewMockJoinRequestStore() *MockJoinRequestStore {
	return &MockJoinRequestStore{Requests: make(map[uuid.UUID]*domain.JoinRequest)}
}

// Add seeds a request directly.
func (m *MockJoinRequestStore) Add(request *domain.JoinRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[request.ID] = request
}

func (m *MockJoinRequestStore) Create(ctx context.Context, request *domain.JoinRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, request)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Requests {
		if existing.CommunityID == request.CommunityID &&
			existing.UserID == request.UserID &&
			existing.IsPending() {
			return store.ErrDuplicate
		}
	}
	m.Requests[request.ID] = request
	return nil
}

func (m *MockJoinRequestStore) GetPendingForUpdate(ctx context.Context, id, communityID uuid.UUID) (*domain.JoinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	request, ok := m.Requests[id]
	if !ok || request.CommunityID != communityID || !request.IsPending() {
		return nil, store.ErrJoinRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (m *MockJoinRequestStore) HasPending(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, request := range m.Requests {
		if request.CommunityID == communityID && request.UserID == userID && request.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockJoinRequestStore) Update(ctx context.Context, request *domain.JoinRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Requests[request.ID]; !ok {
		return store.ErrJoinRequestNotFound
	}
	copied := *request
	m.Requests[request.ID] = &copied
	return nil
}

func (m *MockJoinRequestStore) ListPending(ctx context.Context, communityID uuid.UUID) ([]*domain.JoinRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := []*domain.JoinRequest{}
	for _, request := range m.Requests {
		if request.CommunityID == communityID && request.IsPending() {
			copied := *request
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

func (m *MockJoinRequestStore) WithTx(tx *sql.Tx) store.JoinRequestStore {
	return m
}
