package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

type memberKey struct {
	communityID uuid.UUID
	userID      uuid.UUID
}

// MockCommunityStore implements store.CommunityStore with in-memory maps
// for the community rows and the member/mentor join relations.
type MockCommunityStore struct {
	mu          sync.Mutex
	Communities map[uuid.UUID]*domain.Community
	Members     map[memberKey]bool
	Mentors     map[memberKey]bool

	// Users resolves roster listings to full user records when set.
	UserSource *MockUserStore

	// Function overrides for failure injection
	AddMemberFn func(ctx context.Context, communityID, userID uuid.UUID) error
	IsMemberFn  func(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
}

var _ store.CommunityStore = (*MockCommunityStore)(nil)

// NewMockCommunityStore creates an empty MockCommunityStore.
func NewMockCommunityStore() *MockCommunityStore {
	return &MockCommunityStore{
		Communities: make(map[uuid.UUID]*domain.Community),
		Members:     make(map[memberKey]bool),
		Mentors:     make(map[memberKey]bool),
	}
}

// Add seeds a community directly.
func (m *MockCommunityStore) Add(community *domain.Community) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Communities[community.ID] = community
}

// SeedMember puts the user on the community's member roster.
func (m *MockCommunityStore) SeedMember(communityID, userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[memberKey{communityID, userID}] = true
}

// SeedMentor puts the user in the community's mentor set (and roster).
func (m *MockCommunityStore) SeedMentor(communityID, userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[memberKey{communityID, userID}] = true
	m.Mentors[memberKey{communityID, userID}] = true
}

func (m *MockCommunityStore) Create(ctx context.Context, community *domain.Community) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Communities {
		if existing.InviteCode == community.InviteCode {
			return store.ErrInviteCodeExists
		}
	}
	m.Communities[community.ID] = community
	return nil
}

func (m *MockCommunityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	community, ok := m.Communities[id]
	if !ok {
		return nil, store.ErrCommunityNotFound
	}
	copied := *community
	return &copied, nil
}

func (m *MockCommunityStore) GetByInviteCode(ctx context.Context, code string) (*domain.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, community := range m.Communities {
		if community.InviteCode == code {
			copied := *community
			return &copied, nil
		}
	}
	return nil, store.ErrCommunityNotFound
}

func (m *MockCommunityStore) AddMember(ctx context.Context, communityID, userID uuid.UUID) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, communityID, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[memberKey{communityID, userID}] = true
	return nil
}

func (m *MockCommunityStore) RemoveMember(ctx context.Context, communityID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memberKey{communityID, userID}
	delete(m.Members, key)
	// The mentor row cascades with the membership, as in the schema.
	delete(m.Mentors, key)
	return nil
}

func (m *MockCommunityStore) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	if m.IsMemberFn != nil {
		return m.IsMemberFn(ctx, communityID, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Members[memberKey{communityID, userID}], nil
}

func (m *MockCommunityStore) ListMembers(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error) {
	return m.listUsers(communityID, m.Members)
}

func (m *MockCommunityStore) AddMentor(ctx context.Context, communityID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Members[memberKey{communityID, userID}] {
		return store.ErrInvalidEntity
	}
	m.Mentors[memberKey{communityID, userID}] = true
	return nil
}

func (m *MockCommunityStore) RemoveMentor(ctx context.Context, communityID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Mentors, memberKey{communityID, userID})
	return nil
}

func (m *MockCommunityStore) IsMentor(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Mentors[memberKey{communityID, userID}], nil
}

func (m *MockCommunityStore) ListMentors(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error) {
	return m.listUsers(communityID, m.Mentors)
}

func (m *MockCommunityStore) CountMentorships(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for key := range m.Mentors {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockCommunityStore) IncrementQuestions(ctx context.Context, communityID uuid.UUID) error {
	return m.increment(communityID, func(c *domain.Community) { c.TotalQuestions++ })
}

func (m *MockCommunityStore) IncrementAnswers(ctx context.Context, communityID uuid.UUID) error {
	return m.increment(communityID, func(c *domain.Community) { c.TotalAnswers++ })
}

func (m *MockCommunityStore) WithTx(tx *sql.Tx) store.CommunityStore {
	return m
}

func (m *MockCommunityStore) increment(communityID uuid.UUID, bump func(*domain.Community)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	community, ok := m.Communities[communityID]
	if !ok {
		return store.ErrCommunityNotFound
	}
	bump(community)
	return nil
}

func (m *MockCommunityStore) listUsers(communityID uuid.UUID, relation map[memberKey]bool) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []*domain.User{}
	for key := range relation {
		if key.communityID != communityID {
			continue
		}
		if m.UserSource != nil {
			if user, ok := m.UserSource.Users[key.userID]; ok {
				copied := *user
				users = append(users, &copied)
				continue
			}
		}
		users = append(users, &domain.User{ID: key.userID})
	}
	return users, nil
}
