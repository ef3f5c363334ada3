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

// MockQuestionStore implements store.QuestionStore in memory.
type MockQuestionStore struct {
	mu        sync.Mutex
	Questions map[uuid.UUID]*domain.Question

	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	UpdateAnnotationFn func(ctx context.Context, id uuid.UUID, annotation domain.QuestionAnnotation) error
}

var _ store.QuestionStore = (*MockQuestionStore)(nil)

// NewMockQuestionStore creates an empty MockQuestionStore.
func NewMockQuestionStore() *MockQuestionStore {
	return &MockQuestionStore{Questions: make(map[uuid.UUID]*domain.Question)}
}

// Add seeds a question directly.
func (m *MockQuestionStore) Add(question *domain.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Questions[question.ID] = question
}

func (m *MockQuestionStore) Create(ctx context.Context, question *domain.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *question
	m.Questions[question.ID] = &copied
	return nil
}

func (m *MockQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.get(id)
}

func (m *MockQuestionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return m.get(id)
}

func (m *MockQuestionStore) UpdateResolution(ctx context.Context, question *domain.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Questions[question.ID]
	if !ok {
		return store.ErrQuestionNotFound
	}
	stored.IsResolved = question.IsResolved
	stored.ResolvedAnswerID = question.ResolvedAnswerID
	stored.UpdatedAt = question.UpdatedAt
	return nil
}

func (m *MockQuestionStore) UpdateAnnotation(ctx context.Context, id uuid.UUID, annotation domain.QuestionAnnotation) error {
	if m.UpdateAnnotationFn != nil {
		return m.UpdateAnnotationFn(ctx, id, annotation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Questions[id]
	if !ok {
		return store.ErrQuestionNotFound
	}
	stored.Annotation = annotation
	return nil
}

func (m *MockQuestionStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Questions[id]
	if !ok {
		return store.ErrQuestionNotFound
	}
	stored.ViewCount++
	return nil
}

func (m *MockQuestionStore) ListByCommunity(ctx context.Context, communityID uuid.UUID, limit, offset int) ([]*domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	questions := []*domain.Question{}
	for _, question := range m.Questions {
		if question.CommunityID == communityID {
			copied := *question
			questions = append(questions, &copied)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})

	if offset >= len(questions) {
		return []*domain.Question{}, nil
	}
	questions = questions[offset:]
	if limit > 0 && limit < len(questions) {
		questions = questions[:limit]
	}
	return questions, nil
}

func (m *MockQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return m
}

func (m *MockQuestionStore) get(id uuid.UUID) (*domain.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	question, ok := m.Questions[id]
	if !ok {
		return nil, store.ErrQuestionNotFound
	}
	copied := *question
	return &copied, nil
}
