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

type voteKey struct {
	answerID uuid.UUID
	userID   uuid.UUID
}

// MockAnswerStore implements store.AnswerStore in memory. Vote counts are
// derived from the votes map on every read, as in the SQL implementation.
type MockAnswerStore struct {
	mu      sync.Mutex
	Answers map[uuid.UUID]*domain.Answer
	Votes   map[voteKey]domain.VoteDirection

	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	UpdateAnnotationFn func(ctx context.Context, id uuid.UUID, annotation domain.AnswerAnnotation) error
}

var _ store.AnswerStore = (*MockAnswerStore)(nil)

// NewMockAnswerStore creates an empty MockAnswerStore.
func NewMockAnswerStore() *MockAnswerStore {
	return &MockAnswerStore{
		Answers: make(map[uuid.UUID]*domain.Answer),
		Votes:   make(map[voteKey]domain.VoteDirection),
	}
}

// Add seeds an answer directly.
func (m *MockAnswerStore) Add(answer *domain.Answer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Answers[answer.ID] = answer
}

func (m *MockAnswerStore) Create(ctx context.Context, answer *domain.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *answer
	m.Answers[answer.ID] = &copied
	return nil
}

func (m *MockAnswerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.get(id)
}

func (m *MockAnswerStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	return m.get(id)
}

func (m *MockAnswerStore) UpdateFlags(ctx context.Context, answer *domain.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Answers[answer.ID]
	if !ok {
		return store.ErrAnswerNotFound
	}
	stored.IsAccepted = answer.IsAccepted
	stored.MentorVerified = answer.MentorVerified
	stored.VerifiedBy = answer.VerifiedBy
	stored.UpdatedAt = answer.UpdatedAt
	return nil
}

func (m *MockAnswerStore) UpdateAnnotation(ctx context.Context, id uuid.UUID, annotation domain.AnswerAnnotation) error {
	if m.UpdateAnnotationFn != nil {
		return m.UpdateAnnotationFn(ctx, id, annotation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Answers[id]
	if !ok {
		return store.ErrAnswerNotFound
	}
	stored.Annotation = annotation
	return nil
}

func (m *MockAnswerStore) GetVote(ctx context.Context, answerID, userID uuid.UUID) (*store.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	direction, ok := m.Votes[voteKey{answerID, userID}]
	if !ok {
		return nil, nil
	}
	return &store.Vote{AnswerID: answerID, UserID: userID, Direction: direction}, nil
}

func (m *MockAnswerStore) UpsertVote(ctx context.Context, vote store.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Votes[voteKey{vote.AnswerID, vote.UserID}] = vote.Direction
	return nil
}

func (m *MockAnswerStore) DeleteVote(ctx context.Context, answerID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Votes, voteKey{answerID, userID})
	return nil
}

func (m *MockAnswerStore) CountVotes(ctx context.Context, answerID uuid.UUID) (up, down int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(answerID)
}

func (m *MockAnswerStore) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	answers := []*domain.Answer{}
	for _, answer := range m.Answers {
		if answer.QuestionID == questionID {
			copied := *answer
			copied.Upvotes, copied.Downvotes, _ = m.countLocked(answer.ID)
			answers = append(answers, &copied)
		}
	}
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
	return answers, nil
}

func (m *MockAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return m
}

func (m *MockAnswerStore) get(id uuid.UUID) (*domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	answer, ok := m.Answers[id]
	if !ok {
		return nil, store.ErrAnswerNotFound
	}
	copied := *answer
	copied.Upvotes, copied.Downvotes, _ = m.countLocked(id)
	return &copied, nil
}

func (m *MockAnswerStore) countLocked(answerID uuid.UUID) (up, down int, err error) {
	for key, direction := range m.Votes {
		if key.answerID != answerID {
			continue
		}
		if direction == domain.VoteUp {
			up++
		} else {
			down++
		}
	}
	return up, down, nil
}
