package mocks

import (
	"context"
	"sync"

	"github.com/stackit/stackit-api/internal/annotation"
)

// MockAnnotator implements annotation.Annotator for testing.
type MockAnnotator struct {
	mu sync.Mutex

	ImproveQuestionFn func(ctx context.Context, title, content string) (*annotation.QuestionImprovement, error)
	ReviewAnswerFn    func(ctx context.Context, answerContent, questionContext string) (*annotation.AnswerFeedback, error)

	// Defaults used when no function override is set
	Improvement *annotation.QuestionImprovement
	Feedback    *annotation.AnswerFeedback
	Err         error

	// Call counters
	ImproveQuestionCalls int
	ReviewAnswerCalls    int
}

var _ annotation.Annotator = (*MockAnnotator)(nil)

func (m *MockAnnotator) ImproveQuestion(ctx context.Context, title, content string) (*annotation.QuestionImprovement, error) {
	m.mu.Lock()
	m.ImproveQuestionCalls++
	m.mu.Unlock()

	if m.ImproveQuestionFn != nil {
		return m.ImproveQuestionFn(ctx, title, content)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Improvement != nil {
		return m.Improvement, nil
	}
	return &annotation.QuestionImprovement{}, nil
}

func (m *MockAnnotator) ReviewAnswer(ctx context.Context, answerContent, questionContext string) (*annotation.AnswerFeedback, error) {
	m.mu.Lock()
	m.ReviewAnswerCalls++
	m.mu.Unlock()

	if m.ReviewAnswerFn != nil {
		return m.ReviewAnswerFn(ctx, answerContent, questionContext)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Feedback != nil {
		return m.Feedback, nil
	}
	return &annotation.AnswerFeedback{}, nil
}
