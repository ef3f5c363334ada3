package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/annotation"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/events"
	"github.com/stackit/stackit-api/internal/store"
)

// Common errors
var (
	ErrNilAnnotator     = errors.New("annotator cannot be nil")
	ErrNilQuestionStore = errors.New("question store cannot be nil")
	ErrNilAnswerStore   = errors.New("answer store cannot be nil")
	ErrNilLogger        = errors.New("logger cannot be nil")
	ErrEmptyQuestionID  = errors.New("question ID cannot be empty")
	ErrEmptyAnswerID    = errors.New("answer ID cannot be empty")
)

// questionAnnotationPayload represents the serialized data stored in the task
type questionAnnotationPayload struct {
	QuestionID uuid.UUID `json:"question_id"`
}

// QuestionAnnotationTask implements the Task interface for enriching a
// committed question with AI-suggested improvements. The work is strictly
// advisory: any annotator failure leaves the question untouched and the task
// still completes, so the annotation pipeline can never fail a question.
type QuestionAnnotationTask struct {
	id         uuid.UUID
	questionID uuid.UUID
	annotator  annotation.Annotator
	questions  store.QuestionStore
	timeout    time.Duration
	logger     *slog.Logger
	status     TaskStatus
}

// NewQuestionAnnotationTask creates a new question annotation task.
func NewQuestionAnnotationTask(
	questionID uuid.UUID,
	annotator annotation.Annotator,
	questions store.QuestionStore,
	timeout time.Duration,
	logger *slog.Logger,
) (*QuestionAnnotationTask, error) {
	if annotator == nil {
		return nil, ErrNilAnnotator
	}
	if questions == nil {
		return nil, ErrNilQuestionStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if questionID == uuid.Nil {
		return nil, ErrEmptyQuestionID
	}

	return &QuestionAnnotationTask{
		id:         uuid.New(),
		questionID: questionID,
		annotator:  annotator,
		questions:  questions,
		timeout:    timeout,
		logger:     logger.With("task_type", events.TaskTypeQuestionAnnotation, "question_id", questionID),
		status:     TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *QuestionAnnotationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *QuestionAnnotationTask) Type() string {
	return events.TaskTypeQuestionAnnotation
}

// Payload returns the task data as a byte slice
func (t *QuestionAnnotationTask) Payload() []byte {
	data, err := json.Marshal(questionAnnotationPayload{QuestionID: t.questionID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *QuestionAnnotationTask) Status() TaskStatus {
	return t.status
}

// Execute fetches the question, asks the annotator for improvements and
// persists them in a fresh transaction. The question row is never locked
// while the annotator call is in flight.
func (t *QuestionAnnotationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting question annotation task")

	question, err := t.questions.GetByID(ctx, t.questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Question was deleted after the task was enqueued.
			t.logger.Info("question no longer exists, skipping annotation")
			t.status = TaskStatusCompleted
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to retrieve question: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	improvement, err := t.annotator.ImproveQuestion(callCtx, question.Title, question.Content)
	if err != nil {
		if errors.Is(err, annotation.ErrUnavailable) {
			t.logger.Warn("annotator unavailable, leaving question unannotated", "error", err)
			t.status = TaskStatusCompleted
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to improve question: %w", err)
	}

	err = t.questions.UpdateAnnotation(ctx, t.questionID, domain.QuestionAnnotation{
		ImprovedTitle:   improvement.ImprovedTitle,
		ImprovedContent: improvement.ImprovedContent,
		SuggestedTags:   improvement.SuggestedTags,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.logger.Info("question deleted during annotation, discarding result")
			t.status = TaskStatusCompleted
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to persist question annotation: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("question annotation task completed")
	return nil
}
