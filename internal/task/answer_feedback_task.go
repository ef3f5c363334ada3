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

// answerFeedbackPayload represents the serialized data stored in the task
type answerFeedbackPayload struct {
	AnswerID uuid.UUID `json:"answer_id"`
}

// AnswerFeedbackTask implements the Task interface for attaching AI feedback
// to a committed answer. Like question annotation, it is advisory only.
type AnswerFeedbackTask struct {
	id        uuid.UUID
	answerID  uuid.UUID
	annotator annotation.Annotator
	answers   store.AnswerStore
	questions store.QuestionStore
	timeout   time.Duration
	logger    *slog.Logger
	status    TaskStatus
}

// NewAnswerFeedbackTask creates a new answer feedback task.
func NewAnswerFeedbackTask(
	answerID uuid.UUID,
	annotator annotation.Annotator,
	answers store.AnswerStore,
	questions store.QuestionStore,
	timeout time.Duration,
	logger *slog.Logger,
) (*AnswerFeedbackTask, error) {
	if annotator == nil {
		return nil, ErrNilAnnotator
	}
	if answers == nil {
		return nil, ErrNilAnswerStore
	}
	if questions == nil {
		return nil, ErrNilQuestionStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if answerID == uuid.Nil {
		return nil, ErrEmptyAnswerID
	}

	return &AnswerFeedbackTask{
		id:        uuid.New(),
		answerID:  answerID,
		annotator: annotator,
		answers:   answers,
		questions: questions,
		timeout:   timeout,
		logger:    logger.With("task_type", events.TaskTypeAnswerFeedback, "answer_id", answerID),
		status:    TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *AnswerFeedbackTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *AnswerFeedbackTask) Type() string {
	return events.TaskTypeAnswerFeedback
}

// Payload returns the task data as a byte slice
func (t *AnswerFeedbackTask) Payload() []byte {
	data, err := json.Marshal(answerFeedbackPayload{AnswerID: t.answerID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *AnswerFeedbackTask) Status() TaskStatus {
	return t.status
}

// Execute fetches the answer and its question for context, asks the
// annotator for a review and persists it. No database locks are held while
// the annotator call is in flight.
func (t *AnswerFeedbackTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting answer feedback task")

	answer, err := t.answers.GetByID(ctx, t.answerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.logger.Info("answer no longer exists, skipping feedback")
			t.status = TaskStatusCompleted
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to retrieve answer: %w", err)
	}

	questionContext := ""
	if question, err := t.questions.GetByID(ctx, answer.QuestionID); err == nil {
		questionContext = question.Title + "\n\n" + question.Content
	} else {
		// Feedback is still useful without the question text.
		t.logger.Warn("failed to retrieve question for context", "error", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	feedback, err := t.annotator.ReviewAnswer(callCtx, answer.Content, questionContext)
	if err != nil {
		if errors.Is(err, annotation.ErrUnavailable) {
			t.logger.Warn("annotator unavailable, leaving answer without feedback", "error", err)
			t.status = TaskStatusCompleted
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to review answer: %w", err)
	}

	err = t.answers.UpdateAnnotation(ctx, t.answerID, domain.AnswerAnnotation{
		Feedback:        feedback.Feedback,
		ImprovedContent: feedback.ImprovedAnswer,
		Suggestions:     feedback.Suggestions,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.logger.Info("answer deleted during review, discarding result")
			t.status = TaskStatusCompleted
			return nil
		}
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to persist answer feedback: %w", err)
	}

	t.status = TaskStatusCompleted
	t.logger.Info("answer feedback task completed")
	return nil
}
