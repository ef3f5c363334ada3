package task

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/annotation"
	"github.com/stackit/stackit-api/internal/store"
)

// AnnotationTaskFactory creates annotation tasks with their dependencies
// already injected, so event handlers only need the target entity's ID.
type AnnotationTaskFactory struct {
	annotator annotation.Annotator
	questions store.QuestionStore
	answers   store.AnswerStore
	timeout   time.Duration
	logger    *slog.Logger
}

// NewAnnotationTaskFactory creates a new factory for annotation tasks.
// timeout bounds each individual annotator call.
func NewAnnotationTaskFactory(
	annotator annotation.Annotator,
	questions store.QuestionStore,
	answers store.AnswerStore,
	timeout time.Duration,
	logger *slog.Logger,
) *AnnotationTaskFactory {
	return &AnnotationTaskFactory{
		annotator: annotator,
		questions: questions,
		answers:   answers,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "annotation_task_factory")),
	}
}

// CreateQuestionAnnotationTask creates a task that annotates the given
// question.
func (f *AnnotationTaskFactory) CreateQuestionAnnotationTask(questionID uuid.UUID) (Task, error) {
	return NewQuestionAnnotationTask(questionID, f.annotator, f.questions, f.timeout, f.logger)
}

// CreateAnswerFeedbackTask creates a task that reviews the given answer.
func (f *AnnotationTaskFactory) CreateAnswerFeedbackTask(answerID uuid.UUID) (Task, error) {
	return NewAnswerFeedbackTask(answerID, f.annotator, f.answers, f.questions, f.timeout, f.logger)
}
