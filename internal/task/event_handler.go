package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/events"
)

// AnnotationEventHandler implements the events.EventHandler interface. It
// turns annotation request events into persisted background tasks and hands
// them to the runner.
type AnnotationEventHandler struct {
	factory *AnnotationTaskFactory
	runner  *TaskRunner
	logger  *slog.Logger
}

// NewAnnotationEventHandler creates an event handler that uses the given
// factory to build annotation tasks and submits them to the runner.
func NewAnnotationEventHandler(
	factory *AnnotationTaskFactory,
	runner *TaskRunner,
	logger *slog.Logger,
) *AnnotationEventHandler {
	return &AnnotationEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With(slog.String("component", "annotation_event_handler")),
	}
}

// Ensure AnnotationEventHandler implements events.EventHandler
var _ events.EventHandler = (*AnnotationEventHandler)(nil)

// HandleEvent processes annotation request events. Events with an
// unrecognized type are ignored so other handlers can claim them.
func (h *AnnotationEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	var annotationTask Task

	switch event.Type {
	case events.TaskTypeQuestionAnnotation:
		var payload struct {
			QuestionID string `json:"question_id"`
		}
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		questionID, err := uuid.Parse(payload.QuestionID)
		if err != nil {
			return fmt.Errorf("invalid question ID: %w", err)
		}
		annotationTask, err = h.factory.CreateQuestionAnnotationTask(questionID)
		if err != nil {
			return fmt.Errorf("failed to create question annotation task: %w", err)
		}

	case events.TaskTypeAnswerFeedback:
		var payload struct {
			AnswerID string `json:"answer_id"`
		}
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		answerID, err := uuid.Parse(payload.AnswerID)
		if err != nil {
			return fmt.Errorf("invalid answer ID: %w", err)
		}
		annotationTask, err = h.factory.CreateAnswerFeedbackTask(answerID)
		if err != nil {
			return fmt.Errorf("failed to create answer feedback task: %w", err)
		}

	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	if err := h.runner.Submit(ctx, annotationTask); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", annotationTask.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted",
		"task_id", annotationTask.ID(),
		"task_type", annotationTask.Type(),
		"event_id", event.ID)
	return nil
}
