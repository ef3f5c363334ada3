package task

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/events"
	"github.com/stackit/stackit-api/internal/mocks"
)

func newEventHandlerFixture(t *testing.T) (*AnnotationEventHandler, *memoryTaskStore) {
	t.Helper()
	factory := NewAnnotationTaskFactory(
		&mocks.MockAnnotator{},
		mocks.NewMockQuestionStore(),
		mocks.NewMockAnswerStore(),
		time.Second,
		slog.Default(),
	)
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, testRunnerConfig(), slog.Default())
	return NewAnnotationEventHandler(factory, runner, slog.Default()), store
}

func TestAnnotationEventHandlerHandleEvent(t *testing.T) {
	t.Run("question annotation event becomes a persisted task", func(t *testing.T) {
		handler, store := newEventHandlerFixture(t)
		event, err := events.NewTaskRequestEvent(events.TaskTypeQuestionAnnotation,
			map[string]string{"question_id": uuid.NewString()})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, store.saved, 1)
		assert.Equal(t, events.TaskTypeQuestionAnnotation, store.saved[0].Type())
	})

	t.Run("answer feedback event becomes a persisted task", func(t *testing.T) {
		handler, store := newEventHandlerFixture(t)
		event, err := events.NewTaskRequestEvent(events.TaskTypeAnswerFeedback,
			map[string]string{"answer_id": uuid.NewString()})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, store.saved, 1)
		assert.Equal(t, events.TaskTypeAnswerFeedback, store.saved[0].Type())
	})

	t.Run("unknown event types are ignored", func(t *testing.T) {
		handler, store := newEventHandlerFixture(t)
		event, err := events.NewTaskRequestEvent("member_joined", map[string]string{})
		require.NoError(t, err)

		assert.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, store.saved)
	})

	t.Run("malformed question ID fails", func(t *testing.T) {
		handler, store := newEventHandlerFixture(t)
		event, err := events.NewTaskRequestEvent(events.TaskTypeQuestionAnnotation,
			map[string]string{"question_id": "not-a-uuid"})
		require.NoError(t, err)

		assert.Error(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, store.saved)
	})
}
