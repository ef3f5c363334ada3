package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/annotation"
	"github.com/stackit/stackit-api/internal/mocks"
)

func TestDraftServiceImproveDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the annotator's suggestion", func(t *testing.T) {
		annotator := &mocks.MockAnnotator{
			Improvement: &annotation.QuestionImprovement{
				ImprovedTitle:   "How do Go channels synchronize goroutines?",
				ImprovedContent: "clearer content",
				SuggestedTags:   []string{"go", "channels"},
				Confidence:      90,
			},
		}
		service := NewDraftService(annotator, time.Second, slog.Default())

		improvement := service.ImproveDraft(ctx, "channels??", "how work")
		require.NotNil(t, improvement)
		assert.Equal(t, "How do Go channels synchronize goroutines?", improvement.ImprovedTitle)
		assert.Equal(t, 1, annotator.ImproveQuestionCalls)
	})

	t.Run("nil annotator degrades to an empty suggestion", func(t *testing.T) {
		service := NewDraftService(nil, time.Second, slog.Default())

		improvement := service.ImproveDraft(ctx, "title", "content")
		require.NotNil(t, improvement)
		assert.Empty(t, improvement.ImprovedTitle)
		assert.Empty(t, improvement.SuggestedTags)
	})

	t.Run("annotator failure degrades to an empty suggestion", func(t *testing.T) {
		annotator := &mocks.MockAnnotator{Err: annotation.ErrUnavailable}
		service := NewDraftService(annotator, time.Second, slog.Default())

		improvement := service.ImproveDraft(ctx, "title", "content")
		require.NotNil(t, improvement)
		assert.Empty(t, improvement.ImprovedTitle)
	})

	t.Run("call is bounded by the configured timeout", func(t *testing.T) {
		annotator := &mocks.MockAnnotator{
			ImproveQuestionFn: func(ctx context.Context, title, content string) (*annotation.QuestionImprovement, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		service := NewDraftService(annotator, 10*time.Millisecond, slog.Default())

		done := make(chan *annotation.QuestionImprovement, 1)
		go func() { done <- service.ImproveDraft(ctx, "title", "content") }()

		select {
		case improvement := <-done:
			require.NotNil(t, improvement)
			assert.Empty(t, improvement.ImprovedTitle)
		case <-time.After(2 * time.Second):
			t.Fatal("ImproveDraft did not respect its timeout")
		}
	})
}
