package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/annotation"
	"github.com/stackit/stackit-api/internal/config"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-api-key",
		ModelName:         "gemini-1.5-flash",
		MaxRetries:        1,
		RetryDelaySeconds: 1,
	}
}

func TestNewGeminiAnnotator(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		logger  *slog.Logger
		mutate  func(*config.LLMConfig)
		wantErr bool
	}{
		{"valid config", slog.Default(), func(cfg *config.LLMConfig) {}, false},
		{"nil logger", nil, func(cfg *config.LLMConfig) {}, true},
		{"missing API key", slog.Default(), func(cfg *config.LLMConfig) { cfg.GeminiAPIKey = "" }, true},
		{"missing model name", slog.Default(), func(cfg *config.LLMConfig) { cfg.ModelName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testLLMConfig()
			tt.mutate(&cfg)

			annotator, err := NewGeminiAnnotator(ctx, tt.logger, cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, annotator)
		})
	}
}

func TestGeminiAnnotatorRejectsEmptyInput(t *testing.T) {
	ctx := context.Background()
	annotator, err := NewGeminiAnnotator(ctx, slog.Default(), testLLMConfig())
	require.NoError(t, err)

	_, err = annotator.ImproveQuestion(ctx, "", "")
	assert.ErrorIs(t, err, annotation.ErrInvalidResponse)
	assert.ErrorIs(t, err, annotation.ErrUnavailable)

	_, err = annotator.ReviewAnswer(ctx, "", "some question")
	assert.ErrorIs(t, err, annotation.ErrInvalidResponse)
}

func TestGeminiAnnotatorRenderPrompt(t *testing.T) {
	ctx := context.Background()
	annotator, err := NewGeminiAnnotator(ctx, slog.Default(), testLLMConfig())
	require.NoError(t, err)

	prompt, err := annotator.renderPrompt(annotator.questionTemplate, questionPromptData{
		Title:   "How do I cancel a goroutine?",
		Content: "It keeps running after the request ends.",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "How do I cancel a goroutine?")
	assert.Contains(t, prompt, "It keeps running after the request ends.")

	prompt, err = annotator.renderPrompt(annotator.answerTemplate, answerPromptData{
		Answer:   "Use context.WithCancel.",
		Question: "How do I cancel a goroutine?",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Use context.WithCancel.")
}
