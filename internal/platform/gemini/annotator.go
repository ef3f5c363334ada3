package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/stackit/stackit-api/internal/annotation"
	"github.com/stackit/stackit-api/internal/config"
	"google.golang.org/genai"
)

// GeminiAnnotator implements the annotation.Annotator interface using
// Google's Gemini API to improve questions and review answers.
type GeminiAnnotator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string

	questionTemplate *template.Template
	answerTemplate   *template.Template
}

// NewGeminiAnnotator creates a new instance of GeminiAnnotator with the
// provided configuration. The API key and model name are required; callers
// that have neither should skip wiring the annotator entirely.
func NewGeminiAnnotator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiAnnotator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", annotation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", annotation.ErrInvalidConfig)
	}

	questionTemplate, err := template.New("question").Parse(questionPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse question prompt template: %v",
			annotation.ErrInvalidConfig, err)
	}

	answerTemplate, err := template.New("answer").Parse(answerPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse answer prompt template: %v",
			annotation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			annotation.ErrInvalidConfig, err)
	}

	return &GeminiAnnotator{
		logger:           logger.With(slog.String("component", "gemini_annotator")),
		config:           cfg,
		client:           client,
		model:            cfg.ModelName,
		questionTemplate: questionTemplate,
		answerTemplate:   answerTemplate,
	}, nil
}

// Ensure GeminiAnnotator implements annotation.Annotator
var _ annotation.Annotator = (*GeminiAnnotator)(nil)

// ImproveQuestion implements annotation.Annotator.ImproveQuestion.
func (g *GeminiAnnotator) ImproveQuestion(ctx context.Context, title, content string) (*annotation.QuestionImprovement, error) {
	if title == "" && content == "" {
		return nil, fmt.Errorf("%w: empty question", annotation.ErrInvalidResponse)
	}

	prompt, err := g.renderPrompt(g.questionTemplate, questionPromptData{
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	text, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var improvement annotation.QuestionImprovement
	if err := json.Unmarshal([]byte(text), &improvement); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			annotation.ErrInvalidResponse, err)
	}

	if improvement.ImprovedTitle == "" && improvement.ImprovedContent == "" {
		return nil, fmt.Errorf("%w: empty improvement", annotation.ErrInvalidResponse)
	}

	return &improvement, nil
}

// ReviewAnswer implements annotation.Annotator.ReviewAnswer.
func (g *GeminiAnnotator) ReviewAnswer(ctx context.Context, answerContent, questionContext string) (*annotation.AnswerFeedback, error) {
	if answerContent == "" {
		return nil, fmt.Errorf("%w: empty answer", annotation.ErrInvalidResponse)
	}

	prompt, err := g.renderPrompt(g.answerTemplate, answerPromptData{
		Answer:   answerContent,
		Question: questionContext,
	})
	if err != nil {
		return nil, err
	}

	text, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var feedback annotation.AnswerFeedback
	if err := json.Unmarshal([]byte(text), &feedback); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			annotation.ErrInvalidResponse, err)
	}

	if feedback.Feedback == "" {
		return nil, fmt.Errorf("%w: empty feedback", annotation.ErrInvalidResponse)
	}

	return &feedback, nil
}

func (g *GeminiAnnotator) renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential
// backoff. Permanent errors (blocked content, unparseable responses) are
// returned immediately; transient errors are retried up to MaxRetries times.
func (g *GeminiAnnotator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		text, err := g.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		// Permanent errors are not retried.
		if errors.Is(err, annotation.ErrContentBlocked) || errors.Is(err, annotation.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				annotation.ErrTransientFailure, maxRetries)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", annotation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generate performs a single Gemini API call and returns the response text.
func (g *GeminiAnnotator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", annotation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", annotation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", annotation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", annotation.ErrInvalidResponse)
	}

	return text, nil
}
