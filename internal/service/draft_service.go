package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/stackit/stackit-api/internal/annotation"
)

// DraftService offers synchronous, on-demand AI improvement of a question
// draft before it is posted. Unlike the background annotation pipeline it is
// called in the request path, so the call is tightly time-bounded and any
// failure degrades to an empty suggestion rather than an error.
type DraftService struct {
	annotator annotation.Annotator
	timeout   time.Duration
	logger    *slog.Logger
}

// NewDraftService creates a new DraftService. annotator may be nil when no
// AI collaborator is configured; every improvement is then empty.
func NewDraftService(annotator annotation.Annotator, timeout time.Duration, logger *slog.Logger) *DraftService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftService{
		annotator: annotator,
		timeout:   timeout,
		logger:    logger.With(slog.String("component", "draft_service")),
	}
}

// ImproveDraft asks the AI collaborator for a clearer version of the draft.
// It never fails: when the annotator is missing, times out, or errors, the
// returned improvement is simply empty.
func (s *DraftService) ImproveDraft(ctx context.Context, title, content string) *annotation.QuestionImprovement {
	if s.annotator == nil {
		return &annotation.QuestionImprovement{}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	improvement, err := s.annotator.ImproveQuestion(callCtx, title, content)
	if err != nil {
		s.logger.Warn("draft improvement unavailable",
			slog.String("error", err.Error()))
		return &annotation.QuestionImprovement{}
	}

	return improvement
}
