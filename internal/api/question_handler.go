package api

import (
	"net/http"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/service"
)

// QuestionHandler handles question HTTP requests: asking, reading, listing
// and the synchronous draft improvement endpoint.
type QuestionHandler struct {
	engagement *service.EngagementService
	drafts     *service.DraftService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(engagement *service.EngagementService, drafts *service.DraftService) *QuestionHandler {
	return &QuestionHandler{
		engagement: engagement,
		drafts:     drafts,
	}
}

// AskQuestion handles POST /communities/{communityID}/questions requests.
func (h *QuestionHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	var req AskQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	question, err := h.engagement.AskQuestion(r.Context(), userID, communityID, req.Title, req.Content, req.Tags)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, question)
}

// GetQuestion handles GET /questions/{questionID} requests. Every read
// counts as a view.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	questionID, ok := parseIDParam(w, r, "questionID")
	if !ok {
		return
	}

	question, err := h.engagement.GetQuestion(r.Context(), questionID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, question)
}

// ListQuestions handles GET /communities/{communityID}/questions requests.
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	limit, offset := paginationParams(r, 20)

	questions, err := h.engagement.ListQuestions(r.Context(), communityID, limit, offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, questions)
}

// ListAnswers handles GET /questions/{questionID}/answers requests.
func (h *QuestionHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	questionID, ok := parseIDParam(w, r, "questionID")
	if !ok {
		return
	}

	answers, err := h.engagement.ListAnswers(r.Context(), questionID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answers)
}

// ImproveDraft handles POST /questions/improve-draft requests. The response
// is always 200: when the AI collaborator is unavailable the improvement is
// simply empty.
func (h *QuestionHandler) ImproveDraft(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req ImproveDraftRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	improvement := h.drafts.ImproveDraft(r.Context(), req.Title, req.Content)
	shared.RespondWithJSON(w, r, http.StatusOK, improvement)
}
