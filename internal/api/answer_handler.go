package api

import (
	"net/http"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/service"
)

// AnswerHandler handles answer HTTP requests: submitting, voting, acceptance
// and mentor verification.
type AnswerHandler struct {
	engagement *service.EngagementService
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(engagement *service.EngagementService) *AnswerHandler {
	return &AnswerHandler{engagement: engagement}
}

// SubmitAnswer handles POST /questions/{questionID}/answers requests.
func (h *AnswerHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	questionID, ok := parseIDParam(w, r, "questionID")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answer, err := h.engagement.SubmitAnswer(r.Context(), userID, questionID, req.Content, req.ConfidenceLevel)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, answer)
}

// Vote handles POST /answers/{answerID}/vote requests. Voting the same
// direction twice retracts the vote; the opposite direction replaces it.
func (h *AnswerHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	answerID, ok := parseIDParam(w, r, "answerID")
	if !ok {
		return
	}

	var req VoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	score, err := h.engagement.Vote(r.Context(), answerID, userID, domain.VoteDirection(req.Direction))
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VoteResponse{
		AnswerID: answerID,
		Score:    score,
	})
}

// AcceptAnswer handles POST /answers/{answerID}/accept requests.
func (h *AnswerHandler) AcceptAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	answerID, ok := parseIDParam(w, r, "answerID")
	if !ok {
		return
	}

	answer, err := h.engagement.AcceptAnswer(r.Context(), answerID, userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answer)
}

// VerifyAnswer handles POST /answers/{answerID}/verify requests.
func (h *AnswerHandler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	answerID, ok := parseIDParam(w, r, "answerID")
	if !ok {
		return
	}

	answer, err := h.engagement.VerifyAnswer(r.Context(), answerID, userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answer)
}
