package api

import (
	"net/http"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/service"
)

// JournalHandler handles learning journal HTTP requests.
type JournalHandler struct {
	journal *service.JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journal *service.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

// ListEntries handles GET /journal requests, returning the authenticated
// user's journal entries newest first.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, offset := paginationParams(r, 50)

	entries, err := h.journal.ListEntries(r.Context(), userID, limit, offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// Summary handles GET /journal/summary requests, returning the journal
// aggregates and the derived reputation score.
func (h *JournalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.journal.Summary(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
