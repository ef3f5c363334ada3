package api

import (
	"net/http"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/service"
)

// InviteHandler handles the invitee's side of email invites: listing the
// invites addressed to them, accepting and declining.
type InviteHandler struct {
	memberships *service.MembershipService
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(memberships *service.MembershipService) *InviteHandler {
	return &InviteHandler{memberships: memberships}
}

// ListInvites handles GET /invites requests, returning the open invites
// addressed to the authenticated user's email.
func (h *InviteHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	invites, err := h.memberships.ListInvites(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, invites)
}

// AcceptInvite handles POST /invites/{inviteID}/accept requests, returning
// the community the user just joined.
func (h *InviteHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	inviteID, ok := parseIDParam(w, r, "inviteID")
	if !ok {
		return
	}

	community, err := h.memberships.AcceptInvite(r.Context(), inviteID, userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, community)
}

// DeclineInvite handles POST /invites/{inviteID}/decline requests.
func (h *InviteHandler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	inviteID, ok := parseIDParam(w, r, "inviteID")
	if !ok {
		return
	}

	if err := h.memberships.DeclineInvite(r.Context(), inviteID, userID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
