package api

import (
	"net/http"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/service"
)

// CommunityHandler handles community and membership HTTP requests: creation,
// joining, the join-request review workflow, mentor promotion and invites.
type CommunityHandler struct {
	memberships *service.MembershipService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(memberships *service.MembershipService) *CommunityHandler {
	return &CommunityHandler{memberships: memberships}
}

// CreateCommunity handles POST /communities requests.
func (h *CommunityHandler) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateCommunityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	community, err := h.memberships.CreateCommunity(r.Context(), userID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, community)
}

// GetCommunity handles GET /communities/{communityID} requests.
func (h *CommunityHandler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	community, err := h.memberships.GetCommunity(r.Context(), communityID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, community)
}

// JoinByCode handles POST /communities/join requests. The invite code acts
// as a shared secret, so no review step is involved.
func (h *CommunityHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req JoinByCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	community, err := h.memberships.JoinByInviteCode(r.Context(), req.InviteCode, userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, community)
}

// RequestJoin handles POST /communities/{communityID}/join-requests.
func (h *CommunityHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	var req JoinRequestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.memberships.RequestJoin(r.Context(), communityID, userID, req.Message)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, request)
}

// ListJoinRequests handles GET /communities/{communityID}/join-requests.
// Only the community owner sees the pending queue.
func (h *CommunityHandler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	requests, err := h.memberships.ListPendingRequests(r.Context(), communityID, userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, requests)
}

// ReviewJoinRequest handles POST /communities/{communityID}/join-requests/{requestID}/review.
func (h *CommunityHandler) ReviewJoinRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	requestID, ok := parseIDParam(w, r, "requestID")
	if !ok {
		return
	}

	var req ReviewJoinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.memberships.ReviewJoinRequest(r.Context(), communityID, requestID, userID, req.Action == "approve")
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, request)
}

// Leave handles POST /communities/{communityID}/leave requests.
func (h *CommunityHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	if err := h.memberships.Leave(r.Context(), communityID, userID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles GET /communities/{communityID}/members requests.
func (h *CommunityHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	members, err := h.memberships.ListMembers(r.Context(), communityID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, members)
}

// ListMentors handles GET /communities/{communityID}/mentors requests.
func (h *CommunityHandler) ListMentors(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	mentors, err := h.memberships.ListMentors(r.Context(), communityID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, mentors)
}

// PromoteMentor handles POST /communities/{communityID}/mentors requests.
func (h *CommunityHandler) PromoteMentor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	var req MentorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.memberships.PromoteMentor(r.Context(), communityID, userID, req.UserID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DemoteMentor handles DELETE /communities/{communityID}/mentors/{userID}.
func (h *CommunityHandler) DemoteMentor(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	targetID, ok := parseIDParam(w, r, "userID")
	if !ok {
		return
	}

	if err := h.memberships.DemoteMentor(r.Context(), communityID, actorID, targetID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Invite handles POST /communities/{communityID}/invites requests.
func (h *CommunityHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	communityID, ok := parseIDParam(w, r, "communityID")
	if !ok {
		return
	}

	var req InviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invite, err := h.memberships.Invite(r.Context(), communityID, userID, req.Email)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, invite)
}
