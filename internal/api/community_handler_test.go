package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/domain"
)

func TestCommunityHandlerCreateCommunity(t *testing.T) {
	t.Run("creates and returns the community", func(t *testing.T) {
		f := newHandlerFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		handler := NewCommunityHandler(f.memberships)
		f.allowTx()

		req := newRequest(t, http.MethodPost, "/api/communities", CreateCommunityRequest{
			Name:        "Go Learners",
			Description: "learning together",
			IsPrivate:   true,
		}, owner.ID, nil)
		rec := httptest.NewRecorder()
		handler.CreateCommunity(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		community := decodeBody[domain.Community](t, rec)
		assert.Equal(t, owner.ID, community.OwnerID)
		assert.NotEmpty(t, community.InviteCode)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		f := newHandlerFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		handler := NewCommunityHandler(f.memberships)

		req := newRequest(t, http.MethodPost, "/api/communities",
			CreateCommunityRequest{Name: ""}, owner.ID, nil)
		rec := httptest.NewRecorder()
		handler.CreateCommunity(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCommunityHandlerGetCommunity(t *testing.T) {
	t.Run("invalid UUID parameter", func(t *testing.T) {
		f := newHandlerFixture(t)
		user := f.seedUser(t, "user@example.com")
		handler := NewCommunityHandler(f.memberships)

		req := newRequest(t, http.MethodGet, "/api/communities/not-a-uuid", nil, user.ID,
			map[string]string{"communityID": "not-a-uuid"})
		rec := httptest.NewRecorder()
		handler.GetCommunity(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid communityID format")
	})

	t.Run("unknown community", func(t *testing.T) {
		f := newHandlerFixture(t)
		user := f.seedUser(t, "user@example.com")
		handler := NewCommunityHandler(f.memberships)

		req := newRequest(t, http.MethodGet, "/api/communities/"+uuid.NewString(), nil, user.ID,
			map[string]string{"communityID": uuid.NewString()})
		rec := httptest.NewRecorder()
		handler.GetCommunity(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Community not found")
	})
}

func TestCommunityHandlerJoinByCode(t *testing.T) {
	f := newHandlerFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	joiner := f.seedUser(t, "joiner@example.com")
	community := f.seedCommunity(t, owner.ID)
	handler := NewCommunityHandler(f.memberships)

	req := newRequest(t, http.MethodPost, "/api/communities/join",
		JoinByCodeRequest{InviteCode: community.InviteCode}, joiner.ID, nil)
	rec := httptest.NewRecorder()
	handler.JoinByCode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[domain.Community](t, rec)
	assert.Equal(t, community.ID, got.ID)
}

func TestCommunityHandlerJoinRequestFlow(t *testing.T) {
	f := newHandlerFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	requester := f.seedUser(t, "requester@example.com")
	community := f.seedCommunity(t, owner.ID)
	handler := NewCommunityHandler(f.memberships)
	params := map[string]string{"communityID": community.ID.String()}
	f.allowTx()

	// File the request.
	req := newRequest(t, http.MethodPost, "/api/communities/"+community.ID.String()+"/join-requests",
		JoinRequestRequest{Message: "please"}, requester.ID, params)
	rec := httptest.NewRecorder()
	handler.RequestJoin(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	request := decodeBody[domain.JoinRequest](t, rec)
	assert.Equal(t, domain.JoinRequestPending, request.Status)

	// A second pending request conflicts.
	req = newRequest(t, http.MethodPost, "/api/communities/"+community.ID.String()+"/join-requests",
		JoinRequestRequest{}, requester.ID, params)
	rec = httptest.NewRecorder()
	handler.RequestJoin(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The owner approves it.
	reviewParams := map[string]string{
		"communityID": community.ID.String(),
		"requestID":   request.ID.String(),
	}
	req = newRequest(t, http.MethodPost, "/review", ReviewJoinRequest{Action: "approve"}, owner.ID, reviewParams)
	rec = httptest.NewRecorder()
	handler.ReviewJoinRequest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	reviewed := decodeBody[domain.JoinRequest](t, rec)
	assert.Equal(t, domain.JoinRequestApproved, reviewed.Status)

	// A non-owner reviewer is rejected.
	req = newRequest(t, http.MethodPost, "/review", ReviewJoinRequest{Action: "reject"}, requester.ID, reviewParams)
	rec = httptest.NewRecorder()
	handler.ReviewJoinRequest(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An action outside the enum never reaches the service.
	req = newRequest(t, http.MethodPost, "/review", ReviewJoinRequest{Action: "maybe"}, owner.ID, reviewParams)
	rec = httptest.NewRecorder()
	handler.ReviewJoinRequest(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommunityHandlerLeave(t *testing.T) {
	t.Run("member leaves", func(t *testing.T) {
		f := newHandlerFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		member := f.seedUser(t, "member@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMember(community.ID, member.ID)
		handler := NewCommunityHandler(f.memberships)
		f.allowTx()

		req := newRequest(t, http.MethodPost, "/leave", nil, member.ID,
			map[string]string{"communityID": community.ID.String()})
		rec := httptest.NewRecorder()
		handler.Leave(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("owner cannot leave", func(t *testing.T) {
		f := newHandlerFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		community := f.seedCommunity(t, owner.ID)
		handler := NewCommunityHandler(f.memberships)

		req := newRequest(t, http.MethodPost, "/leave", nil, owner.ID,
			map[string]string{"communityID": community.ID.String()})
		rec := httptest.NewRecorder()
		handler.Leave(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "owner cannot leave")
	})
}

func TestCommunityHandlerMentors(t *testing.T) {
	f := newHandlerFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	member := f.seedUser(t, "member@example.com")
	community := f.seedCommunity(t, owner.ID)
	f.communities.SeedMember(community.ID, member.ID)
	handler := NewCommunityHandler(f.memberships)
	params := map[string]string{"communityID": community.ID.String()}
	f.allowTx()

	// Promote.
	req := newRequest(t, http.MethodPost, "/mentors", MentorRequest{UserID: member.ID}, owner.ID, params)
	rec := httptest.NewRecorder()
	handler.PromoteMentor(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The mentor list now contains the member.
	req = newRequest(t, http.MethodGet, "/mentors", nil, owner.ID, params)
	rec = httptest.NewRecorder()
	handler.ListMentors(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	mentors := decodeBody[[]domain.User](t, rec)
	require.Len(t, mentors, 1)
	assert.Equal(t, member.ID, mentors[0].ID)

	// Promoting a non-member is rejected.
	req = newRequest(t, http.MethodPost, "/mentors", MentorRequest{UserID: uuid.New()}, owner.ID, params)
	rec = httptest.NewRecorder()
	handler.PromoteMentor(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Demote.
	demoteParams := map[string]string{
		"communityID": community.ID.String(),
		"userID":      member.ID.String(),
	}
	req = newRequest(t, http.MethodDelete, "/mentors/"+member.ID.String(), nil, owner.ID, demoteParams)
	rec = httptest.NewRecorder()
	handler.DemoteMentor(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCommunityHandlerInvite(t *testing.T) {
	f := newHandlerFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	community := f.seedCommunity(t, owner.ID)
	handler := NewCommunityHandler(f.memberships)
	params := map[string]string{"communityID": community.ID.String()}

	req := newRequest(t, http.MethodPost, "/invites", InviteRequest{Email: "Friend@Example.com"}, owner.ID, params)
	rec := httptest.NewRecorder()
	handler.Invite(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	invite := decodeBody[domain.Invite](t, rec)
	assert.Equal(t, "friend@example.com", invite.Email)

	// Open invite for the same address conflicts.
	req = newRequest(t, http.MethodPost, "/invites", InviteRequest{Email: "friend@example.com"}, owner.ID, params)
	rec = httptest.NewRecorder()
	handler.Invite(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
