package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/domain"
)

func TestInviteHandlerListInvites(t *testing.T) {
	f := newHandlerFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	invitee := f.seedUser(t, "invitee@example.com")
	community := f.seedCommunity(t, owner.ID)
	handler := NewInviteHandler(f.memberships)

	mine, err := domain.NewInvite(community.ID, owner.ID, invitee.Email)
	require.NoError(t, err)
	f.invites.Add(mine)
	other, err := domain.NewInvite(community.ID, owner.ID, "someone.else@example.com")
	require.NoError(t, err)
	f.invites.Add(other)

	req := newRequest(t, http.MethodGet, "/api/invites", nil, invitee.ID, nil)
	rec := httptest.NewRecorder()
	handler.ListInvites(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	invites := decodeBody[[]domain.Invite](t, rec)
	require.Len(t, invites, 1)
	assert.Equal(t, mine.ID, invites[0].ID)
}

func TestInviteHandlerAcceptInvite(t *testing.T) {
	t.Run("joins and returns the community", func(t *testing.T) {
		f := newHandlerFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		invitee := f.seedUser(t, "invitee@example.com")
		community := f.seedCommunity(t, owner.ID)
		handler := NewInviteHandler(f.memberships)
		f.allowTx()

		invite, err := domain.NewInvite(community.ID, owner.ID, invitee.Email)
		require.NoError(t, err)
		f.invites.Add(invite)

		req := newRequest(t, http.MethodPost, "/accept", nil, invitee.ID,
			map[string]string{"inviteID": invite.ID.String()})
		rec := httptest.NewRecorder()
		handler.AcceptInvite(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		joined := decodeBody[domain.Community](t, rec)
		assert.Equal(t, community.ID, joined.ID)
	})

	t.Run("email mismatch is forbidden", func(t *testing.T) {
		f := newHandlerFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		interloper := f.seedUser(t, "interloper@example.com")
		community := f.seedCommunity(t, owner.ID)
		handler := NewInviteHandler(f.memberships)
		f.allowTx()

		invite, err := domain.NewInvite(community.ID, owner.ID, "invitee@example.com")
		require.NoError(t, err)
		f.invites.Add(invite)

		req := newRequest(t, http.MethodPost, "/accept", nil, interloper.ID,
			map[string]string{"inviteID": invite.ID.String()})
		rec := httptest.NewRecorder()
		handler.AcceptInvite(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestInviteHandlerDeclineInvite(t *testing.T) {
	f := newHandlerFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	invitee := f.seedUser(t, "invitee@example.com")
	community := f.seedCommunity(t, owner.ID)
	handler := NewInviteHandler(f.memberships)

	invite, err := domain.NewInvite(community.ID, owner.ID, invitee.Email)
	require.NoError(t, err)
	f.invites.Add(invite)

	req := newRequest(t, http.MethodPost, "/decline", nil, invitee.ID,
		map[string]string{"inviteID": invite.ID.String()})
	rec := httptest.NewRecorder()
	handler.DeclineInvite(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The invite no longer shows up for the invitee.
	req = newRequest(t, http.MethodGet, "/api/invites", nil, invitee.ID, nil)
	rec = httptest.NewRecorder()
	handler.ListInvites(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]domain.Invite](t, rec))
}
