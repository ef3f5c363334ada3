package service

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/mocks"
)

// membershipFixture wires a MembershipService against in-memory stores and a
// sqlmock database that supplies the transaction boundaries.
type membershipFixture struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	users        *mocks.MockUserStore
	communities  *mocks.MockCommunityStore
	joinRequests *mocks.MockJoinRequestStore
	invites      *mocks.MockInviteStore
	service      *MembershipService
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := mocks.NewMockUserStore()
	communities := mocks.NewMockCommunityStore()
	communities.UserSource = users
	joinRequests := mocks.NewMockJoinRequestStore()
	invites := mocks.NewMockInviteStore()

	return &membershipFixture{
		db:           db,
		sqlMock:      sqlMock,
		users:        users,
		communities:  communities,
		joinRequests: joinRequests,
		invites:      invites,
		service:      NewMembershipService(db, users, communities, joinRequests, invites, slog.Default()),
	}
}

// expectTx registers expectations for one committed transaction.
func (f *membershipFixture) expectTx() {
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()
}

// expectRolledBackTx registers expectations for one rolled-back transaction.
func (f *membershipFixture) expectRolledBackTx() {
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()
}

func (f *membershipFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("user-"+uuid.NewString()[:8], email, "a long enough password")
	require.NoError(t, err)
	user.HashedPassword = "hashed"
	user.Password = ""
	f.users.Add(user)
	return user
}

func (f *membershipFixture) seedCommunity(t *testing.T, ownerID uuid.UUID) *domain.Community {
	t.Helper()
	community, err := domain.NewCommunity("Go Learners", "", ownerID)
	require.NoError(t, err)
	f.communities.Add(community)
	f.communities.SeedMember(community.ID, ownerID)
	return community
}

func TestMembershipServiceCreateCommunity(t *testing.T) {
	ctx := context.Background()

	t.Run("owner joins roster atomically", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		f.expectTx()

		community, err := f.service.CreateCommunity(ctx, owner.ID, "Go Learners", "learning together", false)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, community.OwnerID)
		assert.False(t, community.IsPrivate)
		assert.NotEmpty(t, community.InviteCode)

		isMember, err := f.communities.IsMember(ctx, community.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, isMember)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid name fails before any transaction", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")

		_, err := f.service.CreateCommunity(ctx, owner.ID, "", "", true)
		assert.ErrorIs(t, err, domain.ErrCommunityNameEmpty)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}

func TestMembershipServiceJoinByInviteCode(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code adds member", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		joiner := f.seedUser(t, "joiner@example.com")
		community := f.seedCommunity(t, owner.ID)

		got, err := f.service.JoinByInviteCode(ctx, community.InviteCode, joiner.ID)
		require.NoError(t, err)
		assert.Equal(t, community.ID, got.ID)

		isMember, err := f.communities.IsMember(ctx, community.ID, joiner.ID)
		require.NoError(t, err)
		assert.True(t, isMember)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newMembershipFixture(t)
		joiner := f.seedUser(t, "joiner@example.com")

		_, err := f.service.JoinByInviteCode(ctx, "NOPE1234", joiner.ID)
		assert.ErrorIs(t, err, ErrCommunityNotFound)
	})

	t.Run("existing member is rejected", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		community := f.seedCommunity(t, owner.ID)

		_, err := f.service.JoinByInviteCode(ctx, community.InviteCode, owner.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})
}

func TestMembershipServiceRequestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending request", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		requester := f.seedUser(t, "requester@example.com")
		community := f.seedCommunity(t, owner.ID)

		request, err := f.service.RequestJoin(ctx, community.ID, requester.ID, "please")
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestPending, request.Status)
		assert.Equal(t, "please", request.Message)
	})

	t.Run("member cannot request", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		community := f.seedCommunity(t, owner.ID)

		_, err := f.service.RequestJoin(ctx, community.ID, owner.ID, "")
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})

	t.Run("second pending request is a duplicate", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		requester := f.seedUser(t, "requester@example.com")
		community := f.seedCommunity(t, owner.ID)

		_, err := f.service.RequestJoin(ctx, community.ID, requester.ID, "")
		require.NoError(t, err)

		_, err = f.service.RequestJoin(ctx, community.ID, requester.ID, "again")
		assert.ErrorIs(t, err, domain.ErrDuplicateJoinRequest)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown community", func(t *testing.T) {
		f := newMembershipFixture(t)
		requester := f.seedUser(t, "requester@example.com")

		_, err := f.service.RequestJoin(ctx, uuid.New(), requester.ID, "")
		assert.ErrorIs(t, err, ErrCommunityNotFound)
	})
}

func TestMembershipServiceReviewJoinRequest(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*membershipFixture, *domain.Community, *domain.User, *domain.JoinRequest) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		requester := f.seedUser(t, "requester@example.com")
		community := f.seedCommunity(t, owner.ID)

		request, err := domain.NewJoinRequest(community.ID, requester.ID, "")
		require.NoError(t, err)
		f.joinRequests.Add(request)
		return f, community, requester, request
	}

	t.Run("approval adds the member", func(t *testing.T) {
		f, community, requester, request := setup(t)
		f.expectTx()

		reviewed, err := f.service.ReviewJoinRequest(ctx, community.ID, request.ID, community.OwnerID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestApproved, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedBy)
		assert.Equal(t, community.OwnerID, *reviewed.ReviewedBy)

		isMember, err := f.communities.IsMember(ctx, community.ID, requester.ID)
		require.NoError(t, err)
		assert.True(t, isMember)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejection does not add the member", func(t *testing.T) {
		f, community, requester, request := setup(t)
		f.expectTx()

		reviewed, err := f.service.ReviewJoinRequest(ctx, community.ID, request.ID, community.OwnerID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestRejected, reviewed.Status)

		isMember, err := f.communities.IsMember(ctx, community.ID, requester.ID)
		require.NoError(t, err)
		assert.False(t, isMember)
	})

	t.Run("only the owner may review", func(t *testing.T) {
		f, community, requester, request := setup(t)

		_, err := f.service.ReviewJoinRequest(ctx, community.ID, request.ID, requester.ID, true)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("reviewed request cannot be reviewed again", func(t *testing.T) {
		f, community, _, request := setup(t)
		f.expectTx()

		_, err := f.service.ReviewJoinRequest(ctx, community.ID, request.ID, community.OwnerID, false)
		require.NoError(t, err)

		// The pending row is gone, so the second review sees nothing to lock.
		f.expectRolledBackTx()
		_, err = f.service.ReviewJoinRequest(ctx, community.ID, request.ID, community.OwnerID, true)
		assert.ErrorIs(t, err, ErrJoinRequestNotFound)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("request scoped to another community is not found", func(t *testing.T) {
		f, _, _, request := setup(t)
		otherOwner := f.seedUser(t, "other@example.com")
		other := f.seedCommunity(t, otherOwner.ID)
		f.expectRolledBackTx()

		_, err := f.service.ReviewJoinRequest(ctx, other.ID, request.ID, otherOwner.ID, true)
		assert.ErrorIs(t, err, ErrJoinRequestNotFound)
	})
}

func TestMembershipServiceListPendingRequests(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	requester := f.seedUser(t, "requester@example.com")
	community := f.seedCommunity(t, owner.ID)

	request, err := domain.NewJoinRequest(community.ID, requester.ID, "")
	require.NoError(t, err)
	f.joinRequests.Add(request)

	requests, err := f.service.ListPendingRequests(ctx, community.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, requests, 1)

	_, err = f.service.ListPendingRequests(ctx, community.ID, requester.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMembershipServiceLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cannot leave", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		community := f.seedCommunity(t, owner.ID)

		err := f.service.Leave(ctx, community.ID, owner.ID)
		assert.ErrorIs(t, err, domain.ErrOwnerCannotLeave)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("leaving drops membership and mentor status", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		member := f.seedUser(t, "member@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMentor(community.ID, member.ID)
		require.NoError(t, f.users.SetMentorFlag(ctx, member.ID, true))
		f.expectTx()

		require.NoError(t, f.service.Leave(ctx, community.ID, member.ID))

		isMember, err := f.communities.IsMember(ctx, community.ID, member.ID)
		require.NoError(t, err)
		assert.False(t, isMember)

		isMentor, err := f.communities.IsMentor(ctx, community.ID, member.ID)
		require.NoError(t, err)
		assert.False(t, isMentor)

		// The global flag is re-derived: no mentorships remain.
		got, err := f.users.GetByID(ctx, member.ID)
		require.NoError(t, err)
		assert.False(t, got.IsMentor)
	})

	t.Run("mentor elsewhere keeps the global flag", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		member := f.seedUser(t, "member@example.com")
		community := f.seedCommunity(t, owner.ID)
		other := f.seedCommunity(t, owner.ID)
		f.communities.SeedMentor(community.ID, member.ID)
		f.communities.SeedMentor(other.ID, member.ID)
		require.NoError(t, f.users.SetMentorFlag(ctx, member.ID, true))
		f.expectTx()

		require.NoError(t, f.service.Leave(ctx, community.ID, member.ID))

		got, err := f.users.GetByID(ctx, member.ID)
		require.NoError(t, err)
		assert.True(t, got.IsMentor)
	})
}

func TestMembershipServicePromoteMentor(t *testing.T) {
	ctx := context.Background()

	t.Run("owner promotes a member", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		member := f.seedUser(t, "member@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMember(community.ID, member.ID)
		f.expectTx()

		require.NoError(t, f.service.PromoteMentor(ctx, community.ID, owner.ID, member.ID))

		isMentor, err := f.communities.IsMentor(ctx, community.ID, member.ID)
		require.NoError(t, err)
		assert.True(t, isMentor)

		got, err := f.users.GetByID(ctx, member.ID)
		require.NoError(t, err)
		assert.True(t, got.IsMentor)
	})

	t.Run("non-owner may not promote", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		member := f.seedUser(t, "member@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMember(community.ID, member.ID)

		err := f.service.PromoteMentor(ctx, community.ID, member.ID, member.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("only members can become mentors", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		outsider := f.seedUser(t, "outsider@example.com")
		community := f.seedCommunity(t, owner.ID)

		err := f.service.PromoteMentor(ctx, community.ID, owner.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrNotAMember)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMembershipServiceDemoteMentor(t *testing.T) {
	ctx := context.Background()

	t.Run("demotion re-derives the global flag", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		mentor := f.seedUser(t, "mentor@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMentor(community.ID, mentor.ID)
		require.NoError(t, f.users.SetMentorFlag(ctx, mentor.ID, true))
		f.expectTx()

		require.NoError(t, f.service.DemoteMentor(ctx, community.ID, owner.ID, mentor.ID))

		isMentor, err := f.communities.IsMentor(ctx, community.ID, mentor.ID)
		require.NoError(t, err)
		assert.False(t, isMentor)

		got, err := f.users.GetByID(ctx, mentor.ID)
		require.NoError(t, err)
		assert.False(t, got.IsMentor)
	})

	t.Run("non-owner may not demote", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		mentor := f.seedUser(t, "mentor@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMentor(community.ID, mentor.ID)

		err := f.service.DemoteMentor(ctx, community.ID, mentor.ID, mentor.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestMembershipServiceInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("owner invites by email", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		community := f.seedCommunity(t, owner.ID)

		invite, err := f.service.Invite(ctx, community.ID, owner.ID, "Friend@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "friend@example.com", invite.Email)
		assert.False(t, invite.Accepted)
	})

	t.Run("non-owner may not invite", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		member := f.seedUser(t, "member@example.com")
		community := f.seedCommunity(t, owner.ID)
		f.communities.SeedMember(community.ID, member.ID)

		_, err := f.service.Invite(ctx, community.ID, member.ID, "friend@example.com")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("open invite for the same email is a duplicate", func(t *testing.T) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		community := f.seedCommunity(t, owner.ID)

		_, err := f.service.Invite(ctx, community.ID, owner.ID, "friend@example.com")
		require.NoError(t, err)

		_, err = f.service.Invite(ctx, community.ID, owner.ID, "FRIEND@example.com")
		assert.ErrorIs(t, err, domain.ErrDuplicateInvite)
	})
}

func TestMembershipServiceAcceptInvite(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*membershipFixture, *domain.Community, *domain.User, *domain.Invite) {
		f := newMembershipFixture(t)
		owner := f.seedUser(t, "owner@example.com")
		invitee := f.seedUser(t, "friend@example.com")
		community := f.seedCommunity(t, owner.ID)

		invite, err := domain.NewInvite(community.ID, owner.ID, "friend@example.com")
		require.NoError(t, err)
		f.invites.Add(invite)
		return f, community, invitee, invite
	}

	t.Run("addressee joins the community", func(t *testing.T) {
		f, community, invitee, invite := setup(t)
		f.expectTx()

		got, err := f.service.AcceptInvite(ctx, invite.ID, invitee.ID)
		require.NoError(t, err)
		assert.Equal(t, community.ID, got.ID)

		isMember, err := f.communities.IsMember(ctx, community.ID, invitee.ID)
		require.NoError(t, err)
		assert.True(t, isMember)

		stored, err := f.invites.GetByID(ctx, invite.ID)
		require.NoError(t, err)
		assert.True(t, stored.Accepted)
	})

	t.Run("wrong addressee is rejected", func(t *testing.T) {
		f, _, _, invite := setup(t)
		stranger := f.seedUser(t, "stranger@example.com")

		_, err := f.service.AcceptInvite(ctx, invite.ID, stranger.ID)
		assert.ErrorIs(t, err, domain.ErrEmailMismatch)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("accepting twice conflicts", func(t *testing.T) {
		f, _, invitee, invite := setup(t)
		f.expectTx()

		_, err := f.service.AcceptInvite(ctx, invite.ID, invitee.ID)
		require.NoError(t, err)

		_, err = f.service.AcceptInvite(ctx, invite.ID, invitee.ID)
		assert.ErrorIs(t, err, domain.ErrInviteAlreadyAccepted)
	})

	t.Run("unknown invite", func(t *testing.T) {
		f, _, invitee, _ := setup(t)

		_, err := f.service.AcceptInvite(ctx, uuid.New(), invitee.ID)
		assert.ErrorIs(t, err, ErrInviteNotFound)
	})
}

func TestMembershipServiceDeclineInvite(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	invitee := f.seedUser(t, "friend@example.com")
	community := f.seedCommunity(t, owner.ID)

	invite, err := domain.NewInvite(community.ID, owner.ID, "friend@example.com")
	require.NoError(t, err)
	f.invites.Add(invite)

	require.NoError(t, f.service.DeclineInvite(ctx, invite.ID, invitee.ID))

	// Declining deletes the record outright.
	_, err = f.invites.GetByID(ctx, invite.ID)
	assert.Error(t, err)

	isMember, err := f.communities.IsMember(ctx, community.ID, invitee.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestMembershipServiceListInvites(t *testing.T) {
	ctx := context.Background()
	f := newMembershipFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	invitee := f.seedUser(t, "friend@example.com")
	community := f.seedCommunity(t, owner.ID)
	other := f.seedCommunity(t, owner.ID)

	first, err := domain.NewInvite(community.ID, owner.ID, "friend@example.com")
	require.NoError(t, err)
	f.invites.Add(first)
	second, err := domain.NewInvite(other.ID, owner.ID, "friend@example.com")
	require.NoError(t, err)
	second.Accepted = true
	f.invites.Add(second)

	invites, err := f.service.ListInvites(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, first.ID, invites[0].ID)
}
