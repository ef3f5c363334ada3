package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

// MembershipService owns the community roster workflows: creating
// communities, the join-request and invite state machines, leaving, and
// mentor promotion. Roster mutations and their bookkeeping run inside a
// single transaction per operation.
type MembershipService struct {
	db           *sql.DB
	users        store.UserStore
	communities  store.CommunityStore
	joinRequests store.JoinRequestStore
	invites      store.InviteStore
	logger       *slog.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	db *sql.DB,
	users store.UserStore,
	communities store.CommunityStore,
	joinRequests store.JoinRequestStore,
	invites store.InviteStore,
	logger *slog.Logger,
) *MembershipService {
	if logger == nil {
		logger = slog.Default()
	}

	return &MembershipService{
		db:           db,
		users:        users,
		communities:  communities,
		joinRequests: joinRequests,
		invites:      invites,
		logger:       logger.With(slog.String("component", "membership_service")),
	}
}

// CreateCommunity creates a community with the actor as owner. The owner
// joins the member roster in the same transaction, so owner ∈ members holds
// from the first moment the community exists.
func (s *MembershipService) CreateCommunity(ctx context.Context, ownerID uuid.UUID, name, description string, isPrivate bool) (*domain.Community, error) {
	community, err := domain.NewCommunity(name, description, ownerID)
	if err != nil {
		return nil, err
	}
	community.IsPrivate = isPrivate

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCommunities := s.communities.WithTx(tx)
		if err := txCommunities.Create(ctx, community); err != nil {
			return err
		}
		return txCommunities.AddMember(ctx, community.ID, ownerID)
	})
	if err != nil {
		return nil, wrapError("create_community", "failed to create community", err)
	}

	s.logger.Info("community created",
		slog.String("community_id", community.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return community, nil
}

// GetCommunity retrieves a community by ID.
func (s *MembershipService) GetCommunity(ctx context.Context, id uuid.UUID) (*domain.Community, error) {
	community, err := s.communities.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("get_community", "failed to retrieve community", err)
	}
	return community, nil
}

// JoinByInviteCode adds the user to the community matching the invite code.
// The code works as a shared secret, so no join request or email invite is
// needed.
func (s *MembershipService) JoinByInviteCode(ctx context.Context, code string, userID uuid.UUID) (*domain.Community, error) {
	community, err := s.communities.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, wrapError("join_by_invite_code", "failed to look up invite code", err)
	}

	isMember, err := s.communities.IsMember(ctx, community.ID, userID)
	if err != nil {
		return nil, wrapError("join_by_invite_code", "failed to check membership", err)
	}
	if isMember {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.communities.AddMember(ctx, community.ID, userID); err != nil {
		return nil, wrapError("join_by_invite_code", "failed to add member", err)
	}

	s.logger.Info("user joined via invite code",
		slog.String("community_id", community.ID.String()),
		slog.String("user_id", userID.String()))
	return community, nil
}

// RequestJoin files a pending join request for the user. Members cannot
// request to join again, and at most one pending request per (community,
// user) pair exists; a concurrent duplicate loses on the partial unique
// index and surfaces as ErrDuplicateJoinRequest.
func (s *MembershipService) RequestJoin(ctx context.Context, communityID, userID uuid.UUID, message string) (*domain.JoinRequest, error) {
	if _, err := s.communities.GetByID(ctx, communityID); err != nil {
		return nil, wrapError("request_join", "failed to retrieve community", err)
	}

	isMember, err := s.communities.IsMember(ctx, communityID, userID)
	if err != nil {
		return nil, wrapError("request_join", "failed to check membership", err)
	}
	if isMember {
		return nil, domain.ErrAlreadyMember
	}

	request, err := domain.NewJoinRequest(communityID, userID, message)
	if err != nil {
		return nil, err
	}

	if err := s.joinRequests.Create(ctx, request); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, domain.ErrDuplicateJoinRequest
		}
		return nil, wrapError("request_join", "failed to create join request", err)
	}

	s.logger.Info("join request created",
		slog.String("request_id", request.ID.String()),
		slog.String("community_id", communityID.String()),
		slog.String("user_id", userID.String()))
	return request, nil
}

// ReviewJoinRequest resolves a pending join request. Only the community
// owner may review. The pending row is locked for the duration of the
// transaction, so a request resolves exactly once: the second of two
// concurrent reviews finds no pending row and gets ErrJoinRequestNotFound.
func (s *MembershipService) ReviewJoinRequest(ctx context.Context, communityID, requestID, reviewerID uuid.UUID, approve bool) (*domain.JoinRequest, error) {
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return nil, wrapError("review_join_request", "failed to retrieve community", err)
	}

	if community.OwnerID != reviewerID {
		return nil, domain.ErrForbidden
	}

	var request *domain.JoinRequest
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txRequests := s.joinRequests.WithTx(tx)

		request, err = txRequests.GetPendingForUpdate(ctx, requestID, communityID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if approve {
			if err := request.Approve(reviewerID, now); err != nil {
				return err
			}
		} else {
			if err := request.Reject(reviewerID, now); err != nil {
				return err
			}
		}

		if err := txRequests.Update(ctx, request); err != nil {
			return err
		}

		if approve {
			return s.communities.WithTx(tx).AddMember(ctx, communityID, request.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("review_join_request", "failed to review join request", err)
	}

	s.logger.Info("join request reviewed",
		slog.String("request_id", requestID.String()),
		slog.String("community_id", communityID.String()),
		slog.String("status", string(request.Status)))
	return request, nil
}

// ListPendingRequests returns the community's pending join requests. Only
// the owner may list them.
func (s *MembershipService) ListPendingRequests(ctx context.Context, communityID, actorID uuid.UUID) ([]*domain.JoinRequest, error) {
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return nil, wrapError("list_pending_requests", "failed to retrieve community", err)
	}

	if community.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	requests, err := s.joinRequests.ListPending(ctx, communityID)
	if err != nil {
		return nil, wrapError("list_pending_requests", "failed to list pending requests", err)
	}
	return requests, nil
}

// Leave removes the user from the community roster. The owner can never
// leave their own community. Mentor status is community-scoped: the mentor
// row cascades away with the membership, and the user's global mentor flag
// is re-derived in the same transaction.
func (s *MembershipService) Leave(ctx context.Context, communityID, userID uuid.UUID) error {
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return wrapError("leave", "failed to retrieve community", err)
	}

	if community.OwnerID == userID {
		return domain.ErrOwnerCannotLeave
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCommunities := s.communities.WithTx(tx)

		if err := txCommunities.RemoveMember(ctx, communityID, userID); err != nil {
			return err
		}
		return s.rederiveMentorFlag(ctx, txCommunities, s.users.WithTx(tx), userID)
	})
	if err != nil {
		return wrapError("leave", "failed to leave community", err)
	}

	s.logger.Info("user left community",
		slog.String("community_id", communityID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// PromoteMentor grants the target mentor status in the community. Only the
// owner may promote, and only members can become mentors.
func (s *MembershipService) PromoteMentor(ctx context.Context, communityID, actorID, targetID uuid.UUID) error {
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return wrapError("promote_mentor", "failed to retrieve community", err)
	}

	if community.OwnerID != actorID {
		return domain.ErrForbidden
	}

	isMember, err := s.communities.IsMember(ctx, communityID, targetID)
	if err != nil {
		return wrapError("promote_mentor", "failed to check membership", err)
	}
	if !isMember {
		return domain.ErrNotAMember
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.communities.WithTx(tx).AddMentor(ctx, communityID, targetID); err != nil {
			return err
		}
		return s.users.WithTx(tx).SetMentorFlag(ctx, targetID, true)
	})
	if err != nil {
		return wrapError("promote_mentor", "failed to promote mentor", err)
	}

	s.logger.Info("mentor promoted",
		slog.String("community_id", communityID.String()),
		slog.String("target_id", targetID.String()))
	return nil
}

// DemoteMentor revokes the target's mentor status in the community. Only
// the owner may demote; demoting a non-mentor is a no-op. The global mentor
// flag is re-derived across all remaining mentorships in the same
// transaction.
func (s *MembershipService) DemoteMentor(ctx context.Context, communityID, actorID, targetID uuid.UUID) error {
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return wrapError("demote_mentor", "failed to retrieve community", err)
	}

	if community.OwnerID != actorID {
		return domain.ErrForbidden
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCommunities := s.communities.WithTx(tx)

		if err := txCommunities.RemoveMentor(ctx, communityID, targetID); err != nil {
			return err
		}
		return s.rederiveMentorFlag(ctx, txCommunities, s.users.WithTx(tx), targetID)
	})
	if err != nil {
		return wrapError("demote_mentor", "failed to demote mentor", err)
	}

	s.logger.Info("mentor demoted",
		slog.String("community_id", communityID.String()),
		slog.String("target_id", targetID.String()))
	return nil
}

// rederiveMentorFlag recomputes the user's global mentor flag from their
// remaining community mentorships. Recomputation inside the mutating
// transaction keeps the cached flag from drifting.
func (s *MembershipService) rederiveMentorFlag(ctx context.Context, communities store.CommunityStore, users store.UserStore, userID uuid.UUID) error {
	count, err := communities.CountMentorships(ctx, userID)
	if err != nil {
		return err
	}
	return users.SetMentorFlag(ctx, userID, count > 0)
}

// Invite creates an email-addressed invite to the community. Only the owner
// may invite, and at most one open invite per (community, email) exists.
func (s *MembershipService) Invite(ctx context.Context, communityID, actorID uuid.UUID, email string) (*domain.Invite, error) {
	community, err := s.communities.GetByID(ctx, communityID)
	if err != nil {
		return nil, wrapError("invite", "failed to retrieve community", err)
	}

	if community.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	invite, err := domain.NewInvite(communityID, actorID, email)
	if err != nil {
		return nil, err
	}

	exists, err := s.invites.HasUnaccepted(ctx, communityID, invite.Email)
	if err != nil {
		return nil, wrapError("invite", "failed to check for existing invite", err)
	}
	if exists {
		return nil, domain.ErrDuplicateInvite
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, domain.ErrDuplicateInvite
		}
		return nil, wrapError("invite", "failed to create invite", err)
	}

	s.logger.Info("invite created",
		slog.String("invite_id", invite.ID.String()),
		slog.String("community_id", communityID.String()))
	return invite, nil
}

// AcceptInvite accepts an invite on behalf of the user. The user's email
// must match the invite's address (case-insensitive). Acceptance flips the
// invite flag and adds the user to the roster in one transaction; the member
// add is idempotent, so accepting an invite to a community the user already
// joined by other means still succeeds.
func (s *MembershipService) AcceptInvite(ctx context.Context, inviteID, userID uuid.UUID) (*domain.Community, error) {
	invite, err := s.inviteForUser(ctx, "accept_invite", inviteID, userID)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.invites.WithTx(tx).MarkAccepted(ctx, inviteID); err != nil {
			return err
		}
		return s.communities.WithTx(tx).AddMember(ctx, invite.CommunityID, userID)
	})
	if err != nil {
		return nil, wrapError("accept_invite", "failed to accept invite", err)
	}

	s.logger.Info("invite accepted",
		slog.String("invite_id", inviteID.String()),
		slog.String("user_id", userID.String()))

	community, err := s.communities.GetByID(ctx, invite.CommunityID)
	if err != nil {
		return nil, wrapError("accept_invite", "failed to retrieve community", err)
	}
	return community, nil
}

// DeclineInvite declines an invite on behalf of the user, deleting the
// record outright. The learning journal, not the invite table, serves as
// the audit trail.
func (s *MembershipService) DeclineInvite(ctx context.Context, inviteID, userID uuid.UUID) error {
	invite, err := s.inviteForUser(ctx, "decline_invite", inviteID, userID)
	if err != nil {
		return err
	}

	if err := s.invites.Delete(ctx, invite.ID); err != nil {
		return wrapError("decline_invite", "failed to delete invite", err)
	}

	s.logger.Info("invite declined",
		slog.String("invite_id", inviteID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// inviteForUser loads an invite and verifies the acting user is its
// addressee and it has not been accepted yet.
func (s *MembershipService) inviteForUser(ctx context.Context, operation string, inviteID, userID uuid.UUID) (*domain.Invite, error) {
	invite, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, wrapError(operation, "failed to retrieve invite", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapError(operation, "failed to retrieve user", err)
	}

	if !invite.IsFor(user.Email) {
		return nil, domain.ErrEmailMismatch
	}

	if invite.Accepted {
		return nil, domain.ErrInviteAlreadyAccepted
	}

	return invite, nil
}

// ListInvites returns the open invites addressed to the user's email.
func (s *MembershipService) ListInvites(ctx context.Context, userID uuid.UUID) ([]*domain.Invite, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapError("list_invites", "failed to retrieve user", err)
	}

	invites, err := s.invites.ListByEmail(ctx, user.Email)
	if err != nil {
		return nil, wrapError("list_invites", "failed to list invites", err)
	}
	return invites, nil
}

// ListMembers returns the community's members.
func (s *MembershipService) ListMembers(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error) {
	users, err := s.communities.ListMembers(ctx, communityID)
	if err != nil {
		return nil, wrapError("list_members", "failed to list members", err)
	}
	return users, nil
}

// ListMentors returns the community's mentors.
func (s *MembershipService) ListMentors(ctx context.Context, communityID uuid.UUID) ([]*domain.User, error) {
	users, err := s.communities.ListMentors(ctx, communityID)
	if err != nil {
		return nil, wrapError("list_mentors", "failed to list mentors", err)
	}
	return users, nil
}
