package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JoinRequestStatus represents the state of a community join request.
type JoinRequestStatus string

// Join request states. Pending is the only non-terminal state; approved and
// rejected are final and may never change again.
const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// Join request validation errors
var (
	ErrJoinRequestIDEmpty        = errors.New("join request ID cannot be empty")
	ErrJoinRequestCommunityEmpty = errors.New("join request community cannot be empty")
	ErrJoinRequestUserEmpty      = errors.New("join request user cannot be empty")
	ErrJoinRequestMessageTooLong = errors.New("join request message cannot exceed 500 characters")
	ErrInvalidJoinRequestStatus  = errors.New("invalid join request status")
	ErrEmptyReviewer             = errors.New("reviewer cannot be empty")
)

// JoinRequest is an approval-gated request by a user to join a community.
// At most one pending request may exist per (community, user) pair; the
// database enforces this with a partial unique index.
type JoinRequest struct {
	ID          uuid.UUID         `json:"id"`
	CommunityID uuid.UUID         `json:"community_id"`
	UserID      uuid.UUID         `json:"user_id"`
	Status      JoinRequestStatus `json:"status"`
	Message     string            `json:"message"`
	ReviewedBy  *uuid.UUID        `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewJoinRequest creates a pending JoinRequest with an optional message.
func NewJoinRequest(communityID, userID uuid.UUID, message string) (*JoinRequest, error) {
	request := &JoinRequest{
		ID:          uuid.New(),
		CommunityID: communityID,
		UserID:      userID,
		Status:      JoinRequestPending,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	return request, nil
}

// Validate checks if the JoinRequest has valid data.
func (r *JoinRequest) Validate() error {
	if r.ID == uuid.Nil {
		return ErrJoinRequestIDEmpty
	}

	if r.CommunityID == uuid.Nil {
		return ErrJoinRequestCommunityEmpty
	}

	if r.UserID == uuid.Nil {
		return ErrJoinRequestUserEmpty
	}

	if len(r.Message) > 500 {
		return ErrJoinRequestMessageTooLong
	}

	switch r.Status {
	case JoinRequestPending, JoinRequestApproved, JoinRequestRejected:
	default:
		return ErrInvalidJoinRequestStatus
	}

	return nil
}

// IsPending reports whether the request has not been reviewed yet.
func (r *JoinRequest) IsPending() bool {
	return r.Status == JoinRequestPending
}

// Approve transitions the request to the approved terminal state, stamping
// the reviewer and review time. Returns ErrRequestAlreadyReviewed if the
// request has already left the pending state.
func (r *JoinRequest) Approve(reviewer uuid.UUID, at time.Time) error {
	return r.review(JoinRequestApproved, reviewer, at)
}

// Reject transitions the request to the rejected terminal state, stamping
// the reviewer and review time. Returns ErrRequestAlreadyReviewed if the
// request has already left the pending state.
func (r *JoinRequest) Reject(reviewer uuid.UUID, at time.Time) error {
	return r.review(JoinRequestRejected, reviewer, at)
}

func (r *JoinRequest) review(status JoinRequestStatus, reviewer uuid.UUID, at time.Time) error {
	if reviewer == uuid.Nil {
		return ErrEmptyReviewer
	}

	if !r.IsPending() {
		return ErrRequestAlreadyReviewed
	}

	r.Status = status
	r.ReviewedBy = &reviewer
	reviewedAt := at.UTC()
	r.ReviewedAt = &reviewedAt
	return nil
}
