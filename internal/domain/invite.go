package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Invite validation errors
var (
	ErrInviteIDEmpty        = errors.New("invite ID cannot be empty")
	ErrInviteCommunityEmpty = errors.New("invite community cannot be empty")
	ErrInviteSenderEmpty    = errors.New("invite sender cannot be empty")
)

// Invite is an email-addressed invitation into a community. It is not bound
// to a user identity until acceptance, when the accepting user's email is
// matched against the invite. Declining deletes the invite outright; the
// learning journal, not the invite table, is the audit trail.
type Invite struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	InvitedBy   uuid.UUID `json:"invited_by"`
	Email       string    `json:"email"`
	Accepted    bool      `json:"accepted"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewInvite creates an Invite to the given community for the given email.
// The email is normalized to lower case so acceptance matching is
// case-insensitive.
func NewInvite(communityID, invitedBy uuid.UUID, email string) (*Invite, error) {
	invite := &Invite{
		ID:          uuid.New(),
		CommunityID: communityID,
		InvitedBy:   invitedBy,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		CreatedAt:   time.Now().UTC(),
	}

	if err := invite.Validate(); err != nil {
		return nil, err
	}

	return invite, nil
}

// Validate checks if the Invite has valid data.
func (i *Invite) Validate() error {
	if i.ID == uuid.Nil {
		return ErrInviteIDEmpty
	}

	if i.CommunityID == uuid.Nil {
		return ErrInviteCommunityEmpty
	}

	if i.InvitedBy == uuid.Nil {
		return ErrInviteSenderEmpty
	}

	if !validateEmailFormat(i.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// IsFor reports whether the invite is addressed to the given email,
// ignoring case.
func (i *Invite) IsFor(email string) bool {
	return i.Email == strings.ToLower(strings.TrimSpace(email))
}
