package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Community-specific validation errors
var (
	ErrCommunityIDEmpty      = errors.New("community ID cannot be empty")
	ErrCommunityNameEmpty    = errors.New("community name cannot be empty")
	ErrCommunityNameTooLong  = errors.New("community name cannot exceed 100 characters")
	ErrCommunityOwnerEmpty   = errors.New("community owner cannot be empty")
	ErrCommunityCodeEmpty    = errors.New("community invite code cannot be empty")
	ErrDescriptionTooLong    = errors.New("community description cannot exceed 500 characters")
)

// Community is a bounded group with exactly one owner, a member roster and an
// optional mentor subset. The owner is immutable once set and is always a
// member; mentors are always members. Those two invariants are enforced by
// the membership service on every roster mutation.
//
// TotalQuestions and TotalAnswers are running counters incremented with
// atomic SQL updates, never read-modify-write.
type Community struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	IsPrivate   bool      `json:"is_private"`
	InviteCode  string    `json:"invite_code"`

	TotalQuestions int `json:"total_questions"`
	TotalAnswers   int `json:"total_answers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCommunity creates a new private Community owned by ownerID, generating
// an invite code. The caller must add the owner to the member roster in the
// same transaction that persists the community.
func NewCommunity(name, description string, ownerID uuid.UUID) (*Community, error) {
	community := &Community{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsPrivate:   true,
		InviteCode:  generateInviteCode(),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := community.Validate(); err != nil {
		return nil, err
	}

	return community, nil
}

// Validate checks if the Community has valid data.
func (c *Community) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCommunityIDEmpty
	}

	if c.Name == "" {
		return ErrCommunityNameEmpty
	}

	if len(c.Name) > 100 {
		return ErrCommunityNameTooLong
	}

	if len(c.Description) > 500 {
		return ErrDescriptionTooLong
	}

	if c.OwnerID == uuid.Nil {
		return ErrCommunityOwnerEmpty
	}

	if c.InviteCode == "" {
		return ErrCommunityCodeEmpty
	}

	return nil
}

// generateInviteCode produces a short shareable code. Uniqueness is enforced
// by the database; on the rare collision the insert fails and the caller
// retries with a fresh code.
func generateInviteCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
