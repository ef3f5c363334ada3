// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Outcome categories for expected business failures. Operations return these
// (or errors wrapping them) instead of panicking or using ad-hoc strings, so
// callers can classify results with errors.Is.
var (
	// ErrForbidden is returned when the acting user lacks the role an
	// operation requires (owner, mentor, invite addressee).
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when an operation collides with existing
	// state: duplicate pending request, duplicate invite, already-accepted
	// invite, already-resolved question.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned when a caller-supplied value fails
	// validation (confidence out of range, malformed email, empty field).
	ErrInvalidInput = errors.New("invalid input")
)

// Specific business outcomes. Each wraps one of the categories above so both
// errors.Is(err, ErrAlreadyMember) and errors.Is(err, ErrConflict) hold.
var (
	// ErrAlreadyMember is returned when a join request is filed by a user
	// who already belongs to the community.
	ErrAlreadyMember = fmt.Errorf("%w: already a member of this community", ErrConflict)

	// ErrDuplicateJoinRequest is returned when the user already has a
	// pending request for the same community.
	ErrDuplicateJoinRequest = fmt.Errorf("%w: a pending join request already exists", ErrConflict)

	// ErrRequestAlreadyReviewed is returned when a join request is approved
	// or rejected a second time. Terminal states are immutable.
	ErrRequestAlreadyReviewed = fmt.Errorf("%w: join request has already been reviewed", ErrConflict)

	// ErrDuplicateInvite is returned when an un-accepted invite for the
	// same email already exists on the community.
	ErrDuplicateInvite = fmt.Errorf("%w: an invite for this email already exists", ErrConflict)

	// ErrInviteAlreadyAccepted is returned when an invite is accepted twice.
	ErrInviteAlreadyAccepted = fmt.Errorf("%w: invite has already been accepted", ErrConflict)

	// ErrAlreadyResolved is returned when an answer is accepted on a
	// question that already has an accepted answer.
	ErrAlreadyResolved = fmt.Errorf("%w: question already has an accepted answer", ErrConflict)

	// ErrOwnerCannotLeave is returned when the community owner tries to
	// leave their own community.
	ErrOwnerCannotLeave = fmt.Errorf("%w: community owner cannot leave", ErrForbidden)

	// ErrEmailMismatch is returned when a user acts on an invite that was
	// addressed to a different email.
	ErrEmailMismatch = fmt.Errorf("%w: invite is addressed to a different email", ErrForbidden)

	// ErrSelfVote is returned when an author votes on their own answer.
	ErrSelfVote = fmt.Errorf("%w: authors cannot vote on their own answers", ErrForbidden)

	// ErrNotAMember is returned when a mentor promotion targets a user who
	// is not a member of the community.
	ErrNotAMember = fmt.Errorf("%w: user is not a member of this community", ErrInvalidInput)

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrInvalidInput)

	// ErrInvalidConfidence is returned when an answer's confidence level is
	// outside the 0-100 range.
	ErrInvalidConfidence = fmt.Errorf("%w: confidence level must be between 0 and 100", ErrInvalidInput)

	// ErrInvalidVoteDirection is returned for a vote direction other than
	// up or down.
	ErrInvalidVoteDirection = fmt.Errorf("%w: vote direction must be up or down", ErrInvalidInput)
)

// validateEmailFormat performs basic validation of email format: a single @
// with a dotted domain part. Full RFC 5322 parsing is deliberately out of
// scope; the request layer validates again with its own tooling.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false
			}
			atIndex = i
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 {
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
