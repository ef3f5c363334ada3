package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/service"
	"github.com/stackit/stackit-api/internal/service/auth"
	"github.com/stackit/stackit-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},

		{"forbidden category", domain.ErrForbidden, http.StatusForbidden},
		{"owner cannot leave", domain.ErrOwnerCannotLeave, http.StatusForbidden},
		{"self vote", domain.ErrSelfVote, http.StatusForbidden},
		{"email mismatch", domain.ErrEmailMismatch, http.StatusForbidden},

		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"community not found", service.ErrCommunityNotFound, http.StatusNotFound},
		{"question not found", service.ErrQuestionNotFound, http.StatusNotFound},
		{"store not found", store.ErrNotFound, http.StatusNotFound},

		{"already member", domain.ErrAlreadyMember, http.StatusConflict},
		{"duplicate join request", domain.ErrDuplicateJoinRequest, http.StatusConflict},
		{"request already reviewed", domain.ErrRequestAlreadyReviewed, http.StatusConflict},
		{"duplicate invite", domain.ErrDuplicateInvite, http.StatusConflict},
		{"already resolved", domain.ErrAlreadyResolved, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},

		{"not a member", domain.ErrNotAMember, http.StatusBadRequest},
		{"invalid confidence", domain.ErrInvalidConfidence, http.StatusBadRequest},
		{"invalid vote direction", domain.ErrInvalidVoteDirection, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},

		{"unexpected error", errors.New("pq: connection reset"), http.StatusInternalServerError},
		{"wrapped service error", &service.ServiceError{Operation: "vote", Err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("business outcomes keep their own message", func(t *testing.T) {
		assert.Equal(t, domain.ErrSelfVote.Error(), GetSafeErrorMessage(domain.ErrSelfVote))
		assert.Equal(t, domain.ErrAlreadyResolved.Error(), GetSafeErrorMessage(domain.ErrAlreadyResolved))
		assert.Equal(t, domain.ErrNotAMember.Error(), GetSafeErrorMessage(domain.ErrNotAMember))
	})

	t.Run("not found errors get friendly messages", func(t *testing.T) {
		assert.Equal(t, "Community not found", GetSafeErrorMessage(service.ErrCommunityNotFound))
		assert.Equal(t, "Answer not found", GetSafeErrorMessage(service.ErrAnswerNotFound))
	})

	t.Run("infrastructure details never leak", func(t *testing.T) {
		err := &service.ServiceError{
			Operation: "accept_invite",
			Message:   "failed to accept invite",
			Err:       errors.New("pq: password authentication failed for user postgres"),
		}
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}
