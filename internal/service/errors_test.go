package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

func TestWrapErrorMapsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		in       error
		expected error
	}{
		{"user", store.ErrUserNotFound, ErrUserNotFound},
		{"community", store.ErrCommunityNotFound, ErrCommunityNotFound},
		{"join request", store.ErrJoinRequestNotFound, ErrJoinRequestNotFound},
		{"invite", store.ErrInviteNotFound, ErrInviteNotFound},
		{"question", store.ErrQuestionNotFound, ErrQuestionNotFound},
		{"answer", store.ErrAnswerNotFound, ErrAnswerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError("op", "message", tt.in)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestWrapErrorPassesBusinessOutcomesThrough(t *testing.T) {
	outcomes := []error{
		domain.ErrAlreadyMember,
		domain.ErrOwnerCannotLeave,
		domain.ErrSelfVote,
		domain.ErrAlreadyResolved,
		domain.ErrNotAMember,
		ErrQuestionNotFound,
	}

	for _, outcome := range outcomes {
		err := wrapError("op", "message", outcome)
		// Identity preserved: no ServiceError wrapping, message stays safe.
		assert.Equal(t, outcome.Error(), err.Error())
	}
}

func TestWrapErrorWrapsInfrastructureErrors(t *testing.T) {
	cause := errors.New("connection reset")
	err := wrapError("request_join", "failed to create join request", cause)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "request_join", serviceErr.Operation)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "request_join failed")
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, wrapError("op", "message", nil))
}
