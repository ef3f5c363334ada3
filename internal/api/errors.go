package api

import (
	"errors"
	"net/http"

	"github.com/stackit/stackit-api/internal/api/shared"
	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/service"
	"github.com/stackit/stackit-api/internal/service/auth"
	"github.com/stackit/stackit-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. Business outcomes are classified by their
// category (forbidden, conflict, invalid input); anything unexpected is a
// 500 so internal details never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors: acting user lacks the required role
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCommunityNotFound),
		errors.Is(err, service.ErrJoinRequestNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrAnswerNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts with existing state
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrUsernameExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Business outcomes carry their own safe messages;
// everything else collapses to a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrCommunityNotFound):
		return "Community not found"

	case errors.Is(err, service.ErrJoinRequestNotFound):
		return "Join request not found"

	case errors.Is(err, service.ErrInviteNotFound):
		return "Invite not found"

	case errors.Is(err, service.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, service.ErrAnswerNotFound):
		return "Answer not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	// Specific business outcomes read fine as-is: they are written for
	// users and wrap a category, not an infrastructure error.
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidInput):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// RespondServiceError maps a service error to its status code and safe
// message and writes the response, logging the underlying error server-side.
func RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
