// Package service provides the application services of the engagement core:
// membership workflows, the engagement orchestrator, and journal reads.
package service

import (
	"errors"
	"fmt"

	"github.com/stackit/stackit-api/internal/domain"
	"github.com/stackit/stackit-api/internal/store"
)

// Service-level not-found sentinels. The API layer maps these to 404.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCommunityNotFound   = errors.New("community not found")
	ErrJoinRequestNotFound = errors.New("join request not found")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAnswerNotFound      = errors.New("answer not found")
)

// ServiceError wraps unexpected errors from a service operation with context.
// Expected business outcomes (domain.ErrForbidden, domain.ErrConflict,
// domain.ErrInvalidInput chains and the not-found sentinels above) are
// returned directly, never wrapped in this type.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "request_join")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// mapNotFound translates a store not-found error to the matching service
// sentinel, or returns nil when err is not a not-found error.
func mapNotFound(err error) error {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrCommunityNotFound):
		return ErrCommunityNotFound
	case errors.Is(err, store.ErrJoinRequestNotFound):
		return ErrJoinRequestNotFound
	case errors.Is(err, store.ErrInviteNotFound):
		return ErrInviteNotFound
	case errors.Is(err, store.ErrQuestionNotFound):
		return ErrQuestionNotFound
	case errors.Is(err, store.ErrAnswerNotFound):
		return ErrAnswerNotFound
	case errors.Is(err, store.ErrNotFound):
		return err
	}
	return nil
}

// isBusinessOutcome reports whether err is an expected, caller-visible
// business result rather than an infrastructure failure.
func isBusinessOutcome(err error) bool {
	return errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCommunityNotFound) ||
		errors.Is(err, ErrJoinRequestNotFound) ||
		errors.Is(err, ErrInviteNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAnswerNotFound)
}

// wrapError returns expected business outcomes untouched and wraps anything
// else in a ServiceError carrying the operation name.
func wrapError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if mapped := mapNotFound(err); mapped != nil {
		return mapped
	}

	if isBusinessOutcome(err) {
		return err
	}

	return &ServiceError{Operation: operation, Message: message, Err: err}
}
