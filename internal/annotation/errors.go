package annotation

import (
	"errors"
	"fmt"
)

// Common errors returned by annotators.
var (
	// ErrUnavailable is returned when the AI collaborator cannot serve the
	// request: missing credentials, timeout, or exhausted retries. It is a
	// normal, silently tolerated outcome and is never surfaced to end users.
	ErrUnavailable = errors.New("annotation service unavailable")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed. Callers treat it like ErrUnavailable, which it wraps.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response from language model", ErrUnavailable)

	// ErrContentBlocked is returned when the model refuses the content due
	// to safety filters. Not retried.
	ErrContentBlocked = fmt.Errorf("%w: content blocked by language model safety filters", ErrUnavailable)

	// ErrTransientFailure marks temporary errors that may resolve on retry.
	ErrTransientFailure = errors.New("transient annotation error")

	// ErrInvalidConfig is returned when the annotator configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid annotator configuration")
)
