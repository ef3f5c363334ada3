// Package gemini implements the annotation.Annotator interface on Google's
// Gemini API. Calls are bounded by the caller's context, retried with
// exponential backoff on transient failures, and return errors wrapping
// annotation.ErrUnavailable when no usable result can be produced.
package gemini
