// Package draft generates formally-styled legislative bill text from a
// plain-language policy description by delegating to an external
// text-completion service. The package composes the prompts, applies a
// bounded timeout, and classifies failures so callers can tell a service
// rejection from an internal fault; it never validates the generated text.
package draft

import "fmt"

// ServiceError reports that the completion service rejected or failed the
// call: an authentication failure, a rate limit, a server error, a
// transport failure, or a timeout. Resubmitting the request may succeed.
type ServiceError struct {
	// StatusCode is the HTTP status, when the failure came from an HTTP
	// response. Zero for transport-level failures.
	StatusCode int

	// Code is the service's machine-readable error code, when present.
	Code string

	// Message describes the failure.
	Message string

	// Err is the underlying cause, when any.
	Err error
}

func (e *ServiceError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("completion service error (HTTP %d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("completion service error: %s: %v", e.Message, e.Err)
	}
	return "completion service error: " + e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

// UnexpectedError reports a failure that did not come from the completion
// service's defined failure modes: an empty completion, a malformed
// response, or an internal fault.
type UnexpectedError struct {
	Message string
	Err     error
}

func (e *UnexpectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected drafting error: %s: %v", e.Message, e.Err)
	}
	return "unexpected drafting error: " + e.Message
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
