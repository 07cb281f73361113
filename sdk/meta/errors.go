package meta

import (
	"fmt"
	"time"
)

// ErrAuthentication represents an error wherein the API server rejected or
// could not verify the credentials presented with a request. This is always
// the result of a 401 response.
type ErrAuthentication struct {
	// Reason is a natural language explanation for why authentication failed.
	Reason string `json:"message,omitempty"`
}

func (e *ErrAuthentication) Error() string {
	if e.Reason == "" {
		return "Could not authenticate the request."
	}
	return fmt.Sprintf("Could not authenticate the request: %s", e.Reason)
}

// ErrAuthorization represents an error wherein the principal making a request
// is authenticated, but not permitted to do what was asked.
type ErrAuthorization struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrAuthorization) Error() string {
	if e.Reason == "" {
		return "The request is not authorized."
	}
	return fmt.Sprintf("The request is not authorized: %s", e.Reason)
}

// ErrBadRequest represents an error wherein a request was invalid.
type ErrBadRequest struct {
	// Reason is a natural language explanation of what was wrong with the
	// request.
	Reason string `json:"message,omitempty"`
	// Details optionally itemizes individual problems.
	Details []string `json:"details,omitempty"`
}

func (e *ErrBadRequest) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("Bad request: %s", e.Reason)
	}
	msg := fmt.Sprintf("Bad request: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}

// ErrNotFound represents an error wherein the requested resource does not
// exist.
type ErrNotFound struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrNotFound) Error() string {
	if e.Reason == "" {
		return "The requested resource was not found."
	}
	return fmt.Sprintf("Not found: %s", e.Reason)
}

// ErrConflict represents an error wherein a request could not be completed
// because it would violate some constraint of the system.
type ErrConflict struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("Conflict: %s", e.Reason)
}

// ErrInternalServer represents a condition wherein the API server has
// encountered an unexpected error and cannot say more.
type ErrInternalServer struct {
	Reason string `json:"message,omitempty"`
}

func (e *ErrInternalServer) Error() string {
	return "An internal server error occurred."
}

// ErrUnexpectedStatus is returned for any unsuccessful response whose status
// code has no more specific error type.
type ErrUnexpectedStatus struct {
	StatusCode int
	Reason     string `json:"message,omitempty"`
}

func (e *ErrUnexpectedStatus) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("received %d from API server", e.StatusCode)
	}
	return fmt.Sprintf("received %d from API server: %s", e.StatusCode, e.Reason)
}

// ErrTimeout is returned when the API server did not respond within the
// client's request timeout.
type ErrTimeout struct {
	Timeout time.Duration
	Cause   error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("API server did not respond within %s", e.Timeout)
}

func (e *ErrTimeout) Unwrap() error {
	return e.Cause
}

// ErrMalformedResponse is returned when a successful response does not match
// the shape the client expects.
type ErrMalformedResponse struct {
	Reason  string
	Details []string
}

func (e *ErrMalformedResponse) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("Malformed response: %s", e.Reason)
	}
	msg := fmt.Sprintf("Malformed response: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}
