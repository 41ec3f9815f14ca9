package outline

import (
	"fmt"

	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

// APIError is returned when Outline answers with a non-2xx status.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Message is taken from the response body when present, otherwise it describes the status line.
	Message string

	// Code is Outline's machine readable error identifier (e.g. 'not_found'), when present.
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", errors.ErrAPI, e.Status, e.Message)
}

// Is reports whether target is errors.ErrAPI, or errors.ErrNotFound for 404 responses.
func (e *APIError) Is(target error) bool {
	switch target {
	case errors.ErrAPI:
		return true
	case errors.ErrNotFound:
		return e.Status == 404
	default:
		return false
	}
}

// TransportError is returned when the request never produced an HTTP response.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s): %v", errors.ErrTransport, e.Operation, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{errors.ErrTransport, e.Err}
}

// MalformedResponseError is returned when a 2xx response body cannot be decoded.
type MalformedResponseError struct {
	Operation string
	Status    int
	Err       error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s (%s, status %d): %v", errors.ErrMalformedResponse, e.Operation, e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{errors.ErrMalformedResponse, e.Err}
}
