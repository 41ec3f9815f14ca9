// Package errors defines domain-level errors used throughout the application.
// These errors represent failures talking to Outline or resolving a caller's credential.
// They are rendered as text at the tool boundary and mapped to HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled at both boundaries.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a case to describeError (internal/tools/result.go) if it needs a specific framing
// 3. Add test cases for both
package errors

import (
	"errors"
)

var (
	// ErrMissingCredential indicates that no Outline API key could be resolved for a call.
	// None of the explicit key, the inbound request headers or the OUTLINE_API_KEY environment variable supplied one.
	// Recommended to map to HTTP 401 Unauthorized.
	ErrMissingCredential = errors.New("missing Outline API key")

	// ErrAPI indicates that the Outline API answered a call with a non-2xx status.
	// The accompanying message is surfaced verbatim where Outline provided one.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrAPI = errors.New("outline API error")

	// ErrTransport indicates that the Outline API could not be reached (connection refused, DNS, timeout).
	// Recommended to map to HTTP 504 Gateway Timeout.
	ErrTransport = errors.New("could not reach Outline")

	// ErrMalformedResponse indicates that Outline answered with a 2xx status but a body that is not valid JSON.
	// This is a defect in the remote contract and is never retried.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrMalformedResponse = errors.New("invalid response format")

	// ErrBadRequest indicates that the caller provided invalid input.
	// This typically results from tool argument validation failures.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound indicates that a requested entity was not returned by Outline.
	// Recommended to map to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")
)
