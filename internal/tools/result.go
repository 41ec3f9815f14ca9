package tools

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/outline-mcp/internal/errors"
	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

// argumentError is an invalid tool argument whose message is shown to the caller unchanged.
type argumentError struct {
	err error
}

func (e *argumentError) Error() string {
	return e.err.Error()
}

func (e *argumentError) Unwrap() []error {
	return []error{errors.ErrBadRequest, e.err}
}

func newArgumentError(err error) error {
	return &argumentError{err: err}
}

// textResult renders a successful tool call.
func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

// errorResult renders a failed tool call as text beginning with "Error".
// Argument errors render as "Error: <message>", anything else as "Error <action>: <description>".
func errorResult(action string, err error) *mcp.CallToolResult {
	var argErr *argumentError
	if stderrors.As(err, &argErr) || strings.TrimSpace(action) == "" {
		return mcp.NewToolResultError("Error: " + describeError(err))
	}

	return mcp.NewToolResultError(fmt.Sprintf("Error %s: %s", action, describeError(err)))
}

// describeError produces the caller facing description of err.
func describeError(err error) string {
	if err == nil {
		return "unknown error"
	}

	var (
		apiErr       *outline.APIError
		transportErr *outline.TransportError
		argErr       *argumentError
	)

	switch {
	case stderrors.As(err, &argErr):
		return argErr.Error()
	case stderrors.As(err, &apiErr):
		return fmt.Sprintf("Outline API returned %d: %s", apiErr.Status, apiErr.Message)
	case stderrors.As(err, &transportErr):
		return fmt.Sprintf("%s: %v", errors.ErrTransport, transportErr.Err)
	case stderrors.Is(err, errors.ErrMalformedResponse):
		return errors.ErrMalformedResponse.Error()
	default:
		return err.Error()
	}
}

// resultText returns the concatenated text content of a tool result.
func resultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}

	var b strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}
