package tools

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"
)

// Recovery converts a panicking tool handler into an error result.
func Recovery(logger hclog.Logger) server.ToolHandlerMiddleware {
	logger = logger.Named("recovery")

	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Tool handler panicked", "tool", request.Params.Name, "panic", r, "stack", string(debug.Stack()))
					result = errorResult("", fmt.Errorf("internal error while running tool '%s'", request.Params.Name))
					err = nil
				}
			}()

			return next(ctx, request)
		}
	}
}

// Logging logs every tool call with its duration and outcome. Arguments are never logged.
func Logging(logger hclog.Logger) server.ToolHandlerMiddleware {
	logger = logger.Named("calls")

	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, request)

			isError := err != nil || (result != nil && result.IsError)
			logger.Info("Tool call", "tool", request.Params.Name, "duration", time.Since(start), "error", isError)

			return result, err
		}
	}
}

// SchemaValidation rejects calls whose arguments do not satisfy the tool's input schema.
// Calls for tools outside the toolset are passed through.
func (t *Toolset) SchemaValidation() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tool, ok := t.Lookup(request.Params.Name)
			if !ok || tool.schema == nil {
				return next(ctx, request)
			}

			if err := validateAgainstSchema(tool.schema, request.GetArguments()); err != nil {
				return errorResult("", err), nil
			}

			return next(ctx, request)
		}
	}
}

func validateAgainstSchema(schema *gojsonschema.Schema, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return newArgumentError(fmt.Errorf("invalid arguments: %w", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return newArgumentError(fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; ")))
}
