package daemon

import (
	stdErrors "errors"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mozilla-ai/outline-mcp/internal/api"
	"github.com/mozilla-ai/outline-mcp/internal/auth"
	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

const (
	// headerMCPSessionID is the session header used by the streamable HTTP transport.
	headerMCPSessionID = "Mcp-Session-Id"

	// sseEndpoint is where SSE clients open their event stream.
	sseEndpoint = "/sse"

	// messageEndpoint is where SSE clients post their messages.
	messageEndpoint = "/message"
)

// errorHandlerOnce guards the package level huma error hook.
var errorHandlerOnce sync.Once

// Handler builds the HTTP handler for the configured transport.
// It serves the MCP endpoint alongside the status API under /api/v1.
func (d *Daemon) Handler() (http.Handler, error) {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	if d.opts.CORS.Enabled {
		d.applyCORS(mux)
	}

	router := humachi.New(mux, api.NewConfig(cmd.AppName+" API", d.opts.Version))

	// Configure the error handling wrapping.
	errorHandlerOnce.Do(func() {
		huma.NewErrorWithContext = errorHandler(d.logger.Named("api"))
	})

	apiPathPrefix, err := api.RegisterRoutes(router, d, d.toolset)
	if err != nil {
		return nil, err
	}

	switch d.opts.Transport {
	case TransportSSE:
		sse := server.NewSSEServer(
			d.mcpServer,
			server.WithSSEEndpoint(sseEndpoint),
			server.WithMessageEndpoint(messageEndpoint),
			server.WithSSEContextFunc(auth.HTTPContextFunc),
		)
		mux.Handle(sseEndpoint, sse.SSEHandler())
		mux.Handle(messageEndpoint, sse.MessageHandler())
		d.logger.Debug("Mounted SSE transport", "events", sseEndpoint, "messages", messageEndpoint, "api", apiPathPrefix)
	default:
		streamable := server.NewStreamableHTTPServer(
			d.mcpServer,
			server.WithEndpointPath(d.opts.Endpoint),
			server.WithHTTPContextFunc(auth.HTTPContextFunc),
		)
		mux.Handle(d.opts.Endpoint, streamable)
		d.logger.Debug("Mounted streamable HTTP transport", "endpoint", d.opts.Endpoint, "api", apiPathPrefix)
	}

	return mux, nil
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (d *Daemon) applyCORS(mux *chi.Mux) {
	corsOptions := cors.Options{
		AllowedOrigins:   make([]string, 0, len(d.opts.CORS.AllowOrigins)),
		AllowedMethods:   d.opts.CORS.AllowMethods,
		AllowedHeaders:   d.opts.CORS.AllowedHeaders,
		ExposedHeaders:   d.opts.CORS.ExposedHeaders,
		AllowCredentials: d.opts.CORS.AllowCredentials,
		MaxAge:           int(d.opts.CORS.MaxAge.Seconds()),
	}

	// A wildcard origin cannot be combined with credentials.
	for _, origin := range d.opts.CORS.AllowOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			corsOptions.AllowedOrigins = []string{"*"}
			corsOptions.AllowCredentials = false
			break
		}
		corsOptions.AllowedOrigins = append(corsOptions.AllowedOrigins, origin)
	}

	d.logger.Info("Enabling CORS", "origins", corsOptions.AllowedOrigins)
	mux.Use(cors.Handler(corsOptions))
}

// mapError maps application domain errors to appropriate HTTP status codes.
//
// This function is the central place where domain errors from internal/errors are converted to HTTP responses.
// When adding new errors to internal/errors/errors.go, add them here to prevent them from falling
// through to the default case which returns HTTP 500.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, invalid requests)
//   - 401: No credential could be resolved
//   - 404: Resource not found errors
//   - 502: Outline answered with an error or an unreadable body
//   - 504: Outline could not be reached
//   - 500: Unexpected internal errors (default case)
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrMissingCredential):
		return huma.Error401Unauthorized(err.Error())
	case stdErrors.Is(err, errors.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrAPI):
		logger.Error("Outline API error", "error", err)
		return huma.Error502BadGateway("Outline API error", err)
	case stdErrors.Is(err, errors.ErrMalformedResponse):
		logger.Error("Malformed Outline response", "error", err)
		return huma.Error502BadGateway("Invalid response from Outline", err)
	case stdErrors.Is(err, errors.ErrTransport):
		logger.Error("Outline unreachable", "error", err)
		return huma.Error504GatewayTimeout("Could not reach Outline", err)
	default:
		logger.Error("Unexpected error", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to API friendly errors.
// Errors raised by huma itself (validation, unknown routes) carry a status and keep it.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		switch {
		case len(errs) == 0:
			return huma.NewError(status, msg)
		case status != 0 && status != http.StatusInternalServerError:
			return huma.NewError(status, msg, errs...)
		case len(errs) == 1:
			return mapError(logger, errs[0])
		default:
			return mapError(logger, stdErrors.Join(errs...))
		}
	}
}
