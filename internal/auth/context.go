package auth

import (
	"context"
	"net/http"
)

type headersKey struct{}

// WithHeaders returns a copy of ctx carrying the inbound request headers.
// It is only used at the transport boundary: tools read the headers back out and pass them to Resolver.Resolve.
func WithHeaders(ctx context.Context, headers http.Header) context.Context {
	if headers == nil {
		return ctx
	}
	return context.WithValue(ctx, headersKey{}, headers.Clone())
}

// HeadersFromContext returns the inbound request headers attached by WithHeaders, or nil (e.g. stdio transport).
func HeadersFromContext(ctx context.Context) http.Header {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(headersKey{}).(http.Header)
	return h
}

// HTTPContextFunc matches the context hooks of the mcp-go HTTP transports.
// It attaches the request's headers so per-call credentials can be resolved.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	return WithHeaders(ctx, r.Header)
}
