package tools

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/outline-mcp/internal/auth"
	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

// ClientProvider creates an Outline client for a single tool call.
type ClientProvider interface {
	// Client returns a client authenticated with the credential resolved for ctx, and the credential's fingerprint.
	Client(ctx context.Context, explicit string) (*outline.Client, string, error)
}

// ClientFactory resolves the caller's credential and builds a fresh Outline client per call.
// Clients are never shared between credentials.
// NewClientFactory should be used to create instances of ClientFactory.
type ClientFactory struct {
	resolver *auth.Resolver
	baseURL  string
	options  []outline.Option
	logger   hclog.Logger
}

// NewClientFactory creates a ClientFactory for the given Outline API base URL.
// An empty base URL selects outline.DefaultBaseURL.
func NewClientFactory(
	logger hclog.Logger,
	resolver *auth.Resolver,
	baseURL string,
	opts ...outline.Option,
) (*ClientFactory, error) {
	if resolver == nil {
		return nil, fmt.Errorf("credential resolver cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	normalized, err := outline.NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	// Validate once up front so per-call construction cannot fail on options.
	if _, err := outline.NewOptions(opts...); err != nil {
		return nil, err
	}

	return &ClientFactory{
		resolver: resolver,
		baseURL:  normalized,
		options:  opts,
		logger:   logger,
	}, nil
}

// BaseURL returns the normalized Outline API base URL.
func (f *ClientFactory) BaseURL() string {
	return f.baseURL
}

// Client implements ClientProvider.
func (f *ClientFactory) Client(ctx context.Context, explicit string) (*outline.Client, string, error) {
	key, source, err := f.resolver.ResolveWithSource(explicit, auth.HeadersFromContext(ctx))
	if err != nil {
		return nil, "", err
	}

	fingerprint := auth.Fingerprint(key)
	f.logger.Trace("Resolved credential", "source", source, "fingerprint", fingerprint)

	opts := append([]outline.Option{outline.WithLogger(f.logger)}, f.options...)
	c, err := outline.NewClient(f.baseURL, key, opts...)
	if err != nil {
		return nil, "", err
	}

	return c, fingerprint, nil
}
