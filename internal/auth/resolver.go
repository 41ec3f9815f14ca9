// Package auth resolves which Outline API key is attached to an outbound call.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

const (
	// HeaderAuthorization carries a bearer token, e.g. 'Authorization: Bearer ol_api_xxx'.
	HeaderAuthorization = "Authorization"

	// HeaderXOutlineAPIKey carries the raw Outline API key.
	HeaderXOutlineAPIKey = "X-Outline-API-Key"

	// HeaderOutlineAPIKey carries the raw Outline API key.
	HeaderOutlineAPIKey = "Outline-API-Key"

	// EnvVarAPIKey is the environment variable supplying the fallback API key.
	EnvVarAPIKey = "OUTLINE_API_KEY"

	bearerScheme = "bearer"
)

// Source identifies where a resolved credential came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceHeader   Source = "header"
	SourceFallback Source = "environment"
)

// Resolver determines the credential for a single outbound call.
// It holds only the fallback key, which is supplied by the composition root (usually from OUTLINE_API_KEY).
// NewResolver should be used to create instances of Resolver.
type Resolver struct {
	fallback string
}

// NewResolver returns a Resolver that falls back to the given key when no other source supplies one.
// An empty fallback is allowed: calls without an explicit key or header then fail with errors.ErrMissingCredential.
func NewResolver(fallback string) *Resolver {
	return &Resolver{fallback: strings.TrimSpace(fallback)}
}

// Resolve returns the highest priority non-empty credential.
//
// Priority order:
//  1. explicit
//  2. 'Authorization: Bearer <token>'
//  3. 'X-Outline-API-Key: <token>'
//  4. 'Outline-API-Key: <token>'
//  5. the fallback key
//
// Header names are matched case-insensitively, headers may be nil.
func (r *Resolver) Resolve(explicit string, headers http.Header) (string, error) {
	key, _, err := r.ResolveWithSource(explicit, headers)
	return key, err
}

// ResolveWithSource behaves like Resolve and additionally reports which source supplied the credential.
func (r *Resolver) ResolveWithSource(explicit string, headers http.Header) (string, Source, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, SourceExplicit, nil
	}

	if key := FromHeaders(headers); key != "" {
		return key, SourceHeader, nil
	}

	if r != nil && r.fallback != "" {
		return r.fallback, SourceFallback, nil
	}

	return "", "", fmt.Errorf(
		"%w: send an '%s: Bearer <key>' or '%s' header, or set the %s environment variable",
		errors.ErrMissingCredential,
		HeaderAuthorization,
		HeaderXOutlineAPIKey,
		EnvVarAPIKey,
	)
}

// FromHeaders extracts an API key from the accepted header aliases, returning an empty string when none is present.
func FromHeaders(headers http.Header) string {
	if len(headers) == 0 {
		return ""
	}

	if token := bearerToken(lookup(headers, HeaderAuthorization)); token != "" {
		return token
	}

	for _, name := range []string{HeaderXOutlineAPIKey, HeaderOutlineAPIKey} {
		if v := strings.TrimSpace(lookup(headers, name)); v != "" {
			return v
		}
	}

	return ""
}

// lookup returns the first non-blank value for name, ignoring the case of the keys in headers.
// http.Header.Get only handles canonical keys, maps built by hand may not be canonical.
func lookup(headers http.Header, name string) string {
	if values, ok := headers[http.CanonicalHeaderKey(name)]; ok {
		if v := firstNonBlank(values); v != "" {
			return v
		}
	}

	for k, values := range headers {
		if !strings.EqualFold(k, name) {
			continue
		}
		if v := firstNonBlank(values); v != "" {
			return v
		}
	}

	return ""
}

func firstNonBlank(values []string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// bearerToken returns the token from a 'Bearer <token>' value, the scheme is case-insensitive.
func bearerToken(value string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// Fingerprint returns a short, non-reversible identifier for a credential.
// It is safe to log and is used to partition per-credential state.
func Fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
