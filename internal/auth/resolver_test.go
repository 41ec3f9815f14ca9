package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/mozilla-ai/outline-mcp/internal/errors"
)

func TestResolver_Resolve_PriorityMatrix(t *testing.T) {
	t.Parallel()

	const (
		explicitKey = "explicit-key"
		headerKey   = "header-key"
		envKey      = "env-key"
	)

	for _, withExplicit := range []bool{false, true} {
		for _, withHeader := range []bool{false, true} {
			for _, withEnv := range []bool{false, true} {
				name := fmt.Sprintf("explicit=%t header=%t env=%t", withExplicit, withHeader, withEnv)

				t.Run(name, func(t *testing.T) {
					t.Parallel()

					explicit := ""
					if withExplicit {
						explicit = explicitKey
					}
					var headers http.Header
					if withHeader {
						headers = http.Header{"Authorization": {"Bearer " + headerKey}}
					}
					fallback := ""
					if withEnv {
						fallback = envKey
					}

					key, err := NewResolver(fallback).Resolve(explicit, headers)

					switch {
					case withExplicit:
						require.NoError(t, err)
						require.Equal(t, explicitKey, key)
					case withHeader:
						require.NoError(t, err)
						require.Equal(t, headerKey, key)
					case withEnv:
						require.NoError(t, err)
						require.Equal(t, envKey, key)
					default:
						require.Error(t, err)
						require.True(t, errors.Is(err, apperrors.ErrMissingCredential))
						require.Empty(t, key)
					}
				})
			}
		}
	}
}

func TestResolver_Resolve_BlankValuesAreAbsent(t *testing.T) {
	t.Parallel()

	key, src, err := NewResolver("  env  ").ResolveWithSource("   ", http.Header{"X-Outline-Api-Key": {"  "}})
	require.NoError(t, err)
	require.Equal(t, "env", key)
	require.Equal(t, SourceFallback, src)
}

func TestResolver_Resolve_MissingCredentialMessage(t *testing.T) {
	t.Parallel()

	_, err := NewResolver("").Resolve("", nil)
	require.ErrorIs(t, err, apperrors.ErrMissingCredential)
	require.Contains(t, err.Error(), EnvVarAPIKey)
	require.Contains(t, err.Error(), HeaderAuthorization)
}

func TestFromHeaders_CaseInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers http.Header
		want    string
	}{
		{
			name:    "canonical authorization",
			headers: http.Header{"Authorization": {"Bearer abc"}},
			want:    "abc",
		},
		{
			name:    "lower case authorization",
			headers: http.Header{"authorization": {"Bearer abc"}},
			want:    "abc",
		},
		{
			name:    "upper case authorization",
			headers: http.Header{"AUTHORIZATION": {"Bearer abc"}},
			want:    "abc",
		},
		{
			name:    "lower case bearer scheme",
			headers: http.Header{"Authorization": {"bearer abc"}},
			want:    "abc",
		},
		{
			name:    "non bearer authorization is ignored",
			headers: http.Header{"Authorization": {"Basic dXNlcjpwYXNz"}},
			want:    "",
		},
		{
			name:    "x-outline-api-key",
			headers: http.Header{"x-outline-api-key": {"xkey"}},
			want:    "xkey",
		},
		{
			name:    "outline-api-key",
			headers: http.Header{"OUTLINE-API-KEY": {"okey"}},
			want:    "okey",
		},
		{
			name: "authorization wins over vendor headers",
			headers: http.Header{
				"Authorization":     {"Bearer first"},
				"X-Outline-Api-Key": {"second"},
				"Outline-Api-Key":   {"third"},
			},
			want: "first",
		},
		{
			name: "x-outline-api-key wins over outline-api-key",
			headers: http.Header{
				"X-Outline-Api-Key": {"second"},
				"Outline-Api-Key":   {"third"},
			},
			want: "second",
		},
		{
			name: "falls through non bearer authorization",
			headers: http.Header{
				"Authorization":   {"Token nope"},
				"Outline-Api-Key": {"third"},
			},
			want: "third",
		},
		{
			name:    "nil headers",
			headers: nil,
			want:    "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, FromHeaders(tc.headers))
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := Fingerprint("key-a")
	require.Len(t, a, 16)
	require.Equal(t, a, Fingerprint("key-a"))
	require.NotEqual(t, a, Fingerprint("key-b"))
	require.NotContains(t, a, "key-a")
}

func TestHTTPContextFunc(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set(HeaderXOutlineAPIKey, "from-request")

	ctx := HTTPContextFunc(context.Background(), req)
	headers := HeadersFromContext(ctx)
	require.NotNil(t, headers)
	require.Equal(t, "from-request", FromHeaders(headers))

	// Mutating the request afterwards must not leak into the stored copy.
	req.Header.Set(HeaderXOutlineAPIKey, "changed")
	require.Equal(t, "from-request", FromHeaders(headers))

	require.Nil(t, HeadersFromContext(context.Background()))
}
