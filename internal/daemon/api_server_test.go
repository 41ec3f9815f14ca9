package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

func newTestHTTPServer(t *testing.T, d *Daemon) *httptest.Server {
	t.Helper()

	handler, err := d.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// postMCP sends a JSON-RPC request to the streamable HTTP endpoint.
func postMCP(t *testing.T, url string, sessionID string, headers http.Header, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if sessionID != "" {
		req.Header.Set(headerMCPSessionID, sessionID)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandler_StatusAPI(t *testing.T) {
	t.Parallel()

	d, _ := newTestDaemon(t, "", WithTransport(TransportStreamableHTTP), WithVersion("v1.0.0"))
	srv := newTestHTTPServer(t, d)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "degraded", health["status"])
	require.Equal(t, "v1.0.0", health["version"])
	require.Equal(t, "streamable-http", health["transport"])
	require.Equal(t, false, health["credentialConfigured"])

	resp, err = http.Get(srv.URL + "/api/v1/tools/list_collections/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "trailing slashes are stripped")

	resp, err = http.Get(srv.URL + "/api/v1/tools/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "tool 'missing'")
}

func TestHandler_StreamableHTTPForwardsCredentialHeaders(t *testing.T) {
	t.Parallel()

	d, fake := newTestDaemon(t, "fallback", WithTransport(TransportStreamableHTTP), WithEndpoint("/outline"))
	srv := newTestHTTPServer(t, d)
	endpoint := srv.URL + "/outline"

	initResp := postMCP(t, endpoint, "", nil, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{`+
		`"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`)
	require.Equal(t, http.StatusOK, initResp.StatusCode)
	initBody, err := io.ReadAll(initResp.Body)
	require.NoError(t, err)
	require.Contains(t, string(initBody), `"outline-mcp"`)

	sessionID := initResp.Header.Get(headerMCPSessionID)
	headers := http.Header{"Authorization": []string{"Bearer from-header"}}

	callResp := postMCP(t, endpoint, sessionID, headers, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{`+
		`"name":"list_collections","arguments":{}}}`)
	require.Equal(t, http.StatusOK, callResp.StatusCode)
	_, err = io.ReadAll(callResp.Body)
	require.NoError(t, err)

	require.Equal(t, []string{"Bearer from-header"}, fake.seen())
}

func TestHandler_SSEMountsEventStream(t *testing.T) {
	t.Parallel()

	d, _ := newTestDaemon(t, "key", WithTransport(TransportSSE))
	srv := newTestHTTPServer(t, d)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+sseEndpoint, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	buf := make([]byte, 256)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	require.Contains(t, string(buf[:n]), messageEndpoint)
}

func TestDaemon_ApplyCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		origins         []string
		credentials     bool
		requestOrigin   string
		wantAllowOrigin string
		wantCredentials string
	}{
		{
			name:            "listed origin",
			origins:         []string{" http://localhost:3000 ", "https://example.com"},
			credentials:     true,
			requestOrigin:   "http://localhost:3000",
			wantAllowOrigin: "http://localhost:3000",
			wantCredentials: "true",
		},
		{
			name:            "unlisted origin",
			origins:         []string{"https://example.com"},
			requestOrigin:   "http://evil.example",
			wantAllowOrigin: "",
		},
		{
			name:            "wildcard drops credentials",
			origins:         []string{"https://example.com", "*"},
			credentials:     true,
			requestOrigin:   "http://anywhere.example",
			wantAllowOrigin: "*",
			wantCredentials: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, _ := newTestDaemon(t, "key",
				WithTransport(TransportStreamableHTTP),
				WithCORSEnabled(true),
				WithCORSAllowOrigins(tc.origins),
				WithCORSAllowCredentials(tc.credentials),
			)
			handler, err := d.Handler()
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
			req.Header.Set("Origin", tc.requestOrigin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tc.wantAllowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, tc.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}

	// The configured origins are not modified.
	origins := []string{" http://localhost:3000 "}
	d, _ := newTestDaemon(t, "key", WithCORSEnabled(true), WithCORSAllowOrigins(origins))
	_, err := d.Handler()
	require.NoError(t, err)
	require.Equal(t, " http://localhost:3000 ", origins[0])
}

func TestMapError(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "ErrBadRequest maps to 400", err: errors.ErrBadRequest, expectedStatus: 400},
		{name: "ErrMissingCredential maps to 401", err: errors.ErrMissingCredential, expectedStatus: 401},
		{name: "ErrNotFound maps to 404", err: errors.ErrNotFound, expectedStatus: 404},
		{name: "ErrAPI maps to 502", err: errors.ErrAPI, expectedStatus: 502},
		{name: "ErrMalformedResponse maps to 502", err: errors.ErrMalformedResponse, expectedStatus: 502},
		{name: "ErrTransport maps to 504", err: errors.ErrTransport, expectedStatus: 504},
		{name: "Unknown error maps to 500", err: fmt.Errorf("unknown error"), expectedStatus: 500},
		{
			name:           "Wrapped error keeps its mapping",
			err:            fmt.Errorf("%w: tool 'missing'", errors.ErrNotFound),
			expectedStatus: 404,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			statusErr := mapError(logger, tc.err)
			require.Equal(t, tc.expectedStatus, statusErr.GetStatus())
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	handler := errorHandler(hclog.NewNullLogger())

	require.Equal(t, http.StatusTeapot, handler(nil, http.StatusTeapot, "short and stout").GetStatus())

	validation := handler(nil, http.StatusUnprocessableEntity, "validation failed", &huma.ErrorDetail{Message: "bad"})
	require.Equal(t, http.StatusUnprocessableEntity, validation.GetStatus())

	single := handler(nil, http.StatusInternalServerError, "unexpected", errors.ErrMissingCredential)
	require.Equal(t, http.StatusUnauthorized, single.GetStatus())

	joined := handler(nil, http.StatusInternalServerError, "unexpected", fmt.Errorf("first"), errors.ErrTransport)
	require.Equal(t, http.StatusGatewayTimeout, joined.GetStatus())
}
