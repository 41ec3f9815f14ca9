// Package outline is a client for the Outline document API (https://www.getoutline.com/developers).
//
// Every operation is a single synchronous 'POST <base>/<operation>' with a JSON body and a bearer credential.
// Failures are classified as *APIError, *TransportError or *MalformedResponseError and are never retried,
// since operations such as documents.create or documents.delete are not idempotent.
package outline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

const (
	headerRequestID = "X-Request-Id"
	mimeTypeJSON    = "application/json"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 64 << 20
)

// Client performs authenticated calls against one Outline instance with one credential.
// Instances must not be shared between callers with different credentials.
// NewClient should be used to create instances of Client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     hclog.Logger
}

// NewClient creates a Client for the given base URL and resolved credential.
// An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, apiKey string, opt ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", errors.ErrMissingCredential)
	}

	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid client options: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:    normalized,
		apiKey:     apiKey,
		httpClient: httpClient,
		timeout:    opts.Timeout,
		userAgent:  opts.UserAgent,
		logger:     opts.Logger.Named("client"),
	}, nil
}

// NormalizeBaseURL validates an Outline API base URL and strips any trailing slash.
func NormalizeBaseURL(baseURL string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return DefaultBaseURL, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Outline API URL '%s': %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid Outline API URL '%s': scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid Outline API URL '%s': missing host", baseURL)
	}

	return strings.TrimRight(baseURL, "/"), nil
}

// BaseURL returns the API base URL this client calls.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call invokes the named Outline operation (e.g. 'documents.search') with params serialized as the JSON body.
// A nil params sends '{}'.
func (c *Client) Call(ctx context.Context, operation string, params any) (*Envelope, error) {
	operation = strings.Trim(strings.TrimSpace(operation), "/")
	if operation == "" {
		return nil, fmt.Errorf("%w: operation cannot be empty", errors.ErrBadRequest)
	}

	body := []byte("{}")
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode parameters for %s: %w", errors.ErrBadRequest, operation, err)
		}
		body = b
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/" + operation
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", operation, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mimeTypeJSON)
	req.Header.Set("Accept", mimeTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)

	logger := c.logger.With("operation", operation, "request_id", requestID)
	logger.Debug("Calling Outline")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Outline request failed", "error", err, "elapsed", time.Since(start))
		return nil, &TransportError{Operation: operation, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.Warn("Failed reading Outline response", "status", resp.StatusCode, "error", err)
		return nil, &TransportError{Operation: operation, Err: err}
	}

	logger.Debug("Outline responded", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		logger.Warn("Outline rejected request", "status", apiErr.Status, "message", apiErr.Message)
		return nil, apiErr
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &MalformedResponseError{Operation: operation, Status: resp.StatusCode, Err: err}
	}
	env.Status = resp.StatusCode
	env.Raw = raw

	return &env, nil
}

// Invoke calls the operation and decodes the response's 'data' field into out.
// out may be nil when the result is not needed.
func (c *Client) Invoke(ctx context.Context, operation string, params any, out any) (*Envelope, error) {
	env, err := c.Call(ctx, operation, params)
	if err != nil {
		return nil, err
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return env, nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return nil, &MalformedResponseError{Operation: operation, Status: env.Status, Err: err}
	}

	return env, nil
}

// newAPIError builds an APIError from a non-2xx response.
// The message is taken from the body's 'message' field, then 'error', then the status line.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = strings.TrimSpace(payload.Error)
		apiErr.Message = strings.TrimSpace(payload.Message)
		if apiErr.Message == "" {
			apiErr.Message = apiErr.Code
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(fmt.Sprintf("%d %s", status, http.StatusText(status)))
	}

	return apiErr
}
