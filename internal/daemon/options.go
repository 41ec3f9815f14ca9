package daemon

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mozilla-ai/outline-mcp/internal/auth"
	"github.com/mozilla-ai/outline-mcp/internal/cmd"
)

// Options contains optional configuration for the Daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Transport selects how MCP messages are exchanged.
	Transport Transport

	// Addr is the host:port HTTP transports bind to.
	Addr string

	// Endpoint is the path the streamable HTTP transport is mounted on.
	Endpoint string

	// ShutdownTimeout specifies how long to wait for HTTP transports to drain.
	ShutdownTimeout time.Duration

	// CORS configuration for cross-origin requests to HTTP transports.
	CORS CORSConfig

	// Version is reported to MCP clients and by the health endpoint.
	Version string

	// CredentialConfigured reports whether a fallback Outline API key is available.
	CredentialConfigured bool

	// Stdin and Stdout carry the stdio transport.
	Stdin  io.Reader
	Stdout io.Writer
}

// CORSConfig defines Cross-Origin Resource Sharing settings for HTTP transports.
type CORSConfig struct {
	// Enabled determines whether CORS headers are added to responses.
	Enabled bool

	// AllowCredentials indicates whether the request can include credentials.
	// Forced to false when AllowOrigins contains "*".
	AllowCredentials bool

	// AllowedHeaders specifies which headers the client can include in requests.
	AllowedHeaders []string

	// AllowMethods specifies which HTTP methods are permitted.
	AllowMethods []string

	// AllowOrigins specifies which origins can reach the server.
	AllowOrigins []string

	// ExposedHeaders specifies which response headers are accessible to the client.
	ExposedHeaders []string

	// MaxAge specifies how long browsers can cache preflight responses.
	MaxAge time.Duration
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

func defaultOptions() Options {
	return Options{
		Transport:       TransportStdio,
		Addr:            DefaultAddr(),
		Endpoint:        DefaultEndpoint(),
		ShutdownTimeout: DefaultShutdownTimeout(),
		CORS: CORSConfig{
			AllowMethods:   DefaultCORSAllowMethods(),
			AllowedHeaders: DefaultCORSAllowHeaders(),
			ExposedHeaders: DefaultCORSExposeHeaders(),
			MaxAge:         DefaultCORSMaxAge(),
		},
		Version: cmd.Version(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	}
}

// WithTransport selects the transport.
func WithTransport(t Transport) Option {
	return func(o *Options) error {
		if strings.TrimSpace(string(t)) == "" {
			return fmt.Errorf("transport cannot be empty")
		}
		parsed, err := ParseTransport(string(t))
		if err != nil {
			return err
		}
		o.Transport = parsed
		return nil
	}
}

// WithAddr configures the address HTTP transports bind to.
func WithAddr(addr string) Option {
	return func(o *Options) error {
		if err := validateAddr(addr); err != nil {
			return fmt.Errorf("invalid address '%s': %w", addr, err)
		}
		o.Addr = addr
		return nil
	}
}

// WithEndpoint configures the path the streamable HTTP transport is mounted on.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) error {
		endpoint = strings.TrimSpace(endpoint)
		if !strings.HasPrefix(endpoint, "/") || endpoint == "/" {
			return fmt.Errorf("endpoint must be an absolute path below '/', got '%s'", endpoint)
		}
		o.Endpoint = strings.TrimSuffix(endpoint, "/")
		return nil
	}
}

// WithShutdownTimeout configures how long to wait for graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("shutdown timeout must be positive, got %v", timeout)
		}
		o.ShutdownTimeout = timeout
		return nil
	}
}

// WithVersion sets the version reported to clients.
func WithVersion(version string) Option {
	return func(o *Options) error {
		if strings.TrimSpace(version) == "" {
			return fmt.Errorf("version cannot be empty")
		}
		o.Version = version
		return nil
	}
}

// WithCredentialConfigured records whether a fallback Outline API key was supplied.
func WithCredentialConfigured(configured bool) Option {
	return func(o *Options) error {
		o.CredentialConfigured = configured
		return nil
	}
}

// WithStdio sets the streams used by the stdio transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(o *Options) error {
		if in == nil || out == nil {
			return fmt.Errorf("stdio streams cannot be nil")
		}
		o.Stdin = in
		o.Stdout = out
		return nil
	}
}

// WithCORSEnabled enables or disables CORS support.
func WithCORSEnabled(enabled bool) Option {
	return func(o *Options) error {
		o.CORS.Enabled = enabled
		return nil
	}
}

// WithCORSAllowOrigins sets the allowed origins for CORS requests.
func WithCORSAllowOrigins(origins []string) Option {
	return func(o *Options) error {
		o.CORS.AllowOrigins = origins
		return nil
	}
}

// WithCORSAllowMethods sets the allowed HTTP methods for CORS requests.
func WithCORSAllowMethods(methods []string) Option {
	return func(o *Options) error {
		o.CORS.AllowMethods = methods
		return nil
	}
}

// WithCORSAllowHeaders sets which additional request headers are safe for the client to send.
func WithCORSAllowHeaders(headers []string) Option {
	return func(o *Options) error {
		o.CORS.AllowedHeaders = headers
		return nil
	}
}

// WithCORSExposeHeaders sets which additional response headers are safe for the client to read.
func WithCORSExposeHeaders(headers []string) Option {
	return func(o *Options) error {
		o.CORS.ExposedHeaders = headers
		return nil
	}
}

// WithCORSAllowCredentials sets whether credentials are allowed in CORS requests.
func WithCORSAllowCredentials(allowed bool) Option {
	return func(o *Options) error {
		o.CORS.AllowCredentials = allowed
		return nil
	}
}

// WithCORSMaxAge sets how long browsers can cache CORS preflight responses.
func WithCORSMaxAge(maxAge time.Duration) Option {
	return func(o *Options) error {
		if maxAge < 0 {
			return fmt.Errorf("CORS max age cannot be negative, got %v", maxAge)
		}
		o.CORS.MaxAge = maxAge
		return nil
	}
}

// DefaultAddr is the address HTTP transports bind to when none is configured.
func DefaultAddr() string {
	return "127.0.0.1:3001"
}

// DefaultEndpoint is the path of the streamable HTTP transport.
func DefaultEndpoint() string {
	return "/mcp"
}

// DefaultShutdownTimeout is the default time allowed for graceful shutdown.
func DefaultShutdownTimeout() time.Duration {
	return 5 * time.Second
}

// DefaultCORSAllowHeaders returns the headers MCP clients send, including every credential header.
func DefaultCORSAllowHeaders() []string {
	return []string{
		"Accept",
		"Content-Type",
		auth.HeaderAuthorization,
		auth.HeaderXOutlineAPIKey,
		auth.HeaderOutlineAPIKey,
		headerMCPSessionID,
	}
}

// DefaultCORSAllowMethods returns the HTTP methods used by the MCP transports.
func DefaultCORSAllowMethods() []string {
	return []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodDelete,
		http.MethodOptions,
	}
}

// DefaultCORSExposeHeaders returns the response headers browsers need to continue an MCP session.
func DefaultCORSExposeHeaders() []string {
	return []string{headerMCPSessionID}
}

// DefaultCORSMaxAge returns the default CORS max age duration.
func DefaultCORSMaxAge() time.Duration {
	return 5 * time.Minute
}

// validateAddr checks if the address is a valid "host:port" string.
func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address format: %w", err)
	}

	if port == "" {
		return fmt.Errorf("address missing port")
	}

	if _, err := strconv.Atoi(port); err != nil {
		if _, err := net.LookupPort("tcp", port); err != nil {
			return fmt.Errorf("invalid address port: %s", port)
		}
	}

	return nil
}
