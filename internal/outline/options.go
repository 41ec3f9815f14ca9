package outline

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultBaseURL is the Outline cloud API endpoint.
const DefaultBaseURL = "https://app.getoutline.com/api"

// EnvVarBaseURL is the environment variable used to point at a self-hosted Outline.
const EnvVarBaseURL = "OUTLINE_API_URL"

// Options contains optional configuration for the Client.
// NewOptions should be used to create instances of Options.
type Options struct {
	// HTTPClient performs requests, a fresh client with Timeout is used when nil.
	HTTPClient *http.Client

	// Timeout bounds a single call, including reading the response body.
	Timeout time.Duration

	// Logger for request logging.
	Logger hclog.Logger

	// UserAgent sent with every request.
	UserAgent string
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with defaults, then applies opts in order.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Timeout:   DefaultTimeout(),
		Logger:    hclog.NewNullLogger(),
		UserAgent: DefaultUserAgent(),
	}

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

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = c
		return nil
	}
}

// WithTimeout sets the call-level timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.Timeout = timeout
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Options) error {
		if logger == nil || reflect.ValueOf(logger).IsNil() {
			return fmt.Errorf("logger cannot be nil")
		}
		o.Logger = logger
		return nil
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) Option {
	return func(o *Options) error {
		ua = strings.TrimSpace(ua)
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		o.UserAgent = ua
		return nil
	}
}

// DefaultTimeout returns the default call-level timeout.
func DefaultTimeout() time.Duration {
	return 30 * time.Second
}

// DefaultUserAgent returns the default User-Agent header value.
func DefaultUserAgent() string {
	return "outline-mcp"
}
