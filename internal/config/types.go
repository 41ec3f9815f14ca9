package config

import (
	"fmt"
	"time"
)

var _ Provider = (*DefaultLoader)(nil)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Config represents the .outline-mcp.toml file structure.
// Every section is optional, absent values fall back to defaults when resolved into Settings.
//
// NOTE: if you add/remove fields you must review Validate and Resolve.
type Config struct {
	Outline *OutlineSection `json:"outline,omitempty" toml:"outline,omitempty" yaml:"outline,omitempty"`
	Server  *ServerSection  `json:"server,omitempty"  toml:"server,omitempty"  yaml:"server,omitempty"`
	Cache   *CacheSection   `json:"cache,omitempty"   toml:"cache,omitempty"   yaml:"cache,omitempty"`

	configFilePath string `toml:"-"`
}

// OutlineSection configures how the Outline API is reached.
type OutlineSection struct {
	// APIURL is the Outline API base URL, e.g. 'https://app.getoutline.com/api'.
	// Overridden by the OUTLINE_API_URL environment variable.
	APIURL *string `json:"apiUrl,omitempty" toml:"api_url,omitempty" yaml:"api_url,omitempty"`

	// Timeout bounds a single Outline request.
	Timeout *Duration `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ServerSection configures the MCP transport.
type ServerSection struct {
	// Transport is one of 'stdio', 'sse', 'streamable-http' (or its alias 'http').
	// Overridden by the MCP_TRANSPORT environment variable.
	Transport *string `json:"transport,omitempty" toml:"transport,omitempty" yaml:"transport,omitempty"`

	// Addr is the host:port HTTP transports bind to.
	// Overridden by the MCP_ADDR environment variable.
	Addr *string `json:"addr,omitempty" toml:"addr,omitempty" yaml:"addr,omitempty"`

	// Endpoint is the path the streamable HTTP transport is mounted on.
	Endpoint *string `json:"endpoint,omitempty" toml:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// ShutdownTimeout bounds graceful shutdown of HTTP transports.
	ShutdownTimeout *Duration `json:"shutdownTimeout,omitempty" toml:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`

	CORS *CORSSection `json:"cors,omitempty" toml:"cors,omitempty" yaml:"cors,omitempty"`
}

// CORSSection contains Cross-Origin Resource Sharing (CORS) configuration for HTTP transports.
type CORSSection struct {
	Enable        *bool     `json:"enable,omitempty"           toml:"enable,omitempty"            yaml:"enable,omitempty"`
	Origins       []string  `json:"allowOrigins,omitempty"     toml:"allow_origins,omitempty"     yaml:"allow_origins,omitempty"`
	Methods       []string  `json:"allowMethods,omitempty"     toml:"allow_methods,omitempty"     yaml:"allow_methods,omitempty"`
	Headers       []string  `json:"allowHeaders,omitempty"     toml:"allow_headers,omitempty"     yaml:"allow_headers,omitempty"`
	ExposeHeaders []string  `json:"exposeHeaders,omitempty"    toml:"expose_headers,omitempty"    yaml:"expose_headers,omitempty"`
	Credentials   *bool     `json:"allowCredentials,omitempty" toml:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty"`
	MaxAge        *Duration `json:"maxAge,omitempty"           toml:"max_age,omitempty"           yaml:"max_age,omitempty"`
}

// CacheSection configures the revision cache.
type CacheSection struct {
	// MaxEntries bounds the number of cached revisions, zero means unbounded.
	MaxEntries *int `json:"maxEntries,omitempty" toml:"max_entries,omitempty" yaml:"max_entries,omitempty"`

	// TTL expires cached revisions, zero means they never expire.
	TTL *Duration `json:"ttl,omitempty" toml:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// Duration is a custom time.Duration type that provides improved marshaling.
type Duration time.Duration

// Path returns the file the configuration was loaded from, empty when defaults are in use.
func (c *Config) Path() string {
	return c.configFilePath
}

// MarshalText implements encoding.TextMarshaler for Duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// String returns the shortest exact representation of the duration, e.g. '30s' or '5m'.
func (d Duration) String() string {
	duration := time.Duration(d)
	if duration == 0 {
		return "0s"
	}

	units := []struct {
		unit   time.Duration
		suffix string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
		{time.Millisecond, "ms"},
	}

	for _, u := range units {
		if duration%u.unit == 0 {
			return fmt.Sprintf("%d%s", duration/u.unit, u.suffix)
		}
	}

	return duration.String()
}

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration format: %w", err)
	}
	*d = Duration(duration)
	return nil
}

// Std returns the value as a time.Duration.
func (d *Duration) Std() time.Duration {
	if d == nil {
		return 0
	}
	return time.Duration(*d)
}
