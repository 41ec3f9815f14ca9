package config

import (
	"strings"

	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

const (
	EnvVarAPIURL    = outline.EnvVarBaseURL
	EnvVarTransport = "MCP_TRANSPORT"
	EnvVarAddr      = "MCP_ADDR"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides file values with the environment and re-validates the result.
// Blank environment values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	if v, ok := nonBlank(lookup, EnvVarAPIURL); ok {
		if c.Outline == nil {
			c.Outline = &OutlineSection{}
		}
		c.Outline.APIURL = &v
	}

	if v, ok := nonBlank(lookup, EnvVarTransport); ok {
		c.server().Transport = &v
	}

	if v, ok := nonBlank(lookup, EnvVarAddr); ok {
		c.server().Addr = &v
	}

	return c.Validate()
}

// OverrideServer replaces the transport and address with the non-nil values given, e.g. from command line flags,
// and re-validates the result.
func (c *Config) OverrideServer(transport *string, addr *string) error {
	if transport != nil {
		v := strings.TrimSpace(*transport)
		c.server().Transport = &v
	}
	if addr != nil {
		v := strings.TrimSpace(*addr)
		c.server().Addr = &v
	}

	return c.Validate()
}

func (c *Config) server() *ServerSection {
	if c.Server == nil {
		c.Server = &ServerSection{}
	}
	return c.Server
}

func nonBlank(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
