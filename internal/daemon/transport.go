package daemon

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Transport identifies how MCP messages reach the bridge.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"

	// transportHTTPAlias is accepted as a synonym for TransportStreamableHTTP.
	transportHTTPAlias = "http"
)

// Transports returns the supported transports, default first.
func Transports() []Transport {
	return []Transport{TransportStdio, TransportSSE, TransportStreamableHTTP}
}

// ParseTransport normalizes raw into a Transport.
// An empty value selects stdio.
func ParseTransport(raw string) (Transport, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "":
		return TransportStdio, nil
	case transportHTTPAlias:
		return TransportStreamableHTTP, nil
	}

	for _, t := range Transports() {
		if v == string(t) {
			return t, nil
		}
	}

	return "", fmt.Errorf("unknown transport '%s', expected one of: %s", raw, strings.Join(transportNames(), ", "))
}

// ResolveTransport parses raw, logging an error and falling back to stdio when it is not a known transport.
func ResolveTransport(logger hclog.Logger, raw string) Transport {
	t, err := ParseTransport(raw)
	if err != nil {
		logger.Error("Invalid transport, falling back to stdio", "error", err)
		return TransportStdio
	}
	return t
}

// IsHTTP reports whether the transport is served over HTTP.
func (t Transport) IsHTTP() bool {
	return t == TransportSSE || t == TransportStreamableHTTP
}

func (t Transport) String() string {
	return string(t)
}

func transportNames() []string {
	all := Transports()
	names := make([]string, 0, len(all)+1)
	for _, t := range all {
		names = append(names, string(t))
	}
	return append(names, transportHTTPAlias)
}
