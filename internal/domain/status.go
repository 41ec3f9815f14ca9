package domain

import (
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusDegraded HealthStatus = "degraded"
)

// HealthStatus represents the internal state of the bridge's availability.
type HealthStatus string

// ServerStatus describes the running bridge.
type ServerStatus struct {
	Status    HealthStatus
	Version   string
	Transport string
	StartedAt time.Time

	// CredentialConfigured reports whether a fallback Outline API key was supplied through the environment.
	// When false every call must carry its own credential header.
	CredentialConfigured bool

	Tools int
	Cache CacheUsage
}

// CacheUsage is a snapshot of revision cache usage.
type CacheUsage struct {
	Entries    int
	MaxEntries int
	Hits       uint64
	Misses     uint64
}

// ToolDescriptor is a registered tool together with its category.
type ToolDescriptor struct {
	Category   string
	Definition mcp.Tool
}
