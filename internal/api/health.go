package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/outline-mcp/internal/contracts"
	"github.com/mozilla-ai/outline-mcp/internal/domain"
)

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusDegraded HealthStatus = "degraded"
)

// HealthStatus represents the current status of the bridge.
type HealthStatus string

// DomainServerStatus is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainServerStatus domain.ServerStatus

// CacheStats reports revision cache usage.
type CacheStats struct {
	Entries    int    `doc:"Cached revisions"                        json:"entries"`
	MaxEntries int    `doc:"Cache capacity, zero when unbounded"     json:"maxEntries"`
	Hits       uint64 `doc:"Lookups served from the cache"           json:"hits"`
	Misses     uint64 `doc:"Lookups that had to fetch from Outline" json:"misses"`
}

// Health describes the running bridge.
type Health struct {
	Status               HealthStatus `doc:"Overall status"                                         json:"status"`
	Version              string       `doc:"Bridge version"                                         json:"version"`
	Transport            string       `doc:"MCP transport"                                          example:"streamable-http" json:"transport"`
	StartedAt            time.Time    `doc:"Start time"                                             json:"startedAt"`
	Uptime               string       `doc:"Time since start"                                       json:"uptime"`
	CredentialConfigured bool         `doc:"Whether a fallback Outline API key is configured"      json:"credentialConfigured"`
	Tools                int          `doc:"Number of registered tools"                             json:"tools"`
	Cache                CacheStats   `doc:"Revision cache usage"                                   json:"cache"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Body Health
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainServerStatus) ToAPIType() (Health, error) {
	status, err := parseHealthStatus(d.Status)
	if err != nil {
		return Health{}, err
	}

	var uptime string
	if !d.StartedAt.IsZero() {
		uptime = time.Since(d.StartedAt).Truncate(time.Second).String()
	}

	return Health{
		Status:               status,
		Version:              d.Version,
		Transport:            d.Transport,
		StartedAt:            d.StartedAt,
		Uptime:               uptime,
		CredentialConfigured: d.CredentialConfigured,
		Tools:                d.Tools,
		Cache: CacheStats{
			Entries:    d.Cache.Entries,
			MaxEntries: d.Cache.MaxEntries,
			Hits:       d.Cache.Hits,
			Misses:     d.Cache.Misses,
		},
	}, nil
}

// RegisterHealthRoutes sets up health-related API endpoint routes.
func RegisterHealthRoutes(routerAPI huma.API, reporter contracts.StatusReporter, apiPathPrefix string) {
	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "getHealth",
			Method:      http.MethodGet,
			Path:        apiPathPrefix,
			Summary:     "Get the status of the bridge",
			Tags:        []string{"Health"},
		},
		func(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
			return handleHealth(reporter)
		},
	)
}

// handleHealth is the handler for retrieving the current status of the bridge.
func handleHealth(reporter contracts.StatusReporter) (*HealthResponse, error) {
	data, err := DomainServerStatus(reporter.Status()).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &HealthResponse{Body: data}, nil
}

func parseHealthStatus(status domain.HealthStatus) (HealthStatus, error) {
	switch status {
	case domain.HealthStatusOK:
		return HealthStatusOK, nil
	case domain.HealthStatusDegraded:
		return HealthStatusDegraded, nil
	default:
		return "", fmt.Errorf("unknown health status: %s", status)
	}
}
