package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mozilla-ai/outline-mcp/internal/contracts"
)

// APIVersion is the version used in URL paths.
const APIVersion = "v1"

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(
	router huma.API,
	reporter contracts.StatusReporter,
	catalog contracts.ToolCatalog,
) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if reporter == nil || reflect.ValueOf(reporter).IsNil() {
		return "", fmt.Errorf("status reporter cannot be nil")
	}
	if catalog == nil || reflect.ValueOf(catalog).IsNil() {
		return "", fmt.Errorf("tool catalog cannot be nil")
	}

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterHealthRoutes(versionedGroup, reporter, "/health")
	RegisterToolRoutes(versionedGroup, catalog, "/tools")

	return apiPathPrefix, nil
}
