//go:build docsgen_api

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/outline-mcp/internal/api"
	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	"github.com/mozilla-ai/outline-mcp/internal/domain"
)

// stubReporter satisfies contracts.StatusReporter for documentation generation.
type stubReporter struct{}

func (stubReporter) Status() domain.ServerStatus { return domain.ServerStatus{Status: domain.HealthStatusOK} }

// stubCatalog satisfies contracts.ToolCatalog for documentation generation.
type stubCatalog struct{}

func (stubCatalog) Catalog() []domain.ToolDescriptor { return nil }

func (stubCatalog) Describe(string) (domain.ToolDescriptor, bool) { return domain.ToolDescriptor{}, false }

// main generates the OpenAPI specification for the status API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   cmd.AppName + ".docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	outputPath := "./docs/api/openapi.yaml"

	// Same router setup as the HTTP transports.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	router := humachi.New(mux, api.NewConfig(cmd.AppName+" API", api.APIVersion))

	// Only the route definitions matter here, never the handlers.
	apiPathPrefix, err := api.RegisterRoutes(router, stubReporter{}, stubCatalog{})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}
	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0o644); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
