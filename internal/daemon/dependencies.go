package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/outline-mcp/internal/tools"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// Logger for daemon and subcomponent (API server) operations.
	Logger hclog.Logger

	// Toolset provides the tools registered with the MCP server.
	Toolset *tools.Toolset
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(logger hclog.Logger, toolset *tools.Toolset) (Dependencies, error) {
	deps := Dependencies{
		Logger:  logger,
		Toolset: toolset,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Toolset == nil {
		return fmt.Errorf("toolset cannot be nil")
	}
	return nil
}
