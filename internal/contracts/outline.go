package contracts

import (
	"github.com/mozilla-ai/outline-mcp/internal/domain"
)

// StatusReporter provides a snapshot of the running bridge.
type StatusReporter interface {
	// Status returns the current status.
	Status() domain.ServerStatus
}

// ToolCatalog provides read access to the registered tools.
type ToolCatalog interface {
	// Catalog returns every registered tool, in registration order.
	Catalog() []domain.ToolDescriptor

	// Describe returns the named tool.
	// It returns a boolean to indicate whether the tool was found.
	Describe(name string) (domain.ToolDescriptor, bool)
}
