// Package tools implements the MCP tools that bridge to the Outline API.
//
// Each tool decodes and validates its arguments, resolves an Outline client for the caller's credential,
// performs one or more Outline operations and renders the result as readable markdown.
// Failures never escape as Go errors: they are rendered as tool results flagged as errors,
// with text beginning with "Error".
package tools

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"

	"github.com/mozilla-ai/outline-mcp/internal/cache"
	"github.com/mozilla-ai/outline-mcp/internal/domain"
	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

// Category groups related tools.
type Category string

const (
	CategorySearch       Category = "search"
	CategoryReading      Category = "reading"
	CategoryContent      Category = "content"
	CategoryOrganization Category = "organization"
	CategoryLifecycle    Category = "lifecycle"
	CategoryCollections  Category = "collections"
	CategoryAI           Category = "ai"
	CategoryRevisions    Category = "revisions"
	CategoryImport       Category = "import"
)

// Tool is a registered MCP tool.
type Tool struct {
	Category   Category
	Definition mcp.Tool
	Handler    server.ToolHandlerFunc

	schema *gojsonschema.Schema
}

// Name returns the tool name.
func (t Tool) Name() string {
	return t.Definition.Name
}

// Dependencies contains the required external dependencies for the toolset.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// Clients resolves an Outline client per call.
	Clients ClientProvider

	// Revisions caches immutable document revisions.
	Revisions *cache.Cache

	// Logger for tool operations.
	Logger hclog.Logger
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(logger hclog.Logger, clients ClientProvider, revisions *cache.Cache) (Dependencies, error) {
	deps := Dependencies{
		Clients:   clients,
		Revisions: revisions,
		Logger:    logger,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided.
func (d Dependencies) Validate() error {
	if d.Clients == nil || reflect.ValueOf(d.Clients).IsNil() {
		return fmt.Errorf("client provider cannot be nil")
	}
	if d.Revisions == nil {
		return fmt.Errorf("revision cache cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}

// Toolset holds every Outline tool.
// NewToolset should be used to create instances of Toolset.
type Toolset struct {
	clients   ClientProvider
	revisions *cache.Cache
	logger    hclog.Logger

	tools  []Tool
	byName map[string]Tool
}

// NewToolset creates the toolset and compiles each tool's input schema.
func NewToolset(deps Dependencies) (*Toolset, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	t := &Toolset{
		clients:   deps.Clients,
		revisions: deps.Revisions,
		logger:    deps.Logger.Named("tools"),
		byName:    make(map[string]Tool),
	}

	groups := [][]Tool{
		t.searchTools(),
		t.readingTools(),
		t.contentTools(),
		t.organizationTools(),
		t.lifecycleTools(),
		t.collectionTools(),
		t.aiTools(),
		t.revisionTools(),
		t.importTools(),
	}

	for _, group := range groups {
		for _, tool := range group {
			name := tool.Name()
			if _, exists := t.byName[name]; exists {
				return nil, fmt.Errorf("duplicate tool '%s'", name)
			}

			schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(tool.Definition.InputSchema))
			if err != nil {
				return nil, fmt.Errorf("invalid input schema for tool '%s': %w", name, err)
			}
			tool.schema = schema

			t.tools = append(t.tools, tool)
			t.byName[name] = tool
		}
	}

	return t, nil
}

// Tools returns every tool, in registration order.
func (t *Toolset) Tools() []Tool {
	return slices.Clone(t.tools)
}

// Lookup returns the named tool.
func (t *Toolset) Lookup(name string) (Tool, bool) {
	tool, ok := t.byName[name]
	return tool, ok
}

// Names returns the sorted tool names.
func (t *Toolset) Names() []string {
	names := make([]string, 0, len(t.tools))
	for _, tool := range t.tools {
		names = append(names, tool.Name())
	}
	slices.Sort(names)
	return names
}

// Catalog returns a descriptor for every tool, in registration order.
func (t *Toolset) Catalog() []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(t.tools))
	for _, tool := range t.tools {
		out = append(out, tool.descriptor())
	}
	return out
}

// Describe returns the descriptor for the named tool.
func (t *Toolset) Describe(name string) (domain.ToolDescriptor, bool) {
	tool, ok := t.byName[name]
	if !ok {
		return domain.ToolDescriptor{}, false
	}
	return tool.descriptor(), true
}

func (t Tool) descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{Category: string(t.Category), Definition: t.Definition}
}

// ServerTools returns the tools in the form accepted by server.MCPServer.AddTools.
func (t *Toolset) ServerTools() []server.ServerTool {
	out := make([]server.ServerTool, 0, len(t.tools))
	for _, tool := range t.tools {
		out = append(out, server.ServerTool{Tool: tool.Definition, Handler: tool.Handler})
	}
	return out
}

// CacheStats reports revision cache usage.
func (t *Toolset) CacheStats() cache.Stats {
	return t.revisions.Stats()
}

// session is the per-call context handed to tool implementations.
type session struct {
	client *outline.Client

	// scope is the credential fingerprint, used to partition cached revisions.
	scope string
}

// toolFunc implements a tool for decoded and validated arguments A.
type toolFunc[A any] func(ctx context.Context, s session, args A) (string, error)

// handle adapts fn into a server.ToolHandlerFunc.
// action completes the sentence "Error <action>: ..." when fn fails.
func handle[A any](t *Toolset, action string, fn toolFunc[A]) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args A
		if err := decodeArgs(request.GetArguments(), &args); err != nil {
			return errorResult(action, err), nil
		}

		client, scope, err := t.clients.Client(ctx, "")
		if err != nil {
			return errorResult(action, err), nil
		}

		text, err := fn(ctx, session{client: client, scope: scope}, args)
		if err != nil {
			t.logger.Debug("Tool call failed", "tool", request.Params.Name, "error", err)
			return errorResult(action, err), nil
		}

		return textResult(strings.TrimRight(text, "\n") + "\n"), nil
	}
}
