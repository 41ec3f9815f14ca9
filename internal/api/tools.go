package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/outline-mcp/internal/contracts"
	"github.com/mozilla-ai/outline-mcp/internal/domain"
	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

const (
	// queryParamDetail is the name of the query parameter for detail level selection.
	queryParamDetail = "detail"

	// toolDetailFull returns all fields including the category, schema and annotations.
	toolDetailFull toolDetailLevel = "full"

	// toolDetailMinimal returns only the name.
	toolDetailMinimal toolDetailLevel = "minimal"

	// toolDetailSummary returns name, category and description.
	toolDetailSummary toolDetailLevel = "summary"
)

// toolDetailLevel defines the amount of information to return about tools.
type toolDetailLevel string

// ToolView is a union constraint for all tool view types.
type ToolView interface {
	ToolMinimal | ToolSummary | Tool
}

// ToolsResponseBody represents the body of a tools response.
type ToolsResponseBody[T ToolView] struct {
	Tools []T `json:"tools"`
}

// ToolsResponse represents a generic wrapped API response for tool collections.
type ToolsResponse[T ToolView] struct {
	Body ToolsResponseBody[T]
}

// ToolsRequest represents the incoming request for listing tools.
type ToolsRequest struct {
	Detail   string `doc:"Detail level: minimal, summary or full" example:"summary"   query:"detail"   required:"false"`
	Category string `doc:"Only return tools in this category"     example:"revisions" query:"category" required:"false"`
}

// ToolRequest represents the incoming request for a single tool.
type ToolRequest struct {
	Name string `doc:"Name of the tool" example:"search_documents" path:"name"`
}

// ToolResponse represents the wrapped API response for a single Tool.
type ToolResponse struct {
	Body Tool
}

// ToolMinimal represents minimal tool information.
type ToolMinimal struct {
	// Name of the tool.
	Name string `doc:"Name of the tool" json:"name"`
}

// ToolSummary represents summary tool information including category and description.
type ToolSummary struct {
	ToolMinimal

	// Category groups related tools, e.g. "revisions".
	Category string `doc:"Tool category" json:"category"`

	// Description is a human-readable description of the tool.
	Description string `doc:"Description of what the tool does" json:"description"`
}

// Tool represents complete tool information including the input schema and annotations.
type Tool struct {
	ToolSummary

	// InputSchema is JSONSchema defining the expected parameters for the tool.
	InputSchema *JSONSchema `doc:"Input parameters schema" json:"inputSchema,omitempty"`

	// Annotations provide optional additional tool information.
	Annotations *ToolAnnotations `doc:"Additional hints about the tool" json:"annotations,omitempty"`
}

// JSONSchema defines the structure for a JSON schema object.
type JSONSchema struct {
	// Type defines the type for this schema, e.g. "object".
	Type string `json:"type"`

	// Properties represents a property name and associated object definition.
	Properties map[string]any `json:"properties,omitempty"`

	// Required lists the (keys of) Properties that are required.
	Required []string `json:"required,omitempty"`
}

// ToolAnnotations provides additional properties describing a Tool to clients.
// NOTE: all properties in ToolAnnotations are **hints**.
type ToolAnnotations struct {
	Title           *string `json:"title,omitempty"`
	ReadOnlyHint    *bool   `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool   `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool   `json:"idempotentHint,omitempty"`
	OpenWorldHint   *bool   `json:"openWorldHint,omitempty"`
}

// domainTool wraps domain.ToolDescriptor for conversion to Tool via ToAPIType.
type domainTool domain.ToolDescriptor

// domainToolMinimal wraps Tool for projection to ToolMinimal via ToAPIType.
type domainToolMinimal Tool

// domainToolSummary wraps Tool for projection to ToolSummary via ToAPIType.
type domainToolSummary Tool

var (
	_ Convertible[Tool]        = domainTool{}
	_ Convertible[ToolMinimal] = domainToolMinimal{}
	_ Convertible[ToolSummary] = domainToolSummary{}
)

// Normalize handles case-insensitivity and trimming, providing a safe default.
func (t toolDetailLevel) Normalize() toolDetailLevel {
	normalized := toolDetailLevel(strings.ToLower(strings.TrimSpace(string(t))))
	switch normalized {
	case toolDetailMinimal, toolDetailSummary, toolDetailFull:
		return normalized
	default:
		return toolDetailFull
	}
}

// ToAPIType converts a wrapped domain type to Tool.
func (d domainTool) ToAPIType() (Tool, error) {
	def := d.Definition
	if strings.TrimSpace(def.Name) == "" {
		return Tool{}, fmt.Errorf("tool in category '%s' has no name", d.Category)
	}

	annotations := toolAnnotations(def.Annotations)
	if annotations.IsZero() {
		annotations = nil
	}

	return Tool{
		ToolSummary: ToolSummary{
			ToolMinimal: ToolMinimal{Name: def.Name},
			Category:    d.Category,
			Description: def.Description,
		},
		InputSchema: &JSONSchema{
			Type:       def.InputSchema.Type,
			Properties: def.InputSchema.Properties,
			Required:   def.InputSchema.Required,
		},
		Annotations: annotations,
	}, nil
}

// ToAPIType projects Tool to ToolMinimal.
func (t domainToolMinimal) ToAPIType() (ToolMinimal, error) {
	return t.ToolMinimal, nil
}

// ToAPIType projects Tool to ToolSummary.
func (t domainToolSummary) ToAPIType() (ToolSummary, error) {
	return t.ToolSummary, nil
}

func toolAnnotations(a mcp.ToolAnnotation) *ToolAnnotations {
	out := &ToolAnnotations{
		ReadOnlyHint:    a.ReadOnlyHint,
		DestructiveHint: a.DestructiveHint,
		IdempotentHint:  a.IdempotentHint,
		OpenWorldHint:   a.OpenWorldHint,
	}
	if a.Title != "" {
		title := a.Title
		out.Title = &title
	}
	return out
}

// IsZero reports whether the ToolAnnotations struct has no meaningful values set.
// This is useful to avoid emitting empty "annotations" objects in JSON output.
func (a *ToolAnnotations) IsZero() bool {
	if a == nil {
		return true
	}

	if a.Title != nil && *a.Title != "" {
		return false
	}

	return a.ReadOnlyHint == nil && a.DestructiveHint == nil && a.IdempotentHint == nil && a.OpenWorldHint == nil
}

// RegisterToolRoutes sets up the tool catalog routes.
func RegisterToolRoutes(parentAPI huma.API, catalog contracts.ToolCatalog, apiPathPrefix string) {
	tags := []string{"Tools"}

	huma.Register(
		parentAPI,
		huma.Operation{
			OperationID: "listTools",
			Method:      http.MethodGet,
			Path:        apiPathPrefix,
			Summary:     "List registered tools",
			Description: "Returns tools with configurable detail level via ?detail= query parameter (minimal, summary, full)",
			Tags:        tags,
		},
		func(ctx context.Context, input *ToolsRequest) (*ToolsResponse[Tool], error) {
			return handleTools(catalog, input.Category)
		},
	)

	huma.Register(
		parentAPI,
		huma.Operation{
			OperationID: "getTool",
			Method:      http.MethodGet,
			Path:        apiPathPrefix + "/{name}",
			Summary:     "Get a registered tool",
			Tags:        tags,
		},
		func(ctx context.Context, input *ToolRequest) (*ToolResponse, error) {
			return handleTool(catalog, input.Name)
		},
	)
}

// handleTools is the handler for listing the registered tools, optionally filtered by category.
func handleTools(catalog contracts.ToolCatalog, category string) (*ToolsResponse[Tool], error) {
	category = strings.ToLower(strings.TrimSpace(category))

	descriptors := catalog.Catalog()
	apiTools := make([]Tool, 0, len(descriptors))
	for _, d := range descriptors {
		if category != "" && d.Category != category {
			continue
		}
		tool, err := domainTool(d).ToAPIType()
		if err != nil {
			return nil, err
		}
		apiTools = append(apiTools, tool)
	}

	resp := &ToolsResponse[Tool]{}
	resp.Body.Tools = apiTools

	return resp, nil
}

// handleTool is the handler for retrieving a single registered tool.
func handleTool(catalog contracts.ToolCatalog, name string) (*ToolResponse, error) {
	d, ok := catalog.Describe(name)
	if !ok {
		return nil, fmt.Errorf("%w: tool '%s'", errors.ErrNotFound, name)
	}

	tool, err := domainTool(d).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &ToolResponse{Body: tool}, nil
}

// toolFieldSelectTransformer transforms tool responses based on the detail query parameter.
// It filters the response to return only the requested level of detail: minimal, summary, or full.
func toolFieldSelectTransformer(ctx huma.Context, _ string, v any) (any, error) {
	detail := toolDetailLevel(ctx.Query(queryParamDetail)).Normalize()
	if detail == toolDetailFull {
		return v, nil
	}

	// Huma passes the Body field to transformers, not the full response.
	body, ok := v.(ToolsResponseBody[Tool])
	if !ok {
		return v, nil
	}

	switch detail {
	case toolDetailMinimal:
		minimal, err := project(body.Tools, func(t Tool) Convertible[ToolMinimal] { return domainToolMinimal(t) })
		if err != nil {
			return nil, err
		}
		return ToolsResponseBody[ToolMinimal]{Tools: minimal}, nil
	case toolDetailSummary:
		summary, err := project(body.Tools, func(t Tool) Convertible[ToolSummary] { return domainToolSummary(t) })
		if err != nil {
			return nil, err
		}
		return ToolsResponseBody[ToolSummary]{Tools: summary}, nil
	default:
		return v, nil
	}
}
