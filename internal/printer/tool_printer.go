package printer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mozilla-ai/outline-mcp/internal/cmd/output"
	"github.com/mozilla-ai/outline-mcp/internal/domain"
)

var _ output.Printer[ToolEntry] = (*ToolPrinter)(nil)

// ToolEntry is the printable form of a registered tool.
type ToolEntry struct {
	Name        string          `json:"name"                yaml:"name"`
	Category    string          `json:"category"            yaml:"category"`
	Description string          `json:"description"         yaml:"description"`
	Arguments   []ArgumentEntry `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// ArgumentEntry describes a single tool argument.
type ArgumentEntry struct {
	Name        string `json:"name"                  yaml:"name"`
	Type        string `json:"type,omitempty"        yaml:"type,omitempty"`
	Required    bool   `json:"required"              yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewToolEntry converts a tool descriptor, listing required arguments before optional ones.
func NewToolEntry(d domain.ToolDescriptor) ToolEntry {
	def := d.Definition

	args := make([]ArgumentEntry, 0, len(def.InputSchema.Properties))
	for name, raw := range def.InputSchema.Properties {
		arg := ArgumentEntry{
			Name:     name,
			Required: slices.Contains(def.InputSchema.Required, name),
		}
		if prop, ok := raw.(map[string]any); ok {
			arg.Type, _ = prop["type"].(string)
			arg.Description, _ = prop["description"].(string)
		}
		args = append(args, arg)
	}

	slices.SortFunc(args, func(a, b ArgumentEntry) int {
		if a.Required != b.Required {
			if a.Required {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})

	return ToolEntry{
		Name:        def.Name,
		Category:    d.Category,
		Description: def.Description,
		Arguments:   args,
	}
}

// ToolPrinter prints tools as text, one block per tool.
type ToolPrinter struct {
	headerFunc output.WriteFunc[ToolEntry]
	footerFunc output.WriteFunc[ToolEntry]
}

// NewToolPrinter returns a ToolPrinter with the default header and footer.
func NewToolPrinter() *ToolPrinter {
	return &ToolPrinter{
		footerFunc: func(w io.Writer, count int) {
			_, _ = fmt.Fprintf(w, "%d tool(s)\n", count)
		},
	}
}

func (p *ToolPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ToolPrinter) SetHeader(fn output.WriteFunc[ToolEntry]) {
	p.headerFunc = fn
}

func (p *ToolPrinter) Item(w io.Writer, entry ToolEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("tool in category '%s' has no name", entry.Category)
	}

	_, _ = fmt.Fprintf(w, "%s [%s]\n", entry.Name, entry.Category)
	if desc := firstLine(entry.Description); desc != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", desc)
	}

	for _, arg := range entry.Arguments {
		marker := ""
		if arg.Required {
			marker = " (required)"
		}
		typ := arg.Type
		if typ == "" {
			typ = "any"
		}
		_, _ = fmt.Fprintf(w, "    - %s: %s%s\n", arg.Name, typ, marker)
	}

	_, _ = fmt.Fprintln(w)
	return nil
}

func (p *ToolPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ToolPrinter) SetFooter(fn output.WriteFunc[ToolEntry]) {
	p.footerFunc = fn
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
