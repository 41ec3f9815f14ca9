package printer

import (
	"bytes"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/outline-mcp/internal/domain"
)

func revisionDescriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Category: "revisions",
		Definition: mcp.NewTool("get_document_revision",
			mcp.WithDescription("Gets a document revision.\nRevisions are immutable."),
			mcp.WithString("revision_id", mcp.Required(), mcp.Description("Revision ID")),
			mcp.WithBoolean("include_metadata"),
			mcp.WithString("api_key"),
		),
	}
}

func TestNewToolEntry(t *testing.T) {
	t.Parallel()

	entry := NewToolEntry(revisionDescriptor())

	require.Equal(t, "get_document_revision", entry.Name)
	require.Equal(t, "revisions", entry.Category)
	require.Equal(t, []ArgumentEntry{
		{Name: "revision_id", Type: "string", Required: true, Description: "Revision ID"},
		{Name: "api_key", Type: "string"},
		{Name: "include_metadata", Type: "boolean"},
	}, entry.Arguments)
}

func TestToolPrinter_Item(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entry    ToolEntry
		expected string
		wantErr  string
	}{
		{
			name:  "tool with arguments",
			entry: NewToolEntry(revisionDescriptor()),
			expected: "get_document_revision [revisions]\n" +
				"  Gets a document revision.\n" +
				"    - revision_id: string (required)\n" +
				"    - api_key: string\n" +
				"    - include_metadata: boolean\n\n",
		},
		{
			name:     "tool without arguments or description",
			entry:    ToolEntry{Name: "list_collections", Category: "collections"},
			expected: "list_collections [collections]\n\n",
		},
		{
			name: "argument without type",
			entry: ToolEntry{
				Name:      "import_document",
				Category:  "import",
				Arguments: []ArgumentEntry{{Name: "data"}},
			},
			expected: "import_document [import]\n    - data: any\n\n",
		},
		{
			name:    "missing name",
			entry:   ToolEntry{Category: "search"},
			wantErr: "tool in category 'search' has no name",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := NewToolPrinter().Item(&buf, tc.entry)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				require.Empty(t, buf.String())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestToolPrinter_HeaderFooter(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		p := NewToolPrinter()
		p.Header(&buf, 3)
		p.Footer(&buf, 3)
		require.Equal(t, "3 tool(s)\n", buf.String())
	})

	t.Run("custom", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		p := NewToolPrinter()
		p.SetHeader(func(w io.Writer, count int) { _, _ = io.WriteString(w, "TOOLS\n") })
		p.SetFooter(nil)
		p.Header(&buf, 1)
		p.Footer(&buf, 1)
		require.Equal(t, "TOOLS\n", buf.String())
	})
}
