package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/outline-mcp/internal/domain"
	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

type fakeReporter struct {
	status domain.ServerStatus
}

func (f *fakeReporter) Status() domain.ServerStatus {
	return f.status
}

type fakeCatalog struct {
	tools []domain.ToolDescriptor
}

func (f *fakeCatalog) Catalog() []domain.ToolDescriptor {
	return f.tools
}

func (f *fakeCatalog) Describe(name string) (domain.ToolDescriptor, bool) {
	for _, t := range f.tools {
		if t.Definition.Name == name {
			return t, true
		}
	}
	return domain.ToolDescriptor{}, false
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{tools: []domain.ToolDescriptor{
		{
			Category: "search",
			Definition: mcp.NewTool("search_documents",
				mcp.WithDescription("Searches documents."),
				mcp.WithString("query", mcp.Required()),
			),
		},
		{
			Category: "revisions",
			Definition: mcp.NewTool("get_document_revision",
				mcp.WithDescription("Gets a revision."),
				mcp.WithString("revision_id", mcp.Required()),
			),
		},
	}}
}

func newTestAPI(t *testing.T, reporter *fakeReporter, catalog *fakeCatalog) humatest.TestAPI {
	t.Helper()

	_, testAPI := humatest.New(t, NewConfig("outline-mcp", "test"))
	prefix, err := RegisterRoutes(testAPI, reporter, catalog)
	require.NoError(t, err)
	require.Equal(t, "/api/v1", prefix)

	return testAPI
}

func TestRegisterRoutes_NilDependencies(t *testing.T) {
	t.Parallel()

	_, testAPI := humatest.New(t)

	_, err := RegisterRoutes(nil, &fakeReporter{}, testCatalog())
	require.EqualError(t, err, "router cannot be nil")

	var reporter *fakeReporter
	_, err = RegisterRoutes(testAPI, reporter, testCatalog())
	require.EqualError(t, err, "status reporter cannot be nil")

	_, err = RegisterRoutes(testAPI, &fakeReporter{}, nil)
	require.EqualError(t, err, "tool catalog cannot be nil")
}

func TestHealthRoute(t *testing.T) {
	t.Parallel()

	started := time.Now().Add(-90 * time.Second)
	reporter := &fakeReporter{status: domain.ServerStatus{
		Status:               domain.HealthStatusOK,
		Version:              "v1.2.3",
		Transport:            "streamable-http",
		StartedAt:            started,
		CredentialConfigured: true,
		Tools:                32,
		Cache:                domain.CacheUsage{Entries: 2, MaxEntries: 1000, Hits: 5, Misses: 2},
	}}

	testAPI := newTestAPI(t, reporter, testCatalog())

	resp := testAPI.Get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var got Health
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Equal(t, HealthStatusOK, got.Status)
	require.Equal(t, "v1.2.3", got.Version)
	require.Equal(t, "streamable-http", got.Transport)
	require.True(t, got.CredentialConfigured)
	require.Equal(t, 32, got.Tools)
	require.Equal(t, CacheStats{Entries: 2, MaxEntries: 1000, Hits: 5, Misses: 2}, got.Cache)
	require.NotEmpty(t, got.Uptime)
}

func TestParseHealthStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   domain.HealthStatus
		want    HealthStatus
		wantErr string
	}{
		{name: "ok", input: domain.HealthStatusOK, want: HealthStatusOK},
		{name: "degraded", input: domain.HealthStatusDegraded, want: HealthStatusDegraded},
		{name: "invalid", input: "sideways", wantErr: "unknown health status: sideways"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseHealthStatus(tc.input)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestToolRoutes_List(t *testing.T) {
	t.Parallel()

	testAPI := newTestAPI(t, &fakeReporter{status: domain.ServerStatus{Status: domain.HealthStatusOK}}, testCatalog())

	tests := []struct {
		name      string
		path      string
		wantNames []string
		wantKeys  []string
		absent    []string
	}{
		{
			name:      "full by default",
			path:      "/api/v1/tools",
			wantNames: []string{"search_documents", "get_document_revision"},
			wantKeys:  []string{"name", "category", "description", "inputSchema"},
		},
		{
			name:      "summary",
			path:      "/api/v1/tools?detail=summary",
			wantNames: []string{"search_documents", "get_document_revision"},
			wantKeys:  []string{"name", "category", "description"},
			absent:    []string{"inputSchema"},
		},
		{
			name:      "minimal normalizes case",
			path:      "/api/v1/tools?detail=%20MINIMAL%20",
			wantNames: []string{"search_documents", "get_document_revision"},
			wantKeys:  []string{"name"},
			absent:    []string{"category", "description", "inputSchema"},
		},
		{
			name:      "unknown detail falls back to full",
			path:      "/api/v1/tools?detail=everything",
			wantNames: []string{"search_documents", "get_document_revision"},
			wantKeys:  []string{"inputSchema"},
		},
		{
			name:      "category filter",
			path:      "/api/v1/tools?category=Revisions",
			wantNames: []string{"get_document_revision"},
		},
		{
			name:      "unknown category",
			path:      "/api/v1/tools?category=nope",
			wantNames: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp := testAPI.Get(tc.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var body struct {
				Tools []map[string]any `json:"tools"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

			names := make([]string, 0, len(body.Tools))
			for _, tool := range body.Tools {
				names = append(names, tool["name"].(string))
				for _, k := range tc.wantKeys {
					require.Contains(t, tool, k)
				}
				for _, k := range tc.absent {
					require.NotContains(t, tool, k)
				}
			}
			require.Equal(t, tc.wantNames, names)
		})
	}
}

func TestToolRoutes_Get(t *testing.T) {
	t.Parallel()

	testAPI := newTestAPI(t, &fakeReporter{status: domain.ServerStatus{Status: domain.HealthStatusOK}}, testCatalog())

	resp := testAPI.Get("/api/v1/tools/get_document_revision")
	require.Equal(t, http.StatusOK, resp.Code)

	var got Tool
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Equal(t, "get_document_revision", got.Name)
	require.Equal(t, "revisions", got.Category)
	require.Equal(t, "object", got.InputSchema.Type)
	require.Equal(t, []string{"revision_id"}, got.InputSchema.Required)
}

func TestHandleTool_NotFound(t *testing.T) {
	t.Parallel()

	_, err := handleTool(testCatalog(), "missing")
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.EqualError(t, err, "not found: tool 'missing'")
}

func TestDomainTool_ToAPIType(t *testing.T) {
	t.Parallel()

	_, err := domainTool(domain.ToolDescriptor{Category: "search"}).ToAPIType()
	require.EqualError(t, err, "tool in category 'search' has no name")

	readOnly := true
	def := mcp.NewTool("read_document", mcp.WithDescription("Reads."))
	def.Annotations = mcp.ToolAnnotation{Title: "Read", ReadOnlyHint: &readOnly}

	got, err := domainTool(domain.ToolDescriptor{Category: "reading", Definition: def}).ToAPIType()
	require.NoError(t, err)
	require.NotNil(t, got.Annotations)
	require.Equal(t, "Read", *got.Annotations.Title)
	require.True(t, *got.Annotations.ReadOnlyHint)
	require.Nil(t, got.Annotations.DestructiveHint)

	def.Annotations = mcp.ToolAnnotation{}
	got, err = domainTool(domain.ToolDescriptor{Category: "reading", Definition: def}).ToAPIType()
	require.NoError(t, err)
	require.Nil(t, got.Annotations)
}

func TestToolDetailLevel_Normalize(t *testing.T) {
	t.Parallel()

	tests := map[string]toolDetailLevel{
		"":          toolDetailFull,
		"full":      toolDetailFull,
		" Summary ": toolDetailSummary,
		"MINIMAL":   toolDetailMinimal,
		"bogus":     toolDetailFull,
	}

	for in, want := range tests {
		require.Equal(t, want, toolDetailLevel(in).Normalize(), in)
	}
}

func TestToolAnnotations_IsZero(t *testing.T) {
	t.Parallel()

	var nilAnnotations *ToolAnnotations
	require.True(t, nilAnnotations.IsZero())
	require.True(t, (&ToolAnnotations{}).IsZero())

	empty := ""
	require.True(t, (&ToolAnnotations{Title: &empty}).IsZero())

	hint := false
	require.False(t, (&ToolAnnotations{OpenWorldHint: &hint}).IsZero())
}
