package tools

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/outline-mcp/internal/auth"
	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

func TestGetDocumentRevision_ServedFromCacheOnSecondCall(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "key", map[string]cannedResponse{
		"/api/revisions.info": {body: `{"data":{"id":"rev123","documentId":"doc1","title":"Test Document v2","text":"This is the second version","createdAt":"2023-12-01T10:00:00Z","createdBy":{"name":"John Doe"}}}`},
	})

	first := env.call(t, context.Background(), "get_document_revision", map[string]any{"revision_id": "rev123"})
	require.False(t, first.IsError, resultText(first))
	text := resultText(first)
	require.Contains(t, text, "# Document Revision")
	require.Contains(t, text, "**Revision ID:** rev123")
	require.Contains(t, text, "**Title:** Test Document v2")
	require.Contains(t, text, "**Created:** 2023-12-01T10:00:00Z")
	require.Contains(t, text, "**Author:** John Doe")
	require.Contains(t, text, "This is the second version")
	require.NotContains(t, text, cacheMarker)

	second := env.call(t, context.Background(), "get_document_revision", map[string]any{"revision_id": "rev123"})
	require.False(t, second.IsError)
	require.Contains(t, resultText(second), cacheMarker)
	require.True(t, strings.HasPrefix(resultText(second), strings.TrimRight(text, "\n")))

	require.Len(t, env.fake.callsTo("/api/revisions.info"), 1)
	require.Equal(t, 1, env.toolset.CacheStats().Entries)
}

func TestGetDocumentRevision_CacheIsScopedByCredential(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "", map[string]cannedResponse{
		"/api/revisions.info": {body: `{"data":{"id":"rev1","title":"Secret"}}`},
	})

	withKey := func(key string) context.Context {
		h := http.Header{}
		h.Set(auth.HeaderAuthorization, "Bearer "+key)
		return auth.WithHeaders(context.Background(), h)
	}

	env.call(t, withKey("alice"), "get_document_revision", map[string]any{"revision_id": "rev1"})
	res := env.call(t, withKey("bob"), "get_document_revision", map[string]any{"revision_id": "rev1"})
	require.NotContains(t, resultText(res), cacheMarker)

	calls := env.fake.callsTo("/api/revisions.info")
	require.Len(t, calls, 2)
	require.Equal(t, "Bearer alice", calls[0].Authorization)
	require.Equal(t, "Bearer bob", calls[1].Authorization)
}

func TestGetDocumentRevision_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "key", map[string]cannedResponse{
		"/api/revisions.info": {status: http.StatusInternalServerError, body: `{"message":"boom"}`},
	})

	for range 2 {
		res := env.call(t, context.Background(), "get_document_revision", map[string]any{"revision_id": "rev1"})
		require.True(t, res.IsError)
		require.Equal(t, "Error retrieving revision: Outline API returned 500: boom", resultText(res))
	}
	require.Len(t, env.fake.callsTo("/api/revisions.info"), 2)
}

func TestGetDocumentRevisionWithMetadata(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "key", map[string]cannedResponse{
		"/api/revisions.info": {body: `{"data":{"id":"rev1","documentId":"doc1","title":"T","text":"one two\nthree"}}`},
	})

	res := env.call(t, context.Background(), "get_document_revision_with_metadata", map[string]any{"revision_id": "rev1"})
	text := resultText(res)
	require.Contains(t, text, "## Revision Statistics")
	require.Contains(t, text, "**Length:** 13 characters")
	require.Contains(t, text, "**Words:** 3")
	require.Contains(t, text, "**Lines:** 2")
}

func TestListDocumentRevisions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "key", map[string]cannedResponse{
		"/api/revisions.list": {body: `{"data":[
			{"id":"rev123","title":"Test Document v2","createdAt":"2023-12-01T10:00:00Z","createdBy":{"name":"John Doe"}},
			{"id":"rev122","title":"Test Document v1","createdAt":"2023-11-30T10:00:00Z"}
		]}`},
	})

	res := env.call(t, context.Background(), "list_document_revisions", map[string]any{"document_id": "doc123"})
	text := resultText(res)
	require.Contains(t, text, "# Document Revisions (2 found)")
	require.Contains(t, text, "## 1. Test Document v2")
	require.Contains(t, text, "## 2. Test Document v1")
	require.Contains(t, text, "Author: Unknown")
	require.Contains(t, text, "Showing 2 revisions")

	calls := env.fake.callsTo("/api/revisions.list")
	require.Len(t, calls, 1)
	require.Equal(t, map[string]any{"documentId": "doc123", "limit": float64(25)}, calls[0].Body)
}

func TestCompareRevisions_Output(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "key", nil)
	scope := auth.Fingerprint("key")

	for _, rev := range []outline.Revision{
		{ID: "rev122", Title: "Plan", Text: "a\nb\nc", CreatedAt: "2023-11-30T10:00:00Z"},
		{ID: "rev123", Title: "Plan v2", Text: "a\nc\nd\ne", CreatedAt: "2023-12-01T10:00:00Z", CreatedBy: &outline.User{Name: "Jane"}},
	} {
		seedRevision(t, env, scope, rev)
	}

	res := env.call(t, context.Background(), "compare_document_revisions", map[string]any{
		"revision_id_1": "rev122",
		"revision_id_2": "rev123",
	})
	require.False(t, res.IsError, resultText(res))

	text := resultText(res)
	require.Contains(t, text, "# Detailed Revision Comparison")
	require.Contains(t, text, "## Revision 1 (rev122)")
	require.Contains(t, text, "## Revision 2 (rev123)")
	require.Contains(t, text, "## Content Analysis")
	require.Contains(t, text, "**Revision 1:** 5 chars, 3 words, 3 lines")
	require.Contains(t, text, "**Revision 2:** 7 chars, 4 words, 4 lines")
	require.Contains(t, text, "## Changes Summary")
	require.Contains(t, text, "**Title changed:** 'Plan' → 'Plan v2'")
	require.Contains(t, text, "**Size change:** +2 chars, +1 words, +1 lines")
	require.Contains(t, text, "**Lines added:** 2")
	require.Contains(t, text, "**Lines removed:** 1")
	require.Contains(t, text, cacheMarker)
	require.Zero(t, env.fake.total())
}

func seedRevision(t *testing.T, env testEnv, scope string, rev outline.Revision) {
	t.Helper()

	key := revisionCacheKey(scope, "", rev.ID)
	_, _, err := env.toolset.revisions.GetOrFetch(context.Background(), key, func(context.Context) (outline.Revision, error) {
		return rev, nil
	})
	require.NoError(t, err)
}

func TestGetRevisionHistorySummary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "key", map[string]cannedResponse{
		"/api/revisions.list": {body: `{"data":[
			{"id":"r3","title":"Plan v2","text":"abcdef","createdAt":"2023-12-03T12:00:00Z","createdBy":{"name":"Jane"}},
			{"id":"r2","title":"Plan","text":"abcd","createdAt":"2023-12-02T10:00:00Z","createdBy":{"name":"John"}},
			{"id":"r1","title":"Plan","text":"ab","createdAt":"2023-12-01T10:00:00Z","createdBy":{"name":"Jane"}}
		]}`},
	})

	res := env.call(t, context.Background(), "get_revision_history_summary", map[string]any{"document_id": "doc1"})
	require.False(t, res.IsError, resultText(res))

	text := resultText(res)
	require.Contains(t, text, "# Revision History Summary")
	require.Contains(t, text, "**Analyzed Revisions:** 3")
	require.Contains(t, text, "**Contributors:** 2 unique author(s)")
	require.Contains(t, text, "**First Revision:** 2023-12-01T10:00:00Z")
	require.Contains(t, text, "**Latest Revision:** 2023-12-03T12:00:00Z")
	require.Contains(t, text, "**Time Span:** 2 day(s), 2 hour(s)")
	require.Contains(t, text, "## Activity Summary")
	require.Contains(t, text, "- Jane: 2 revision(s)\n- John: 1 revision(s)")
	require.Contains(t, text, "## Change Analysis")
	require.Contains(t, text, "**Title Changes:** 1")
	require.Contains(t, text, "**Title Evolution:** 'Plan' → 'Plan v2'")
	require.Contains(t, text, "**Size Change:** +4 chars")

	require.Equal(t, float64(defaultHistoryLimit), env.fake.callsTo("/api/revisions.list")[0].Body["limit"])
}

func TestFormatRevision(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1200)

	tests := []struct {
		name     string
		rev      outline.Revision
		contains []string
		absent   []string
	}{
		{
			name:     "empty",
			rev:      outline.Revision{},
			contains: []string{"No revision information found."},
		},
		{
			name:     "missing fields",
			rev:      outline.Revision{ID: "rev125", Title: "Partial Doc"},
			contains: []string{"rev125", "Partial Doc", "**Created:** Unknown", "**Author:** Unknown"},
			absent:   []string{"**Content:**"},
		},
		{
			name:     "long text truncated",
			rev:      outline.Revision{ID: "rev124", Title: "Long Document", Text: long},
			contains: []string{"**Content:**\n" + strings.Repeat("x", revisionPreviewChars) + "...\n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := formatRevision(tc.rev)
			for _, s := range tc.contains {
				require.Contains(t, got, s)
			}
			for _, s := range tc.absent {
				require.NotContains(t, got, s)
			}
			require.Less(t, len(got), 1000)
		})
	}
}

func TestLineChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		older       string
		newer       string
		wantAdded   int
		wantRemoved int
	}{
		{name: "identical", older: "a\nb", newer: "a\nb"},
		{name: "from empty", older: "", newer: "a\nb", wantAdded: 2},
		{name: "to empty", older: "a\nb", newer: "", wantRemoved: 2},
		{name: "duplicates counted", older: "a\na", newer: "a", wantRemoved: 1},
		{name: "replaced line", older: "a\nb\nc", newer: "a\nx\nc", wantAdded: 1, wantRemoved: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			added, removed := lineChanges(tc.older, tc.newer)
			require.Equal(t, tc.wantAdded, added)
			require.Equal(t, tc.wantRemoved, removed)
		})
	}
}

func TestFormatSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 30 * time.Second, want: "less than a minute"},
		{d: 90 * time.Minute, want: "1 hour(s), 30 minute(s)"},
		{d: 50 * time.Hour, want: "2 day(s), 2 hour(s)"},
		{d: 72 * time.Hour, want: "3 day(s)"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, formatSpan(tc.d), tc.d.String())
	}
}
