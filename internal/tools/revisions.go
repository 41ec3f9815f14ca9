package tools

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/outline-mcp/internal/cache"
	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

// cacheMarker is appended to output served from the revision cache.
const cacheMarker = "*[Retrieved from cache]*"

const defaultHistoryLimit = 50

type revisionArgs struct {
	RevisionID string `json:"revision_id"`
	DocumentID string `json:"document_id"`
}

func (a revisionArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.RevisionID, validation.Required))
}

type listRevisionsArgs struct {
	DocumentID string `json:"document_id"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func (a listRevisionsArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DocumentID, validation.Required),
		validation.Field(&a.Limit, limitRules...),
		validation.Field(&a.Offset, validation.Min(0)),
	)
}

type compareRevisionsArgs struct {
	RevisionID1 string `json:"revision_id_1"`
	RevisionID2 string `json:"revision_id_2"`
}

func (a compareRevisionsArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.RevisionID1, validation.Required),
		validation.Field(&a.RevisionID2, validation.Required),
	)
}

type historyArgs struct {
	DocumentID string `json:"document_id"`
	Limit      int    `json:"limit"`
}

func (a historyArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DocumentID, validation.Required),
		validation.Field(&a.Limit, limitRules...),
	)
}

func (t *Toolset) revisionTools() []Tool {
	return []Tool{
		{
			Category: CategoryRevisions,
			Definition: mcp.NewTool("get_document_revision",
				mcp.WithDescription("Gets a document revision by ID. Revisions are immutable and served from cache when possible."),
				mcp.WithString("revision_id", mcp.Required(), mcp.Description("Revision ID")),
				mcp.WithString("document_id", mcp.Description("Document the revision belongs to")),
			),
			Handler: handle(t, "retrieving revision", t.getRevision),
		},
		{
			Category: CategoryRevisions,
			Definition: mcp.NewTool("get_document_revision_with_metadata",
				mcp.WithDescription("Gets a document revision with content statistics."),
				mcp.WithString("revision_id", mcp.Required(), mcp.Description("Revision ID")),
				mcp.WithString("document_id", mcp.Description("Document the revision belongs to")),
			),
			Handler: handle(t, "retrieving revision", t.getRevisionWithMetadata),
		},
		{
			Category: CategoryRevisions,
			Definition: mcp.NewTool("list_document_revisions",
				mcp.WithDescription("Lists the revisions of a document, newest first."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of revisions"), mcp.DefaultNumber(defaultListLimit), mcp.Min(1), mcp.Max(maxListLimit)),
				mcp.WithNumber("offset", mcp.Description("Number of revisions to skip"), mcp.Min(0)),
			),
			Handler: handle(t, "retrieving revisions", t.listRevisions),
		},
		{
			Category: CategoryRevisions,
			Definition: mcp.NewTool("compare_document_revisions",
				mcp.WithDescription("Compares two revisions: title, size and line level changes."),
				mcp.WithString("revision_id_1", mcp.Required(), mcp.Description("Older revision ID")),
				mcp.WithString("revision_id_2", mcp.Required(), mcp.Description("Newer revision ID")),
			),
			Handler: handle(t, "comparing revisions", t.compareRevisions),
		},
		{
			Category: CategoryRevisions,
			Definition: mcp.NewTool("get_revision_history_summary",
				mcp.WithDescription("Summarizes a document's revision history: contributors, time span and changes."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of revisions to analyze"), mcp.DefaultNumber(defaultHistoryLimit), mcp.Min(1), mcp.Max(maxListLimit)),
			),
			Handler: handle(t, "summarizing revision history", t.revisionHistorySummary),
		},
	}
}

func revisionCacheKey(scope string, documentID string, revisionID string) cache.Key {
	return cache.Key{Scope: scope, DocumentID: documentID, RevisionID: revisionID}
}

// revision returns a revision from the cache, fetching it on a miss.
func (t *Toolset) revision(ctx context.Context, s session, documentID string, revisionID string) (outline.Revision, bool, error) {
	key := revisionCacheKey(s.scope, documentID, revisionID)

	entry, hit, err := t.revisions.GetOrFetch(ctx, key, func(ctx context.Context) (outline.Revision, error) {
		return s.client.GetRevision(ctx, revisionID)
	})
	if err != nil {
		return outline.Revision{}, false, err
	}

	return entry.Revision, hit, nil
}

func withCacheMarker(text string, hit bool) string {
	if !hit {
		return text
	}
	return strings.TrimRight(text, "\n") + "\n\n" + cacheMarker + "\n"
}

func (t *Toolset) getRevision(ctx context.Context, s session, args revisionArgs) (string, error) {
	rev, hit, err := t.revision(ctx, s, args.DocumentID, args.RevisionID)
	if err != nil {
		return "", err
	}
	return withCacheMarker(formatRevision(rev), hit), nil
}

func (t *Toolset) getRevisionWithMetadata(ctx context.Context, s session, args revisionArgs) (string, error) {
	rev, hit, err := t.revision(ctx, s, args.DocumentID, args.RevisionID)
	if err != nil {
		return "", err
	}

	stats := textStatsOf(rev.Text)

	var b strings.Builder
	b.WriteString(formatRevision(rev))
	b.WriteString("\n## Revision Statistics\n\n")
	fmt.Fprintf(&b, "**Length:** %d characters\n", stats.chars)
	fmt.Fprintf(&b, "**Words:** %d\n", stats.words)
	fmt.Fprintf(&b, "**Lines:** %d\n", stats.lines)
	if rev.DocumentID != "" {
		fmt.Fprintf(&b, "**Document ID:** %s\n", rev.DocumentID)
	}

	return withCacheMarker(b.String(), hit), nil
}

func (t *Toolset) listRevisions(ctx context.Context, s session, args listRevisionsArgs) (string, error) {
	limit := limitOrDefault(args.Limit)

	revs, err := s.client.ListRevisions(ctx, args.DocumentID, limit, args.Offset)
	if err != nil {
		return "", err
	}
	if len(revs) == 0 {
		return formatRevisionList(revs), nil
	}

	var b strings.Builder
	b.WriteString(formatRevisionList(revs))
	fmt.Fprintf(&b, "Showing %d revisions starting at offset %d.", len(revs), args.Offset)
	if len(revs) >= limit {
		fmt.Fprintf(&b, " Use offset=%d to see older revisions.", args.Offset+len(revs))
	}
	b.WriteString("\n")

	return b.String(), nil
}

func (t *Toolset) compareRevisions(ctx context.Context, s session, args compareRevisionsArgs) (string, error) {
	first, hit1, err := t.revision(ctx, s, "", args.RevisionID1)
	if err != nil {
		return "", err
	}
	second, hit2, err := t.revision(ctx, s, "", args.RevisionID2)
	if err != nil {
		return "", err
	}
	if first.ID == "" || second.ID == "" {
		return "One or both revisions could not be found.", nil
	}

	stats1, stats2 := textStatsOf(first.Text), textStatsOf(second.Text)
	added, removed := lineChanges(first.Text, second.Text)

	var b strings.Builder
	b.WriteString("# Detailed Revision Comparison\n\n")
	writeRevisionSide(&b, 1, args.RevisionID1, first)
	writeRevisionSide(&b, 2, args.RevisionID2, second)

	b.WriteString("## Content Analysis\n\n")
	fmt.Fprintf(&b, "**Revision 1:** %d chars, %d words, %d lines\n", stats1.chars, stats1.words, stats1.lines)
	fmt.Fprintf(&b, "**Revision 2:** %d chars, %d words, %d lines\n\n", stats2.chars, stats2.words, stats2.lines)

	b.WriteString("## Changes Summary\n\n")
	if first.Title != second.Title {
		fmt.Fprintf(&b, "**Title changed:** '%s' → '%s'\n", orDefault(first.Title, untitled), orDefault(second.Title, untitled))
	} else {
		b.WriteString("**Title:** unchanged\n")
	}
	fmt.Fprintf(&b, "**Size change:** %+d chars, %+d words, %+d lines\n", stats2.chars-stats1.chars, stats2.words-stats1.words, stats2.lines-stats1.lines)
	fmt.Fprintf(&b, "**Lines added:** %d\n", added)
	fmt.Fprintf(&b, "**Lines removed:** %d\n", removed)

	return withCacheMarker(b.String(), hit1 && hit2), nil
}

func writeRevisionSide(b *strings.Builder, n int, id string, rev outline.Revision) {
	fmt.Fprintf(b, "## Revision %d (%s)\n", n, id)
	fmt.Fprintf(b, "**Title:** %s\n", orDefault(rev.Title, untitled))
	fmt.Fprintf(b, "**Created:** %s\n", orDefault(rev.CreatedAt, unknown))
	fmt.Fprintf(b, "**Author:** %s\n\n", rev.AuthorName())
}

func (t *Toolset) revisionHistorySummary(ctx context.Context, s session, args historyArgs) (string, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	revs, err := s.client.ListRevisions(ctx, args.DocumentID, limit, 0)
	if err != nil {
		return "", err
	}
	if len(revs) == 0 {
		return "No revisions found for this document.", nil
	}

	return summarizeHistory(revs), nil
}

// summarizeHistory renders contributor activity and change analysis for revisions in any order.
func summarizeHistory(revs []outline.Revision) string {
	type timed struct {
		rev outline.Revision
		at  time.Time
		ok  bool
	}

	items := make([]timed, 0, len(revs))
	for _, rev := range revs {
		at, err := dateparse.ParseAny(rev.CreatedAt)
		items = append(items, timed{rev: rev, at: at, ok: err == nil && rev.CreatedAt != ""})
	}

	// Oldest first, revisions without a parsable timestamp keep their relative order at the end.
	slices.SortStableFunc(items, func(a, b timed) int {
		switch {
		case a.ok && b.ok:
			return a.at.Compare(b.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	perAuthor := make(map[string]int)
	for _, it := range items {
		perAuthor[it.rev.AuthorName()]++
	}

	var b strings.Builder
	b.WriteString("# Revision History Summary\n\n")
	fmt.Fprintf(&b, "**Analyzed Revisions:** %d\n", len(items))
	fmt.Fprintf(&b, "**Contributors:** %d unique author(s)\n", len(perAuthor))

	var dated []timed
	for _, it := range items {
		if it.ok {
			dated = append(dated, it)
		}
	}
	if len(dated) > 0 {
		oldest, newest := dated[0], dated[len(dated)-1]
		fmt.Fprintf(&b, "**First Revision:** %s\n", oldest.rev.CreatedAt)
		fmt.Fprintf(&b, "**Latest Revision:** %s\n", newest.rev.CreatedAt)
		fmt.Fprintf(&b, "**Time Span:** %s\n", formatSpan(newest.at.Sub(oldest.at)))
	}

	b.WriteString("\n## Activity Summary\n\n")
	authors := make([]string, 0, len(perAuthor))
	for name := range perAuthor {
		authors = append(authors, name)
	}
	slices.SortFunc(authors, func(a, b string) int {
		if c := cmp.Compare(perAuthor[b], perAuthor[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, name := range authors {
		fmt.Fprintf(&b, "- %s: %d revision(s)\n", name, perAuthor[name])
	}

	b.WriteString("\n## Change Analysis\n\n")
	titleChanges := 0
	for i := 1; i < len(items); i++ {
		if items[i].rev.Title != items[i-1].rev.Title {
			titleChanges++
		}
	}
	first, last := items[0].rev, items[len(items)-1].rev
	fmt.Fprintf(&b, "**Title Changes:** %d\n", titleChanges)
	if first.Title != last.Title {
		fmt.Fprintf(&b, "**Title Evolution:** '%s' → '%s'\n", orDefault(first.Title, untitled), orDefault(last.Title, untitled))
	}
	if first.Text != "" || last.Text != "" {
		fmt.Fprintf(&b, "**Size Change:** %+d chars\n", utf8.RuneCountInString(last.Text)-utf8.RuneCountInString(first.Text))
	}

	return b.String()
}

// formatSpan renders a duration in days, hours and minutes.
func formatSpan(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d day(s)", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour(s)", hours))
	}
	if minutes > 0 && days == 0 {
		parts = append(parts, fmt.Sprintf("%d minute(s)", minutes))
	}
	return strings.Join(parts, ", ")
}

type textStats struct {
	chars int
	words int
	lines int
}

func textStatsOf(s string) textStats {
	if s == "" {
		return textStats{}
	}
	return textStats{
		chars: utf8.RuneCountInString(s),
		words: len(strings.Fields(s)),
		lines: strings.Count(s, "\n") + 1,
	}
}

// lineChanges counts lines present in newer but not older (added) and the reverse (removed), as multisets.
func lineChanges(older string, newer string) (added int, removed int) {
	counts := make(map[string]int)
	for _, l := range splitLines(older) {
		counts[l]++
	}
	for _, l := range splitLines(newer) {
		if counts[l] > 0 {
			counts[l]--
			continue
		}
		added++
	}
	for _, n := range counts {
		removed += n
	}
	return added, removed
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
