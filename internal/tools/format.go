package tools

import (
	"fmt"
	"strings"

	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

const (
	untitled = "Untitled"
	unknown  = "Unknown"

	// revisionPreviewChars bounds how much revision content is shown.
	revisionPreviewChars = 500
)

func orDefault(s string, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// truncate shortens s to at most n runes, appending "..." when anything was cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func userName(u *outline.User) string {
	if u == nil {
		return unknown
	}
	return orDefault(u.Name, unknown)
}

// formatDocumentList renders documents under a '# <title> (N found)' heading.
func formatDocumentList(docs []outline.Document, title string) string {
	if len(docs) == 0 {
		return fmt.Sprintf("No %s found.", strings.ToLower(title))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%d found)\n\n", title, len(docs))
	for i, doc := range docs {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, orDefault(doc.Title, untitled))
		fmt.Fprintf(&b, "ID: %s\n", orDefault(doc.ID, unknown))
		if doc.UpdatedAt != "" {
			fmt.Fprintf(&b, "Last Updated: %s\n", doc.UpdatedAt)
		}
		if doc.CreatedAt != "" {
			fmt.Fprintf(&b, "Created: %s\n", doc.CreatedAt)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatDocument renders a full document.
func formatDocument(doc outline.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDefault(doc.Title, untitled))
	b.WriteString(doc.Text)
	return b.String()
}

// searchContextReplacer turns Outline's highlight markup into markdown emphasis.
var searchContextReplacer = strings.NewReplacer("<b>", "**", "</b>", "**", "\n", " ")

func formatSearchResults(query string, results []outline.SearchResult, page *outline.Pagination) string {
	if len(results) == 0 {
		return fmt.Sprintf("No documents found for '%s'.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results for '%s' (%d found)\n\n", query, len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, orDefault(r.Document.Title, untitled))
		fmt.Fprintf(&b, "ID: %s\n", r.Document.ID)
		if ctx := strings.TrimSpace(r.Context); ctx != "" {
			fmt.Fprintf(&b, "Context: %s\n", searchContextReplacer.Replace(ctx))
		}
		b.WriteString("\n")
	}

	if page != nil && page.Limit > 0 && len(results) >= page.Limit {
		fmt.Fprintf(&b, "More results may be available, use offset=%d to see the next page.\n", page.Offset+len(results))
	}

	return b.String()
}

func formatCollections(cols []outline.Collection) string {
	if len(cols) == 0 {
		return "No collections found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Collections (%d found)\n\n", len(cols))
	for i, col := range cols {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, orDefault(col.Name, untitled))
		fmt.Fprintf(&b, "ID: %s\n", col.ID)
		if desc := strings.TrimSpace(col.Description); desc != "" {
			fmt.Fprintf(&b, "Description: %s\n", desc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatCollection(heading string, col outline.Collection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	fmt.Fprintf(&b, "**Name:** %s\n", orDefault(col.Name, untitled))
	fmt.Fprintf(&b, "**ID:** %s\n", col.ID)
	if col.Description != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", col.Description)
	}
	if col.Color != "" {
		fmt.Fprintf(&b, "**Color:** %s\n", col.Color)
	}
	return b.String()
}

func formatNavigation(nodes []outline.NavigationNode) string {
	if len(nodes) == 0 {
		return "No documents found in this collection."
	}

	var b strings.Builder
	b.WriteString("# Collection Structure\n\n")
	writeNavigation(&b, nodes, 0)
	return b.String()
}

func writeNavigation(b *strings.Builder, nodes []outline.NavigationNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		fmt.Fprintf(b, "%s- %s (ID: %s)\n", indent, orDefault(n.Title, untitled), n.ID)
		writeNavigation(b, n.Children, depth+1)
	}
}

// formatDocumentResult renders the outcome of a document mutation.
func formatDocumentResult(heading string, doc outline.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	fmt.Fprintf(&b, "**Title:** %s\n", orDefault(doc.Title, untitled))
	fmt.Fprintf(&b, "**ID:** %s\n", orDefault(doc.ID, unknown))
	if doc.CollectionID != "" {
		fmt.Fprintf(&b, "**Collection ID:** %s\n", doc.CollectionID)
	}
	if doc.ParentDocumentID != "" {
		fmt.Fprintf(&b, "**Parent Document ID:** %s\n", doc.ParentDocumentID)
	}
	if doc.URL != "" {
		fmt.Fprintf(&b, "**URL:** %s\n", doc.URL)
	}
	return b.String()
}

func formatComments(comments []outline.Comment) string {
	if len(comments) == 0 {
		return "No comments found for this document."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Document Comments (%d found)\n\n", len(comments))
	for i, c := range comments {
		fmt.Fprintf(&b, "## %d. Comment by %s\n", i+1, userName(c.CreatedBy))
		fmt.Fprintf(&b, "ID: %s\n", c.ID)
		if c.ParentCommentID != "" {
			fmt.Fprintf(&b, "Reply to: %s\n", c.ParentCommentID)
		}
		if c.CreatedAt != "" {
			fmt.Fprintf(&b, "Created: %s\n", c.CreatedAt)
		}
		fmt.Fprintf(&b, "\n%s\n\n", c.PlainText())
	}
	return b.String()
}

func formatComment(c outline.Comment) string {
	var b strings.Builder
	b.WriteString("# Comment\n\n")
	fmt.Fprintf(&b, "**ID:** %s\n", c.ID)
	fmt.Fprintf(&b, "**Document ID:** %s\n", c.DocumentID)
	fmt.Fprintf(&b, "**Author:** %s\n", userName(c.CreatedBy))
	if c.CreatedAt != "" {
		fmt.Fprintf(&b, "**Created:** %s\n", c.CreatedAt)
	}
	fmt.Fprintf(&b, "\n%s\n", c.PlainText())
	return b.String()
}

// formatRevision renders a single revision with a content preview.
func formatRevision(rev outline.Revision) string {
	if rev.ID == "" && rev.Title == "" && rev.Text == "" {
		return "No revision information found."
	}

	var b strings.Builder
	b.WriteString("# Document Revision\n\n")
	fmt.Fprintf(&b, "**Revision ID:** %s\n", orDefault(rev.ID, unknown))
	fmt.Fprintf(&b, "**Title:** %s\n", orDefault(rev.Title, untitled))
	fmt.Fprintf(&b, "**Created:** %s\n", orDefault(rev.CreatedAt, unknown))
	fmt.Fprintf(&b, "**Author:** %s\n", rev.AuthorName())
	if rev.Text != "" {
		fmt.Fprintf(&b, "\n**Content:**\n%s\n", truncate(rev.Text, revisionPreviewChars))
	}
	return b.String()
}

func formatRevisionList(revs []outline.Revision) string {
	if len(revs) == 0 {
		return "No revisions found for this document."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Document Revisions (%d found)\n\n", len(revs))
	for i, rev := range revs {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, orDefault(rev.Title, untitled))
		fmt.Fprintf(&b, "ID: %s\n", orDefault(rev.ID, unknown))
		fmt.Fprintf(&b, "Created: %s\n", orDefault(rev.CreatedAt, unknown))
		fmt.Fprintf(&b, "Author: %s\n\n", rev.AuthorName())
	}
	return b.String()
}
