package tools

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// importFormats lists the accepted import formats.
var importFormats = []any{formatMarkdown, formatText}

// extensionFormats maps file extensions to import formats.
var extensionFormats = map[string]string{
	"md":       formatMarkdown,
	"markdown": formatMarkdown,
	"txt":      formatText,
}

type importArgs struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	Format           string `json:"format"`
	CollectionID     string `json:"collection_id"`
	ParentDocumentID string `json:"parent_document_id"`
}

// Validate checks the format first, then the title, then the content, reporting only the first failure.
func (a importArgs) Validate() error {
	if err := validation.Validate(a.Format,
		validation.In(importFormats...).Error(fmt.Sprintf("Unsupported format '%s'", a.Format)),
	); err != nil {
		return err
	}
	if err := validation.Validate(strings.TrimSpace(a.Title), validation.Required.Error("Document title is required")); err != nil {
		return err
	}
	if err := validation.Validate(strings.TrimSpace(a.Content), validation.Required.Error("Document content is required")); err != nil {
		return err
	}
	return validation.Validate(a.CollectionID, validation.Required.Error("Collection ID is required"))
}

type importFileArgs struct {
	Filename         string `json:"filename"`
	Content          string `json:"content"`
	Title            string `json:"title"`
	CollectionID     string `json:"collection_id"`
	ParentDocumentID string `json:"parent_document_id"`
}

func (a importFileArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Filename, validation.Required),
		validation.Field(&a.CollectionID, validation.Required),
	)
}

func (t *Toolset) importTools() []Tool {
	return []Tool{
		{
			Category: CategoryImport,
			Definition: mcp.NewTool("import_document",
				mcp.WithDescription("Imports content as a new published document."),
				// title and content are checked by the handler so the caller gets a specific message.
				mcp.WithString("title", mcp.Description("Document title")),
				mcp.WithString("content", mcp.Description("Content to import")),
				mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection to import into")),
				mcp.WithString("format", mcp.Description("Content format"), mcp.DefaultString(formatMarkdown)),
				mcp.WithString("parent_document_id", mcp.Description("Nest the document under this document")),
			),
			Handler: handle(t, "importing document", t.importDocument),
		},
		{
			Category: CategoryImport,
			Definition: mcp.NewTool("import_document_from_file_content",
				mcp.WithDescription("Imports the content of a .md, .markdown or .txt file as a new published document."),
				mcp.WithString("filename", mcp.Required(), mcp.Description("File name, used for the format and the default title")),
				mcp.WithString("content", mcp.Required(), mcp.Description("File content")),
				mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection to import into")),
				mcp.WithString("title", mcp.Description("Document title, defaults to the file name")),
				mcp.WithString("parent_document_id", mcp.Description("Nest the document under this document")),
			),
			Handler: handle(t, "importing document", t.importFileContent),
		},
		{
			Category:   CategoryImport,
			Definition: limitTool("list_draft_documents", "Lists the current user's draft documents."),
			Handler:    handle(t, "retrieving draft documents", t.listDrafts),
		},
		{
			Category:   CategoryImport,
			Definition: limitTool("get_recently_viewed_documents", "Lists documents the current user viewed recently."),
			Handler:    handle(t, "retrieving recently viewed documents", t.listRecentlyViewed),
		},
	}
}

func (t *Toolset) importDocument(ctx context.Context, s session, args importArgs) (string, error) {
	return t.runImport(ctx, s, args)
}

func (t *Toolset) importFileContent(ctx context.Context, s session, args importFileArgs) (string, error) {
	base := path.Base(strings.ReplaceAll(args.Filename, "\\", "/"))
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))

	format, ok := extensionFormats[ext]
	if !ok {
		return "", newArgumentError(fmt.Errorf("Unsupported file type '.%s', expected .md, .markdown or .txt", ext))
	}

	title := strings.TrimSpace(args.Title)
	if title == "" {
		title = strings.TrimSuffix(base, path.Ext(base))
	}

	imp := importArgs{
		Title:            title,
		Content:          args.Content,
		Format:           format,
		CollectionID:     args.CollectionID,
		ParentDocumentID: args.ParentDocumentID,
	}
	if err := imp.Validate(); err != nil {
		return "", newArgumentError(err)
	}

	return t.runImport(ctx, s, imp)
}

func (t *Toolset) runImport(ctx context.Context, s session, args importArgs) (string, error) {
	format := args.Format
	if format == "" {
		format = formatMarkdown
	}

	content := args.Content
	if format == formatText {
		content = textToMarkdown(content)
	}

	doc, err := s.client.ImportDocument(ctx, outline.ImportDocumentParams{
		Title:            strings.TrimSpace(args.Title),
		Markdown:         content,
		CollectionID:     args.CollectionID,
		ParentDocumentID: args.ParentDocumentID,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Document Import Successful\n\n")
	fmt.Fprintf(&b, "**Title:** %s\n", orDefault(doc.Title, args.Title))
	fmt.Fprintf(&b, "**ID:** %s\n", orDefault(doc.ID, unknown))
	fmt.Fprintf(&b, "**Format:** %s\n", format)
	fmt.Fprintf(&b, "**Collection ID:** %s\n", orDefault(doc.CollectionID, args.CollectionID))
	if doc.URL != "" {
		fmt.Fprintf(&b, "**URL:** %s\n", doc.URL)
	}
	return b.String(), nil
}

// markdownLineStart matches line prefixes that markdown would treat as block syntax.
var markdownLineStart = regexp.MustCompile(`(?m)^(\s*)([#>*+\-]|\d+\.)`)

// textToMarkdown escapes plain text so it renders literally as markdown.
func textToMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return markdownLineStart.ReplaceAllString(s, `$1\$2`)
}

func (t *Toolset) listDrafts(ctx context.Context, s session, args limitArgs) (string, error) {
	docs, err := s.client.ListDrafts(ctx, limitOrDefault(args.Limit))
	if err != nil {
		return "", err
	}
	return formatDocumentList(docs, "Draft Documents"), nil
}

func (t *Toolset) listRecentlyViewed(ctx context.Context, s session, args limitArgs) (string, error) {
	docs, err := s.client.ListRecentlyViewed(ctx, limitOrDefault(args.Limit))
	if err != nil {
		return "", err
	}
	return formatDocumentList(docs, "Recently Viewed Documents"), nil
}
