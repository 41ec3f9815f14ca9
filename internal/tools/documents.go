package tools

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

type documentIDArgs struct {
	DocumentID string `json:"document_id"`
}

func (a documentIDArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.DocumentID, validation.Required))
}

type createDocumentArgs struct {
	Title            string `json:"title"`
	CollectionID     string `json:"collection_id"`
	Text             string `json:"text"`
	ParentDocumentID string `json:"parent_document_id"`
	Publish          *bool  `json:"publish"`
}

func (a createDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.CollectionID, validation.Required),
	)
}

type updateDocumentArgs struct {
	DocumentID string  `json:"document_id"`
	Title      *string `json:"title"`
	Text       *string `json:"text"`
	Append     bool    `json:"append"`
}

func (a updateDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DocumentID, validation.Required),
		validation.Field(&a.Text, validation.When(a.Title == nil, validation.NotNil.Error("title or text is required"))),
	)
}

type addCommentArgs struct {
	DocumentID      string `json:"document_id"`
	Text            string `json:"text"`
	ParentCommentID string `json:"parent_comment_id"`
}

func (a addCommentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DocumentID, validation.Required),
		validation.Field(&a.Text, validation.Required),
	)
}

type listCommentsArgs struct {
	DocumentID string `json:"document_id"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func (a listCommentsArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DocumentID, validation.Required),
		validation.Field(&a.Limit, limitRules...),
		validation.Field(&a.Offset, validation.Min(0)),
	)
}

type commentIDArgs struct {
	CommentID string `json:"comment_id"`
}

func (a commentIDArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.CommentID, validation.Required))
}

type moveDocumentArgs struct {
	DocumentID       string `json:"document_id"`
	CollectionID     string `json:"collection_id"`
	ParentDocumentID string `json:"parent_document_id"`
}

func (a moveDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DocumentID, validation.Required),
		validation.Field(&a.CollectionID,
			validation.When(a.ParentDocumentID == "", validation.Required.Error("collection_id or parent_document_id is required")),
		),
	)
}

func documentIDTool(name string, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID or URL ID")),
	)
}

func (t *Toolset) readingTools() []Tool {
	return []Tool{
		{
			Category:   CategoryReading,
			Definition: documentIDTool("read_document", "Reads the full content of a document."),
			Handler:    handle(t, "reading document", t.readDocument),
		},
		{
			Category:   CategoryReading,
			Definition: documentIDTool("export_document", "Exports a document as markdown."),
			Handler:    handle(t, "exporting document", t.exportDocument),
		},
		{
			Category:   CategoryReading,
			Definition: documentIDTool("get_document_backlinks", "Lists the documents that link to a document."),
			Handler:    handle(t, "retrieving backlinks", t.documentBacklinks),
		},
	}
}

func (t *Toolset) contentTools() []Tool {
	return []Tool{
		{
			Category: CategoryContent,
			Definition: mcp.NewTool("create_document",
				mcp.WithDescription("Creates a document in a collection."),
				mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
				mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection to create the document in")),
				mcp.WithString("text", mcp.Description("Markdown content")),
				mcp.WithString("parent_document_id", mcp.Description("Nest the document under this document")),
				mcp.WithBoolean("publish", mcp.Description("Publish the document immediately"), mcp.DefaultBool(true)),
			),
			Handler: handle(t, "creating document", t.createDocument),
		},
		{
			Category: CategoryContent,
			Definition: mcp.NewTool("update_document",
				mcp.WithDescription("Updates a document's title and/or content."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("text", mcp.Description("New markdown content")),
				mcp.WithBoolean("append", mcp.Description("Append text instead of replacing the content")),
			),
			Handler: handle(t, "updating document", t.updateDocument),
		},
		{
			Category: CategoryContent,
			Definition: mcp.NewTool("add_comment",
				mcp.WithDescription("Adds a comment to a document, optionally as a reply."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithString("text", mcp.Required(), mcp.Description("Comment text (markdown)")),
				mcp.WithString("parent_comment_id", mcp.Description("Reply to this comment")),
			),
			Handler: handle(t, "adding comment", t.addComment),
		},
		{
			Category: CategoryContent,
			Definition: mcp.NewTool("list_document_comments",
				mcp.WithDescription("Lists the comments on a document."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of comments"), mcp.DefaultNumber(defaultListLimit), mcp.Min(1), mcp.Max(maxListLimit)),
				mcp.WithNumber("offset", mcp.Description("Number of comments to skip"), mcp.Min(0)),
			),
			Handler: handle(t, "listing comments", t.listComments),
		},
		{
			Category: CategoryContent,
			Definition: mcp.NewTool("get_comment",
				mcp.WithDescription("Gets a single comment."),
				mcp.WithString("comment_id", mcp.Required(), mcp.Description("Comment ID")),
			),
			Handler: handle(t, "retrieving comment", t.getComment),
		},
	}
}

func (t *Toolset) organizationTools() []Tool {
	return []Tool{
		{
			Category: CategoryOrganization,
			Definition: mcp.NewTool("move_document",
				mcp.WithDescription("Moves a document to another collection and/or under another document."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithString("collection_id", mcp.Description("Target collection")),
				mcp.WithString("parent_document_id", mcp.Description("Target parent document")),
			),
			Handler: handle(t, "moving document", t.moveDocument),
		},
	}
}

func (t *Toolset) readDocument(ctx context.Context, s session, args documentIDArgs) (string, error) {
	doc, err := s.client.GetDocument(ctx, args.DocumentID)
	if err != nil {
		return "", err
	}
	return formatDocument(doc), nil
}

func (t *Toolset) exportDocument(ctx context.Context, s session, args documentIDArgs) (string, error) {
	return s.client.ExportDocument(ctx, args.DocumentID)
}

func (t *Toolset) documentBacklinks(ctx context.Context, s session, args documentIDArgs) (string, error) {
	docs, err := s.client.DocumentBacklinks(ctx, args.DocumentID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "No documents link to this document.", nil
	}
	return formatDocumentList(docs, "Backlinks"), nil
}

func (t *Toolset) createDocument(ctx context.Context, s session, args createDocumentArgs) (string, error) {
	publish := true
	if args.Publish != nil {
		publish = *args.Publish
	}

	doc, err := s.client.CreateDocument(ctx, outline.CreateDocumentParams{
		Title:            args.Title,
		Text:             args.Text,
		CollectionID:     args.CollectionID,
		ParentDocumentID: args.ParentDocumentID,
		Publish:          publish,
	})
	if err != nil {
		return "", err
	}
	return formatDocumentResult("Document Created", doc), nil
}

func (t *Toolset) updateDocument(ctx context.Context, s session, args updateDocumentArgs) (string, error) {
	doc, err := s.client.UpdateDocument(ctx, outline.UpdateDocumentParams{
		ID:     args.DocumentID,
		Title:  args.Title,
		Text:   args.Text,
		Append: args.Append,
	})
	if err != nil {
		return "", err
	}
	return formatDocumentResult("Document Updated", doc), nil
}

func (t *Toolset) addComment(ctx context.Context, s session, args addCommentArgs) (string, error) {
	comment, err := s.client.CreateComment(ctx, args.DocumentID, args.Text, args.ParentCommentID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Comment added successfully (ID: %s).", comment.ID), nil
}

func (t *Toolset) listComments(ctx context.Context, s session, args listCommentsArgs) (string, error) {
	comments, err := s.client.ListComments(ctx, args.DocumentID, limitOrDefault(args.Limit), args.Offset)
	if err != nil {
		return "", err
	}
	return formatComments(comments), nil
}

func (t *Toolset) getComment(ctx context.Context, s session, args commentIDArgs) (string, error) {
	comment, err := s.client.GetComment(ctx, args.CommentID)
	if err != nil {
		return "", err
	}
	return formatComment(comment), nil
}

func (t *Toolset) moveDocument(ctx context.Context, s session, args moveDocumentArgs) (string, error) {
	doc, err := s.client.MoveDocument(ctx, args.DocumentID, args.CollectionID, args.ParentDocumentID)
	if err != nil {
		return "", err
	}

	var target []string
	if args.CollectionID != "" {
		target = append(target, "collection "+args.CollectionID)
	}
	if args.ParentDocumentID != "" {
		target = append(target, "parent document "+args.ParentDocumentID)
	}

	return fmt.Sprintf("Document '%s' moved to %s.", orDefault(doc.Title, args.DocumentID), strings.Join(target, " under ")), nil
}
