package tools

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

type deleteDocumentArgs struct {
	DocumentID string `json:"document_id"`
	Permanent  bool   `json:"permanent"`
}

func (a deleteDocumentArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.DocumentID, validation.Required))
}

type limitArgs struct {
	Limit int `json:"limit"`
}

func (a limitArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.Limit, limitRules...))
}

func limitTool(name string, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents"), mcp.DefaultNumber(defaultListLimit), mcp.Min(1), mcp.Max(maxListLimit)),
	)
}

func (t *Toolset) lifecycleTools() []Tool {
	return []Tool{
		{
			Category:   CategoryLifecycle,
			Definition: documentIDTool("archive_document", "Archives a document, removing it from navigation while keeping it searchable."),
			Handler:    handle(t, "archiving document", t.archiveDocument),
		},
		{
			Category:   CategoryLifecycle,
			Definition: documentIDTool("unarchive_document", "Restores an archived document."),
			Handler:    handle(t, "unarchiving document", t.unarchiveDocument),
		},
		{
			Category: CategoryLifecycle,
			Definition: mcp.NewTool("delete_document",
				mcp.WithDescription("Moves a document to the trash, or deletes it permanently."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description("Document ID")),
				mcp.WithBoolean("permanent", mcp.Description("Delete permanently instead of moving to the trash"), mcp.DefaultBool(false)),
			),
			Handler: handle(t, "deleting document", t.deleteDocument),
		},
		{
			Category:   CategoryLifecycle,
			Definition: documentIDTool("restore_document", "Restores a document from the trash."),
			Handler:    handle(t, "restoring document", t.restoreDocument),
		},
		{
			Category:   CategoryLifecycle,
			Definition: limitTool("list_archived_documents", "Lists archived documents."),
			Handler:    handle(t, "listing archived documents", t.listArchived),
		},
		{
			Category:   CategoryLifecycle,
			Definition: limitTool("list_trash", "Lists documents in the trash."),
			Handler:    handle(t, "listing trash", t.listTrash),
		},
	}
}

func (t *Toolset) archiveDocument(ctx context.Context, s session, args documentIDArgs) (string, error) {
	doc, err := s.client.ArchiveDocument(ctx, args.DocumentID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Document archived successfully: %s", orDefault(doc.Title, args.DocumentID)), nil
}

func (t *Toolset) unarchiveDocument(ctx context.Context, s session, args documentIDArgs) (string, error) {
	doc, err := s.client.UnarchiveDocument(ctx, args.DocumentID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Document unarchived successfully: %s", orDefault(doc.Title, args.DocumentID)), nil
}

func (t *Toolset) restoreDocument(ctx context.Context, s session, args documentIDArgs) (string, error) {
	doc, err := s.client.RestoreDocument(ctx, args.DocumentID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Document restored successfully: %s", orDefault(doc.Title, args.DocumentID)), nil
}

func (t *Toolset) deleteDocument(ctx context.Context, s session, args deleteDocumentArgs) (string, error) {
	ok, err := s.client.DeleteDocument(ctx, args.DocumentID, args.Permanent)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("Outline did not confirm deletion of document %s.", args.DocumentID), nil
	}
	if args.Permanent {
		return fmt.Sprintf("Document %s permanently deleted.", args.DocumentID), nil
	}
	return fmt.Sprintf("Document %s moved to trash.", args.DocumentID), nil
}

func (t *Toolset) listArchived(ctx context.Context, s session, args limitArgs) (string, error) {
	docs, err := s.client.ListArchived(ctx, limitOrDefault(args.Limit))
	if err != nil {
		return "", err
	}
	return formatDocumentList(docs, "Archived Documents"), nil
}

func (t *Toolset) listTrash(ctx context.Context, s session, args limitArgs) (string, error) {
	docs, err := s.client.ListTrash(ctx, limitOrDefault(args.Limit))
	if err != nil {
		return "", err
	}
	return formatDocumentList(docs, "Documents in Trash"), nil
}
