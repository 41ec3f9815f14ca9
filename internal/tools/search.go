package tools

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

type searchArgs struct {
	Query        string `json:"query"`
	CollectionID string `json:"collection_id"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
}

func (a searchArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Query, validation.Required),
		validation.Field(&a.Limit, limitRules...),
		validation.Field(&a.Offset, validation.Min(0)),
	)
}

type titleLookupArgs struct {
	Query        string `json:"query"`
	CollectionID string `json:"collection_id"`
}

func (a titleLookupArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.Query, validation.Required))
}

type listCollectionsArgs struct {
	Limit int `json:"limit"`
}

func (a listCollectionsArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.Limit, limitRules...))
}

type collectionIDArgs struct {
	CollectionID string `json:"collection_id"`
}

func (a collectionIDArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.CollectionID, validation.Required))
}

func (t *Toolset) searchTools() []Tool {
	return []Tool{
		{
			Category: CategorySearch,
			Definition: mcp.NewTool("search_documents",
				mcp.WithDescription("Searches documents by keywords, optionally within one collection."),
				mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
				mcp.WithString("collection_id", mcp.Description("Restrict the search to this collection")),
				mcp.WithNumber("limit", mcp.Description("Maximum number of results"), mcp.DefaultNumber(defaultListLimit), mcp.Min(1), mcp.Max(maxListLimit)),
				mcp.WithNumber("offset", mcp.Description("Number of results to skip"), mcp.Min(0)),
			),
			Handler: handle(t, "searching documents", t.searchDocuments),
		},
		{
			Category: CategorySearch,
			Definition: mcp.NewTool("get_document_id_from_title",
				mcp.WithDescription("Finds a document's ID from its title, preferring an exact title match."),
				mcp.WithString("query", mcp.Required(), mcp.Description("Title to look for")),
				mcp.WithString("collection_id", mcp.Description("Restrict the lookup to this collection")),
			),
			Handler: handle(t, "searching for document", t.documentIDFromTitle),
		},
		{
			Category: CategorySearch,
			Definition: mcp.NewTool("list_collections",
				mcp.WithDescription("Lists the collections in the workspace."),
				mcp.WithNumber("limit", mcp.Description("Maximum number of collections"), mcp.DefaultNumber(defaultListLimit), mcp.Min(1), mcp.Max(maxListLimit)),
			),
			Handler: handle(t, "listing collections", t.listCollections),
		},
		{
			Category: CategorySearch,
			Definition: mcp.NewTool("get_collection_structure",
				mcp.WithDescription("Shows the document tree of a collection."),
				mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection ID")),
			),
			Handler: handle(t, "retrieving collection structure", t.collectionStructure),
		},
	}
}

func (t *Toolset) searchDocuments(ctx context.Context, s session, args searchArgs) (string, error) {
	results, page, err := s.client.SearchDocuments(ctx, args.Query, args.CollectionID, limitOrDefault(args.Limit), args.Offset)
	if err != nil {
		return "", err
	}
	return formatSearchResults(args.Query, results, page), nil
}

func (t *Toolset) documentIDFromTitle(ctx context.Context, s session, args titleLookupArgs) (string, error) {
	results, _, err := s.client.SearchDocuments(ctx, args.Query, args.CollectionID, 0, 0)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return fmt.Sprintf("No documents found matching '%s'.", args.Query), nil
	}

	for _, r := range results {
		if strings.EqualFold(strings.TrimSpace(r.Document.Title), strings.TrimSpace(args.Query)) {
			return fmt.Sprintf("Document ID: %s (Title: %s)", r.Document.ID, r.Document.Title), nil
		}
	}

	best := results[0].Document
	return fmt.Sprintf(
		"No exact match found for '%s'.\nBest match: %s\nDocument ID: %s",
		args.Query, orDefault(best.Title, untitled), best.ID,
	), nil
}

func (t *Toolset) listCollections(ctx context.Context, s session, args listCollectionsArgs) (string, error) {
	cols, err := s.client.ListCollections(ctx, limitOrDefault(args.Limit))
	if err != nil {
		return "", err
	}
	return formatCollections(cols), nil
}

func (t *Toolset) collectionStructure(ctx context.Context, s session, args collectionIDArgs) (string, error) {
	nodes, err := s.client.CollectionDocuments(ctx, args.CollectionID)
	if err != nil {
		return "", err
	}
	return formatNavigation(nodes), nil
}
