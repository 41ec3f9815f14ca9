package tools

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mozilla-ai/outline-mcp/internal/outline"
)

type createCollectionArgs struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (a createCollectionArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Color, is.HexColor),
	)
}

type updateCollectionArgs struct {
	CollectionID string  `json:"collection_id"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Color        *string `json:"color"`
}

func (a updateCollectionArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.CollectionID, validation.Required),
		validation.Field(&a.Color, is.HexColor),
	)
}

func (t *Toolset) collectionTools() []Tool {
	return []Tool{
		{
			Category: CategoryCollections,
			Definition: mcp.NewTool("create_collection",
				mcp.WithDescription("Creates a collection."),
				mcp.WithString("name", mcp.Required(), mcp.Description("Collection name")),
				mcp.WithString("description", mcp.Description("Collection description")),
				mcp.WithString("color", mcp.Description("Hex color, e.g. #4E5C6E")),
			),
			Handler: handle(t, "creating collection", t.createCollection),
		},
		{
			Category: CategoryCollections,
			Definition: mcp.NewTool("update_collection",
				mcp.WithDescription("Updates a collection's name, description or color."),
				mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection ID")),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("description", mcp.Description("New description")),
				mcp.WithString("color", mcp.Description("New hex color")),
			),
			Handler: handle(t, "updating collection", t.updateCollection),
		},
		{
			Category: CategoryCollections,
			Definition: mcp.NewTool("delete_collection",
				mcp.WithDescription("Deletes a collection and all of its documents."),
				mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection ID")),
			),
			Handler: handle(t, "deleting collection", t.deleteCollection),
		},
	}
}

func (t *Toolset) createCollection(ctx context.Context, s session, args createCollectionArgs) (string, error) {
	col, err := s.client.CreateCollection(ctx, outline.CreateCollectionParams{
		Name:        args.Name,
		Description: args.Description,
		Color:       args.Color,
	})
	if err != nil {
		return "", err
	}
	return formatCollection("Collection Created", col), nil
}

func (t *Toolset) updateCollection(ctx context.Context, s session, args updateCollectionArgs) (string, error) {
	col, err := s.client.UpdateCollection(ctx, outline.UpdateCollectionParams{
		ID:          args.CollectionID,
		Name:        args.Name,
		Description: args.Description,
		Color:       args.Color,
	})
	if err != nil {
		return "", err
	}
	return formatCollection("Collection Updated", col), nil
}

func (t *Toolset) deleteCollection(ctx context.Context, s session, args collectionIDArgs) (string, error) {
	ok, err := s.client.DeleteCollection(ctx, args.CollectionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("Outline did not confirm deletion of collection %s.", args.CollectionID), nil
	}
	return fmt.Sprintf("Collection %s deleted.", args.CollectionID), nil
}
