package outline

import (
	"context"
)

// ListCollections lists collections visible to the credential.
func (c *Client) ListCollections(ctx context.Context, limit int) ([]Collection, error) {
	var cols []Collection
	if _, err := c.Invoke(ctx, "collections.list", map[string]any{"limit": limit}, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// CollectionDocuments returns the document tree of a collection.
func (c *Client) CollectionDocuments(ctx context.Context, id string) ([]NavigationNode, error) {
	var nodes []NavigationNode
	if _, err := c.Invoke(ctx, "collections.documents", map[string]any{"id": id}, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// CreateCollectionParams describes a new collection.
type CreateCollectionParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color,omitempty"`
}

// CreateCollection creates a collection.
func (c *Client) CreateCollection(ctx context.Context, p CreateCollectionParams) (Collection, error) {
	var col Collection
	_, err := c.Invoke(ctx, "collections.create", p, &col)
	return col, err
}

// UpdateCollectionParams describes a collection update, nil fields are left unchanged.
type UpdateCollectionParams struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// UpdateCollection updates a collection.
func (c *Client) UpdateCollection(ctx context.Context, p UpdateCollectionParams) (Collection, error) {
	var col Collection
	_, err := c.Invoke(ctx, "collections.update", p, &col)
	return col, err
}

// DeleteCollection deletes a collection and all of its documents.
func (c *Client) DeleteCollection(ctx context.Context, id string) (bool, error) {
	env, err := c.Call(ctx, "collections.delete", map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return env.Succeeded(), nil
}
