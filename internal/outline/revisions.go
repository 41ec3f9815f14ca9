package outline

import (
	"context"
)

// GetRevision returns a document revision by ID.
func (c *Client) GetRevision(ctx context.Context, id string) (Revision, error) {
	var rev Revision
	_, err := c.Invoke(ctx, "revisions.info", map[string]any{"id": id}, &rev)
	return rev, err
}

// ListRevisions lists the revisions of a document, newest first.
// offset is only sent when positive.
func (c *Client) ListRevisions(ctx context.Context, documentID string, limit int, offset int) ([]Revision, error) {
	params := map[string]any{"documentId": documentID, "limit": limit}
	if offset > 0 {
		params["offset"] = offset
	}

	var revs []Revision
	if _, err := c.Invoke(ctx, "revisions.list", params, &revs); err != nil {
		return nil, err
	}
	return revs, nil
}
