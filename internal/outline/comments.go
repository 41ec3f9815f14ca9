package outline

import (
	"context"
)

// ListComments lists comments on a document.
func (c *Client) ListComments(ctx context.Context, documentID string, limit int, offset int) ([]Comment, error) {
	params := map[string]any{"documentId": documentID, "limit": limit}
	if offset > 0 {
		params["offset"] = offset
	}

	var comments []Comment
	if _, err := c.Invoke(ctx, "comments.list", params, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// GetComment returns a comment by ID.
func (c *Client) GetComment(ctx context.Context, id string) (Comment, error) {
	var comment Comment
	_, err := c.Invoke(ctx, "comments.info", map[string]any{"id": id}, &comment)
	return comment, err
}

// CreateComment adds a markdown comment to a document, optionally as a reply.
func (c *Client) CreateComment(ctx context.Context, documentID string, text string, parentCommentID string) (Comment, error) {
	params := map[string]any{"documentId": documentID, "text": text}
	if parentCommentID != "" {
		params["parentCommentId"] = parentCommentID
	}

	var comment Comment
	_, err := c.Invoke(ctx, "comments.create", params, &comment)
	return comment, err
}
