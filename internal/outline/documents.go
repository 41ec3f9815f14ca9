package outline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mozilla-ai/outline-mcp/internal/errors"
)

// AuthInfo verifies the credential and returns the authenticated user and team.
func (c *Client) AuthInfo(ctx context.Context) (AuthInfo, error) {
	var info AuthInfo
	_, err := c.Invoke(ctx, "auth.info", nil, &info)
	return info, err
}

// GetDocument returns a document by ID (or URL ID).
func (c *Client) GetDocument(ctx context.Context, id string) (Document, error) {
	var doc Document
	_, err := c.Invoke(ctx, "documents.info", map[string]any{"id": id}, &doc)
	return doc, err
}

// SearchDocuments performs a full text search, optionally within a collection.
func (c *Client) SearchDocuments(ctx context.Context, query string, collectionID string, limit int, offset int) ([]SearchResult, *Pagination, error) {
	params := map[string]any{"query": query}
	if collectionID != "" {
		params["collectionId"] = collectionID
	}
	if limit > 0 {
		params["limit"] = limit
	}
	if offset > 0 {
		params["offset"] = offset
	}

	var results []SearchResult
	env, err := c.Invoke(ctx, "documents.search", params, &results)
	if err != nil {
		return nil, nil, err
	}
	return results, env.Pagination, nil
}

// ListDocuments lists documents, optionally within a collection.
func (c *Client) ListDocuments(ctx context.Context, collectionID string, limit int) ([]Document, error) {
	params := map[string]any{"limit": limit}
	if collectionID != "" {
		params["collectionId"] = collectionID
	}
	return c.listDocuments(ctx, "documents.list", params)
}

// CreateDocumentParams describes a new document.
type CreateDocumentParams struct {
	Title            string `json:"title"`
	Text             string `json:"text"`
	CollectionID     string `json:"collectionId"`
	ParentDocumentID string `json:"parentDocumentId,omitempty"`
	Publish          bool   `json:"publish"`
}

// CreateDocument creates a document in a collection.
func (c *Client) CreateDocument(ctx context.Context, p CreateDocumentParams) (Document, error) {
	var doc Document
	_, err := c.Invoke(ctx, "documents.create", p, &doc)
	return doc, err
}

// UpdateDocumentParams describes a document update, nil fields are left unchanged.
type UpdateDocumentParams struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Text    *string `json:"text,omitempty"`
	Append  bool    `json:"append,omitempty"`
	Publish *bool   `json:"publish,omitempty"`
}

// UpdateDocument updates a document's title and/or content.
func (c *Client) UpdateDocument(ctx context.Context, p UpdateDocumentParams) (Document, error) {
	var doc Document
	_, err := c.Invoke(ctx, "documents.update", p, &doc)
	return doc, err
}

// MoveDocument moves a document to another collection and/or parent document.
func (c *Client) MoveDocument(ctx context.Context, id string, collectionID string, parentDocumentID string) (Document, error) {
	if collectionID == "" && parentDocumentID == "" {
		return Document{}, fmt.Errorf("%w: a target collection or parent document is required", errors.ErrBadRequest)
	}

	params := map[string]any{"id": id}
	if collectionID != "" {
		params["collectionId"] = collectionID
	}
	if parentDocumentID != "" {
		params["parentDocumentId"] = parentDocumentID
	}

	// documents.move returns {documents: [...], collections: [...]}.
	var moved struct {
		Documents []Document `json:"documents"`
	}
	if _, err := c.Invoke(ctx, "documents.move", params, &moved); err != nil {
		return Document{}, err
	}
	for _, d := range moved.Documents {
		if d.ID == id {
			return d, nil
		}
	}
	if len(moved.Documents) > 0 {
		return moved.Documents[0], nil
	}

	return Document{ID: id}, nil
}

// ArchiveDocument archives a document.
func (c *Client) ArchiveDocument(ctx context.Context, id string) (Document, error) {
	return c.documentByID(ctx, "documents.archive", id)
}

// UnarchiveDocument restores an archived document.
func (c *Client) UnarchiveDocument(ctx context.Context, id string) (Document, error) {
	return c.documentByID(ctx, "documents.unarchive", id)
}

// RestoreDocument restores a document from the trash.
func (c *Client) RestoreDocument(ctx context.Context, id string) (Document, error) {
	return c.documentByID(ctx, "documents.restore", id)
}

// DeleteDocument moves a document to the trash, or removes it permanently.
func (c *Client) DeleteDocument(ctx context.Context, id string, permanent bool) (bool, error) {
	params := map[string]any{"id": id}
	if permanent {
		params["permanent"] = true
	}

	env, err := c.Call(ctx, "documents.delete", params)
	if err != nil {
		return false, err
	}
	return env.Succeeded(), nil
}

// ListTrash lists deleted documents.
func (c *Client) ListTrash(ctx context.Context, limit int) ([]Document, error) {
	return c.listDocuments(ctx, "documents.deleted", map[string]any{"limit": limit})
}

// ListArchived lists archived documents.
func (c *Client) ListArchived(ctx context.Context, limit int) ([]Document, error) {
	return c.listDocuments(ctx, "documents.archived", map[string]any{"limit": limit})
}

// ListDrafts lists the current user's draft documents.
func (c *Client) ListDrafts(ctx context.Context, limit int) ([]Document, error) {
	return c.listDocuments(ctx, "documents.drafts", map[string]any{"limit": limit})
}

// ListRecentlyViewed lists documents recently viewed by the current user.
func (c *Client) ListRecentlyViewed(ctx context.Context, limit int) ([]Document, error) {
	return c.listDocuments(ctx, "documents.viewed", map[string]any{"limit": limit})
}

// DocumentBacklinks lists documents linking to the given document.
func (c *Client) DocumentBacklinks(ctx context.Context, id string) ([]Document, error) {
	return c.listDocuments(ctx, "documents.list", map[string]any{"backlinkDocumentId": id})
}

// ExportDocument returns the document content as markdown.
func (c *Client) ExportDocument(ctx context.Context, id string) (string, error) {
	var markdown string
	_, err := c.Invoke(ctx, "documents.export", map[string]any{"id": id}, &markdown)
	return markdown, err
}

// AnswerQuestion asks Outline AI a natural language question, optionally scoped to a collection or document.
// The answer is returned at the top level of the response rather than under 'data'.
func (c *Client) AnswerQuestion(ctx context.Context, query string, collectionID string, documentID string) (Answer, error) {
	params := map[string]any{"query": query}
	if collectionID != "" {
		params["collectionId"] = collectionID
	}
	if documentID != "" {
		params["documentId"] = documentID
	}

	env, err := c.Call(ctx, "documents.answerQuestion", params)
	if err != nil {
		return Answer{}, err
	}

	var answer Answer
	src := env.Raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		src = env.Data
	}
	if err := json.Unmarshal(src, &answer); err != nil {
		return Answer{}, &MalformedResponseError{Operation: "documents.answerQuestion", Status: env.Status, Err: err}
	}

	return answer, nil
}

// ImportDocumentParams describes content to import as a new published document.
type ImportDocumentParams struct {
	Title            string
	Markdown         string
	CollectionID     string
	ParentDocumentID string
}

// ImportDocument creates a published document from already converted markdown content.
func (c *Client) ImportDocument(ctx context.Context, p ImportDocumentParams) (Document, error) {
	return c.CreateDocument(ctx, CreateDocumentParams{
		Title:            p.Title,
		Text:             p.Markdown,
		CollectionID:     p.CollectionID,
		ParentDocumentID: p.ParentDocumentID,
		Publish:          true,
	})
}

func (c *Client) documentByID(ctx context.Context, operation string, id string) (Document, error) {
	var doc Document
	_, err := c.Invoke(ctx, operation, map[string]any{"id": id}, &doc)
	return doc, err
}

func (c *Client) listDocuments(ctx context.Context, operation string, params map[string]any) ([]Document, error) {
	var docs []Document
	if _, err := c.Invoke(ctx, operation, params, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
