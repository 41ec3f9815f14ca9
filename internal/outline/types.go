package outline

import (
	"encoding/json"
	"strings"
)

// Envelope is the standard Outline response body.
type Envelope struct {
	// Data holds the operation result, empty when Outline returned none (e.g. documents.delete).
	Data json.RawMessage `json:"data,omitempty"`

	// Success is reported by mutation endpoints that return no data.
	Success *bool `json:"success,omitempty"`

	// Pagination is present on list endpoints.
	Pagination *Pagination `json:"pagination,omitempty"`

	// Status is the HTTP status code of the response, it overrides any 'status' key in the body.
	Status int `json:"status,omitempty"`

	// Raw is the undecoded body, some endpoints place results outside 'data'.
	Raw json.RawMessage `json:"-"`
}

// Succeeded reports whether the envelope carries an explicit success flag set to true.
func (e *Envelope) Succeeded() bool {
	return e != nil && e.Success != nil && *e.Success
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	NextPath string `json:"nextPath,omitempty"`
}

// User is an Outline user as embedded in other entities.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Team is the Outline workspace.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// AuthInfo is returned by auth.info.
type AuthInfo struct {
	User User `json:"user"`
	Team Team `json:"team"`
}

// CollectionRef is the abbreviated collection embedded in documents.
type CollectionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Document is an Outline document.
type Document struct {
	ID               string         `json:"id"`
	URLID            string         `json:"urlId,omitempty"`
	Title            string         `json:"title"`
	Text             string         `json:"text,omitempty"`
	CollectionID     string         `json:"collectionId,omitempty"`
	ParentDocumentID string         `json:"parentDocumentId,omitempty"`
	Collection       *CollectionRef `json:"collection,omitempty"`
	CreatedAt        string         `json:"createdAt,omitempty"`
	UpdatedAt        string         `json:"updatedAt,omitempty"`
	PublishedAt      string         `json:"publishedAt,omitempty"`
	ArchivedAt       string         `json:"archivedAt,omitempty"`
	DeletedAt        string         `json:"deletedAt,omitempty"`
	CreatedBy        *User          `json:"createdBy,omitempty"`
	UpdatedBy        *User          `json:"updatedBy,omitempty"`
	URL              string         `json:"url,omitempty"`
}

// SearchResult is a single documents.search hit.
type SearchResult struct {
	Ranking  float64  `json:"ranking"`
	Context  string   `json:"context"`
	Document Document `json:"document"`
}

// Collection is an Outline collection.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// NavigationNode is an entry in a collection's document tree.
type NavigationNode struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	URL      string           `json:"url,omitempty"`
	Children []NavigationNode `json:"children,omitempty"`
}

// Comment is a comment on a document.
type Comment struct {
	ID              string          `json:"id"`
	DocumentID      string          `json:"documentId"`
	ParentCommentID string          `json:"parentCommentId,omitempty"`
	Text            string          `json:"text,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	CreatedBy       *User           `json:"createdBy,omitempty"`
}

// PlainText returns the comment body, flattening Outline's rich text document when no markdown is present.
func (c Comment) PlainText() string {
	if strings.TrimSpace(c.Text) != "" {
		return c.Text
	}
	if len(c.Data) == 0 {
		return ""
	}

	var root richTextNode
	if err := json.Unmarshal(c.Data, &root); err != nil {
		return ""
	}

	var b strings.Builder
	root.writeText(&b)
	return strings.TrimSpace(b.String())
}

type richTextNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Content []richTextNode `json:"content,omitempty"`
}

func (n richTextNode) writeText(b *strings.Builder) {
	if n.Text != "" {
		b.WriteString(n.Text)
	}
	for _, child := range n.Content {
		child.writeText(b)
	}
	if n.Type == "paragraph" || n.Type == "heading" {
		b.WriteString("\n")
	}
}

// Revision is an immutable historical snapshot of a document.
type Revision struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	Text       string `json:"text,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	CreatedBy  *User  `json:"createdBy,omitempty"`
}

// AuthorName returns the revision author's name, or "Unknown".
func (r Revision) AuthorName() string {
	if r.CreatedBy == nil || r.CreatedBy.Name == "" {
		return "Unknown"
	}
	return r.CreatedBy.Name
}

// Answer is returned by documents.answerQuestion.
type Answer struct {
	Search struct {
		ID     string `json:"id,omitempty"`
		Query  string `json:"query"`
		Answer string `json:"answer"`
		Source string `json:"source,omitempty"`
	} `json:"search"`
	Documents []Document `json:"documents"`
}
