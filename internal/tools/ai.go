package tools

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
)

type askArgs struct {
	Question     string `json:"question"`
	CollectionID string `json:"collection_id"`
	DocumentID   string `json:"document_id"`
}

func (a askArgs) Validate() error {
	return validation.ValidateStruct(&a, validation.Field(&a.Question, validation.Required))
}

func (t *Toolset) aiTools() []Tool {
	return []Tool{
		{
			Category: CategoryAI,
			Definition: mcp.NewTool("ask_ai_about_documents",
				mcp.WithDescription("Asks Outline AI a natural language question about the workspace's documents."),
				mcp.WithString("question", mcp.Required(), mcp.Description("The question to ask")),
				mcp.WithString("collection_id", mcp.Description("Restrict the answer to this collection")),
				mcp.WithString("document_id", mcp.Description("Restrict the answer to this document")),
			),
			Handler: handle(t, "querying Outline AI", t.askAI),
		},
	}
}

func (t *Toolset) askAI(ctx context.Context, s session, args askArgs) (string, error) {
	answer, err := s.client.AnswerQuestion(ctx, args.Question, args.CollectionID, args.DocumentID)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(answer.Search.Answer)
	if text == "" {
		return "No answer was found. Outline AI answers may be disabled for this workspace, or the question matched no documents.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Q: %s\n\n", args.Question)
	fmt.Fprintf(&b, "%s\n", text)

	if len(answer.Documents) > 0 {
		b.WriteString("\n## Sources\n\n")
		for i, doc := range answer.Documents {
			fmt.Fprintf(&b, "%d. %s (ID: %s)\n", i+1, orDefault(doc.Title, untitled), doc.ID)
		}
	}

	return b.String(), nil
}
