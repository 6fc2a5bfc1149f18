package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/josevbrito/food-review-agent/internal/model"
)

const (
	// SearchToolName is the capability name the model calls to reach the
	// vector index.
	SearchToolName = "search_reviews"

	searchTopK = 5

	// NoResultsSentinel is returned verbatim when the index has nothing on
	// the queried topic, so the model can say so instead of inventing data.
	NoResultsSentinel = "Nenhum review encontrado sobre esse assunto."
)

// Retriever is the slice of the vector index the search tool needs.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]model.RetrievedReview, error)
}

type searchArgs struct {
	Query string `json:"query"`
}

// NewSearchReviewsTool builds the search_reviews tool over the given
// retriever. The schema description nudges the model into formulating a
// focused sub-query instead of forwarding the user's question verbatim.
func NewSearchReviewsTool(retriever Retriever) Tool {
	schema := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"query": {
				Type:        jsonschema.String,
				Description: "A string de busca específica. Ex: 'comida fria', 'atraso na entrega'",
			},
		},
		Required: []string{"query"},
	}

	return Tool{
		Definition: openai.FunctionDefinition{
			Name:        SearchToolName,
			Description: "Searches for actual customer reviews. Useful for checking customer sentiment on specific topics.",
			Parameters:  schema,
		},
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var parsed searchArgs
			if err := json.Unmarshal(args, &parsed); err != nil {
				return "", fmt.Errorf("invalid %s arguments: %w", SearchToolName, err)
			}
			query := strings.TrimSpace(parsed.Query)
			if query == "" {
				return "", errors.New("search_reviews requires a non-empty query")
			}

			results, err := retriever.Query(ctx, query, searchTopK)
			if err != nil {
				return "", fmt.Errorf("review search failed: %w", err)
			}
			if len(results) == 0 {
				return NoResultsSentinel, nil
			}

			blocks := make([]string, len(results))
			for i, r := range results {
				blocks[i] = "Review: " + r.Content
			}
			return strings.Join(blocks, "\n\n"), nil
		},
	}
}
