package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josevbrito/food-review-agent/internal/model"
)

func echoTool(name string) Tool {
	return Tool{
		Definition: openai.FunctionDefinition{
			Name:       name,
			Parameters: jsonschema.Definition{Type: jsonschema.Object},
		},
		Handler: func(_ context.Context, args json.RawMessage) (string, error) {
			return string(args), nil
		},
	}
}

func TestRegistryValidation(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Tool{}), "nameless tool")

	assert.Error(t, r.Register(Tool{
		Definition: openai.FunctionDefinition{Name: "broken", Parameters: jsonschema.Definition{}},
	}), "handler-less tool")

	assert.Error(t, r.Register(Tool{
		Definition: openai.FunctionDefinition{Name: "no_schema"},
		Handler:    func(context.Context, json.RawMessage) (string, error) { return "", nil },
	}), "schema-less tool")

	require.NoError(t, r.Register(echoTool("echo")))
	assert.Error(t, r.Register(echoTool("echo")), "duplicate name")
}

func TestRegistryDefinitionsOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("first")))
	require.NoError(t, r.Register(echoTool("second")))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "first", defs[0].Function.Name)
	assert.Equal(t, "second", defs[1].Function.Name)
	assert.Equal(t, openai.ToolTypeFunction, defs[0].Type)
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	out, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, out)

	_, err = r.Dispatch(context.Background(), "missing", nil)
	assert.Error(t, err)
}

func TestSearchReviewsToolFormatsResults(t *testing.T) {
	retriever := &stubRetriever{results: []model.RetrievedReview{
		{Content: "Rating: 1/5. Review: Comida chegou fria e atrasada"},
		{Content: "Rating: 2/5. Review: Pedido veio errado"},
	}}
	tool := NewSearchReviewsTool(retriever)

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"comida fria"}`))
	require.NoError(t, err)
	assert.Equal(t,
		"Review: Rating: 1/5. Review: Comida chegou fria e atrasada\n\n"+
			"Review: Rating: 2/5. Review: Pedido veio errado",
		out)
	assert.Equal(t, []string{"comida fria"}, retriever.queries)
}

func TestSearchReviewsToolNoResultsSentinel(t *testing.T) {
	tool := NewSearchReviewsTool(&stubRetriever{})

	out, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"sushi de marte"}`))
	require.NoError(t, err)
	assert.Equal(t, NoResultsSentinel, out)
}

func TestSearchReviewsToolErrors(t *testing.T) {
	t.Run("retriever failure", func(t *testing.T) {
		tool := NewSearchReviewsTool(&stubRetriever{err: errors.New("index unavailable")})
		_, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"x"}`))
		assert.Error(t, err)
	})

	t.Run("blank query", func(t *testing.T) {
		tool := NewSearchReviewsTool(&stubRetriever{})
		_, err := tool.Handler(context.Background(), json.RawMessage(`{"query":"  "}`))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		tool := NewSearchReviewsTool(&stubRetriever{})
		_, err := tool.Handler(context.Background(), json.RawMessage(`not json`))
		assert.Error(t, err)
	})
}
