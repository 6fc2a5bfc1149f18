package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenAI serves a minimal OpenAI-compatible API for client tests.
func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		type datum struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			data[i] = datum{Embedding: []float32{float32(i) + 1, 0.5}, Index: i}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	})

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tools []any `json:"tools"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		message := map[string]any{"role": "assistant", "content": "resposta final"}
		if len(req.Tools) > 0 {
			message = map[string]any{
				"role":    "assistant",
				"content": "",
				"tool_calls": []map[string]any{
					{
						"id":   "call_1",
						"type": "function",
						"function": map[string]any{
							"name":      "search_reviews",
							"arguments": `{"query":"comida fria"}`,
						},
					},
				},
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": message}},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(
		ChatConfig{BaseURL: baseURL + "/v1", APIKey: "test-key", Model: "test-model"},
		EmbeddingConfig{BaseURL: baseURL + "/v1", APIKey: "test-key", Model: "test-embed"},
	)
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(ChatConfig{Model: "m"}, EmbeddingConfig{Model: "e"})
	assert.Error(t, err, "missing api key must fail fast")

	_, err = NewClient(ChatConfig{APIKey: "k", Model: "m"}, EmbeddingConfig{})
	assert.Error(t, err, "missing embedding model must fail fast")
}

func TestCompleteWithoutTools(t *testing.T) {
	server := fakeOpenAI(t)
	client := newTestClient(t, server.URL)

	msg, err := client.Complete(context.Background(), []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "oi"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "resposta final", msg.Content)
	assert.Empty(t, msg.ToolCalls)
}

func TestCompleteSurfacesToolCalls(t *testing.T) {
	server := fakeOpenAI(t)
	client := newTestClient(t, server.URL)

	tools := []openai.Tool{{
		Type:     openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{Name: "search_reviews"},
	}}
	msg, err := client.Complete(context.Background(), []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "o que falam da comida?"},
	}, tools)
	require.NoError(t, err)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "search_reviews", msg.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query":"comida fria"}`, msg.ToolCalls[0].Function.Arguments)
}

func TestEmbedBatch(t *testing.T) {
	server := fakeOpenAI(t)
	client := newTestClient(t, server.URL)

	vectors, err := client.EmbedBatch(context.Background(), []string{"um", "dois"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0.5}, vectors[0])
	assert.Equal(t, []float32{2, 0.5}, vectors[1])
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	server := fakeOpenAI(t)
	client := newTestClient(t, server.URL)

	_, err := client.Embed(context.Background(), "   ")
	assert.Error(t, err)
}

func TestCompleteTransportError(t *testing.T) {
	server := fakeOpenAI(t)
	client := newTestClient(t, server.URL)
	server.Close()

	_, err := client.Complete(context.Background(), []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "oi"},
	}, nil)
	assert.Error(t, err)
}
