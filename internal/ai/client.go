package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatConfig holds API settings for the chat-completion endpoint.
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// EmbeddingConfig holds API settings for the embedding endpoint. It may point
// at a different provider than the chat endpoint; the model named here is
// part of the index compatibility key and must match between ingestion and
// query time.
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client wraps two OpenAI-compatible endpoints: one for chat completions
// (with tool calling) and one for embeddings. Safe for concurrent use.
type Client struct {
	chat        *openai.Client
	chatModel   string
	temperature float32
	embed       *openai.Client
	embedModel  openai.EmbeddingModel
}

func NewClient(chatCfg ChatConfig, embCfg EmbeddingConfig) (*Client, error) {
	if chatCfg.APIKey == "" {
		return nil, errors.New("chat api key is required")
	}
	if chatCfg.Model == "" {
		return nil, errors.New("chat model is required")
	}
	if embCfg.Model == "" {
		return nil, errors.New("embedding model is required")
	}
	return &Client{
		chat:        newAPIClient(chatCfg.BaseURL, chatCfg.APIKey),
		chatModel:   chatCfg.Model,
		temperature: chatCfg.Temperature,
		embed:       newAPIClient(embCfg.BaseURL, embCfg.APIKey),
		embedModel:  openai.EmbeddingModel(embCfg.Model),
	}, nil
}

func newAPIClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 90 * time.Second}
	return openai.NewClientWithConfig(cfg)
}

// Complete runs a single chat-completion turn. When tool definitions are
// provided the returned message may carry tool calls instead of content.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Tools:       tools,
		Temperature: c.temperature,
	})
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, errors.New("empty llm choices")
	}
	return resp.Choices[0].Message, nil
}

// CompleteText is a convenience for one-shot prompts without tools, used by
// the synthetic data generator. Temperature overrides the configured default.
func (c *Client) CompleteText(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty llm choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("embedding input is empty")
	}
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns embeddings for multiple texts in one API call. Callers
// should chunk large inputs; providers commonly cap the batch size.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.embed.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.embedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}
	vectors := make([][]float32, len(resp.Data))
	for i := range resp.Data {
		if len(resp.Data[i].Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}
		vectors[i] = resp.Data[i].Embedding
	}
	return vectors, nil
}

// EmbeddingModel reports the configured embedding model name.
func (c *Client) EmbeddingModel() string {
	return string(c.embedModel)
}
