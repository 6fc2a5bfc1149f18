package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultMaxTurns bounds the reasoning loop. Each turn is one model call;
// without a cap a tool-call cycle could loop forever at full token cost.
const DefaultMaxTurns = 6

// processingErrorPrefix marks textual answers that report an internal
// failure instead of an analysis.
const processingErrorPrefix = "Erro no processamento: "

const systemPrompt = `You are the 'FoodReview Insights Agent', an expert analyst for iFood restaurants.
Your goal is to help restaurant owners understand their feedback.

GUIDELINES:
1. ALWAYS use the 'search_reviews' tool to find real data before answering. Do not hallucinate reviews.
2. If you find reviews, summarize the key points (Positive vs Negative).
3. Respond in Portuguese (PT-BR).`

// LLM is the chat-completion collaborator, called once per reasoning turn.
type LLM interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

// Agent runs a bounded tool-calling loop over a single request. It holds no
// per-request state, so one instance serves all in-flight requests.
type Agent struct {
	llm      LLM
	registry *Registry
	maxTurns int
}

func New(llm LLM, registry *Registry, maxTurns int) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Agent{llm: llm, registry: registry, maxTurns: maxTurns}, nil
}

// Chat answers one user message. The returned error is transport-level only:
// the very first model call failed before producing anything. Every later
// failure (tool errors, malformed arguments, mid-loop model errors, turn
// limit exhausted) is converted into a prefixed textual answer.
func (a *Agent) Chat(ctx context.Context, userInput string) (string, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return "", errors.New("message is empty")
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userInput},
	}
	tools := a.registry.Definitions()

	for turn := 0; turn < a.maxTurns; turn++ {
		msg, err := a.llm.Complete(ctx, messages, tools)
		if err != nil {
			if turn == 0 {
				return "", fmt.Errorf("model call failed: %w", err)
			}
			return a.processingError(err), nil
		}

		if len(msg.ToolCalls) == 0 {
			return strings.TrimSpace(msg.Content), nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := a.registry.Dispatch(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			if err != nil {
				return a.processingError(err), nil
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	return a.processingError(fmt.Errorf("limite de %d iterações atingido sem resposta final", a.maxTurns)), nil
}

func (a *Agent) processingError(err error) string {
	log.Printf("agent internal failure: %v", err)
	return processingErrorPrefix + err.Error()
}
