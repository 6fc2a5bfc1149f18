package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Handler executes one tool call. The returned text is folded back into the
// agent transcript as a tool result.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool pairs a function declaration exposed to the model with the handler
// that serves it. Handlers must be side-effect free and safe to invoke
// repeatedly and concurrently.
type Tool struct {
	Definition openai.FunctionDefinition
	Handler    Handler
}

// Registry is a closed mapping from tool name to handler. Names are
// validated once at registration; dispatch is a plain map lookup, never
// reflective resolution.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(t Tool) error {
	if t.Definition.Name == "" {
		return errors.New("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Definition.Name)
	}
	if t.Definition.Parameters == nil {
		return fmt.Errorf("tool %q has no input schema", t.Definition.Name)
	}
	if _, exists := r.tools[t.Definition.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Definition.Name)
	}
	r.tools[t.Definition.Name] = t
	r.order = append(r.order, t.Definition.Name)
	return nil
}

// Definitions returns the tool declarations in registration order, in the
// shape the chat-completion API expects.
func (r *Registry) Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		def := t.Definition
		defs = append(defs, openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: &def,
		})
	}
	return defs
}

// Dispatch routes a model-requested call to its registered handler.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return t.Handler(ctx, args)
}
