package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/textmesh/core"
)

// Request captures the normalized model input produced by entry functions:
// optional instructions plus the conversation so far, newest turn last.
type Request struct {
	Instructions string      `json:"instructions,omitempty"`
	Turns        []core.Turn `json:"turns"`
}

// TokenUsage captures token usage statistics for a reply.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Reply is the completed model output for a request.
type Reply struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required by entry functions to produce a
// reply from conversation history.
type Model interface {
	Complete(ctx context.Context, req Request) (*Reply, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel with deterministic canned replies.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:     name,
			Provider: provider,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Complete implements Model; replies based on the latest user turn.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Turns) == 0 {
		return nil, fmt.Errorf("no turns provided")
	}

	var inputText string
	for i := len(req.Turns) - 1; i >= 0; i-- {
		if req.Turns[i].Role == core.RoleUser {
			inputText = req.Turns[i].Text
			break
		}
	}

	full := m.responses[inputText]
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", inputText)
	}

	return &Reply{Text: full, FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
