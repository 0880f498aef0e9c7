// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts conversation turns into the SDK's message
// format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements model.Model using a non-streaming chat completion.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Reply, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]

	return &model.Reply{
		Text:         ch0.Message.Content,
		FinishReason: ch0.FinishReason,
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// buildMessages converts conversation turns into OpenAI chat messages. Tool
// turns carry no text payload relevant to chat completion and are skipped.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	for _, turn := range req.Turns {
		switch turn.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Text))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Text))
		case core.RoleAssistant:
			if turn.Text != "" {
				messages = append(messages, openai.AssistantMessage(turn.Text))
			}
		case core.RoleTool:
			if turn.ToolResult != nil && turn.ToolResult.ID != "" {
				messages = append(messages, openai.ToolMessage(string(turn.ToolResult.Output), turn.ToolResult.ID))
			}
		default:
			if turn.Text != "" {
				messages = append(messages, openai.UserMessage(turn.Text))
			}
		}
	}

	return messages
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "openai",
	}
}
