package testutil

import (
	"github.com/hupe1980/textmesh/core"
)

// ConversationBuilder provides a fluent helper for constructing conversations
// in tests.
// Example:
//
//	conv := NewConversationBuilder().UserText("hi").AssistantText("hello").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ConversationBuilder struct {
	turns    []core.Turn
	metadata map[string]any
}

// NewConversationBuilder creates an empty builder.
func NewConversationBuilder() *ConversationBuilder {
	return &ConversationBuilder{metadata: make(map[string]any)}
}

// UserText appends a user turn (chainable).
func (b *ConversationBuilder) UserText(t string) *ConversationBuilder {
	b.turns = append(b.turns, core.NewTurn(core.RoleUser, t))
	return b
}

// AssistantText appends an assistant turn (chainable).
func (b *ConversationBuilder) AssistantText(t string) *ConversationBuilder {
	b.turns = append(b.turns, core.NewTurn(core.RoleAssistant, t))
	return b
}

// SystemText appends a system turn (chainable).
func (b *ConversationBuilder) SystemText(t string) *ConversationBuilder {
	b.turns = append(b.turns, core.NewTurn(core.RoleSystem, t))
	return b
}

// Turn appends a prebuilt turn (chainable).
func (b *ConversationBuilder) Turn(turn core.Turn) *ConversationBuilder {
	b.turns = append(b.turns, turn)
	return b
}

// Metadata sets one metadata entry (chainable).
func (b *ConversationBuilder) Metadata(key string, value any) *ConversationBuilder {
	b.metadata[key] = value
	return b
}

// Build materializes the conversation.
func (b *ConversationBuilder) Build() *core.Conversation {
	return core.NewConversationFrom(b.turns, b.metadata)
}

// Request builds a core.Request carrying the conversation as prior state.
func (b *ConversationBuilder) Request(jobID, userInput string) core.Request {
	return core.Request{
		JobID:     jobID,
		UserInput: userInput,
		State:     b.Build(),
	}
}
