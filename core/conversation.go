package core

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn authored by the remote user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn authored by the agent.
	RoleAssistant Role = "assistant"
	// RoleSystem marks instruction / system turns.
	RoleSystem Role = "system"
	// RoleTool marks a tool output turn.
	RoleTool Role = "tool"
)

// Valid reports whether the role is one of the portable role values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	}
	return false
}

// ToolCall describes a tool / function invocation request embedded in a turn.
type ToolCall struct {
	ID        string          `json:"id,omitempty"`        // Optional stable id (can be supplied later)
	Name      string          `json:"name"`                // Tool / function name
	Arguments json.RawMessage `json:"arguments,omitempty"` // Serialized argument payload (JSON)
}

// ToolResult captures the outcome of a previously issued ToolCall.
type ToolResult struct {
	ID     string          `json:"id,omitempty"`     // Matches originating ToolCall ID
	Name   string          `json:"name"`             // Tool / function name
	Output json.RawMessage `json:"output,omitempty"` // Successful result payload (JSON)
	Error  string          `json:"error,omitempty"`  // Populated on failure
}

// Turn is a single entry in a conversation history. Content is plain text;
// structured tool payloads ride along as optional fields. CreatedAt uses
// fractional seconds since Unix epoch so serialized histories stay ordered
// and portable across runtimes.
type Turn struct {
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
	CreatedAt  float64     `json:"created_at,omitempty"`
}

// NewTurn creates a text turn stamped with the current time.
func NewTurn(role Role, text string) Turn {
	return Turn{Role: role, Text: text, CreatedAt: UnixSeconds(time.Now())}
}

// UnixSeconds converts a time.Time to fractional seconds since Unix epoch.
func UnixSeconds(t time.Time) float64 { return float64(t.UnixNano()) / 1e9 }

// Conversation is the portable conversation state carried between runs: an
// ordered turn history plus a caller-defined metadata map. It is safe for
// concurrent access. An empty Conversation is valid and distinct from a nil
// *Conversation ("no state provided").
//
// Contract:
//   - Turns are append-only and order-preserving
//   - Turns returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of slices/maps for safe divergence
type Conversation struct {
	turns    []Turn
	metadata map[string]any
	mu       sync.RWMutex
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{metadata: map[string]any{}}
}

// NewConversationFrom creates a conversation pre-loaded with turns and metadata.
// Both inputs are copied.
func NewConversationFrom(turns []Turn, metadata map[string]any) *Conversation {
	c := NewConversation()
	c.turns = append(c.turns, turns...)
	for k, v := range metadata {
		c.metadata[k] = v
	}
	return c
}

// AddTurn appends a turn to the history.
func (c *Conversation) AddTurn(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, t)
}

// Turns returns a defensive copy of the full turn history.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	turns := make([]Turn, len(c.turns))
	copy(turns, c.turns)
	return turns
}

// Len returns the number of turns in the history.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// SetMetadata sets a metadata key/value pair. Values must stay within the
// portable set (string, number, bool, nil and nested maps/slices thereof) to
// survive serialization; the state codec enforces this on decode.
func (c *Conversation) SetMetadata(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[key] = value
}

// Metadata returns the value and existence flag for a metadata key.
func (c *Conversation) Metadata(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.metadata[key]
	return v, ok
}

// MetadataMap returns a shallow copy of the metadata map.
func (c *Conversation) MetadataMap() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := make(map[string]any, len(c.metadata))
	for k, v := range c.metadata {
		m[k] = v
	}
	return m
}

// Clone returns a deep copy of the conversation safe for independent mutation.
func (c *Conversation) Clone() *Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Conversation{
		turns:    make([]Turn, len(c.turns)),
		metadata: make(map[string]any, len(c.metadata)),
	}
	copy(clone.turns, c.turns)
	for k, v := range c.metadata {
		clone.metadata[k] = v
	}
	return clone
}

// TextHistory renders the turn history as role-prefixed lines. Useful for
// debugging and for simple agents that scan prior context.
func (c *Conversation) TextHistory() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var b strings.Builder
	for i, t := range c.turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}
