package core

import (
	"encoding/json"
	"testing"
)

func TestConversation_AppendAndCopy(t *testing.T) {
	c := NewConversation()
	c.AddTurn(NewTurn(RoleUser, "hello"))
	c.AddTurn(NewTurn(RoleAssistant, "hi there"))

	turns := c.Turns()
	if len(turns) != 2 || turns[0].Text != "hello" || turns[1].Role != RoleAssistant {
		t.Fatalf("unexpected turns: %+v", turns)
	}

	// Mutating the returned slice must not affect internal state.
	turns[0].Text = "mutated"
	if c.Turns()[0].Text != "hello" {
		t.Fatal("Turns did not return a defensive copy")
	}
}

func TestConversation_Clone(t *testing.T) {
	c := NewConversation()
	c.AddTurn(NewTurn(RoleUser, "hello"))
	c.SetMetadata("user_id", "u-1")

	clone := c.Clone()
	clone.AddTurn(NewTurn(RoleAssistant, "reply"))
	clone.SetMetadata("user_id", "u-2")

	if c.Len() != 1 {
		t.Fatalf("clone mutation leaked into original: %d turns", c.Len())
	}
	if v, _ := c.Metadata("user_id"); v != "u-1" {
		t.Fatalf("clone metadata mutation leaked into original: %v", v)
	}
}

func TestConversation_JSONRoundTrip(t *testing.T) {
	c := NewConversation()
	c.AddTurn(Turn{Role: RoleUser, Text: "what's the weather?", CreatedAt: 1700000000.25})
	c.AddTurn(Turn{
		Role: RoleAssistant,
		ToolCall: &ToolCall{
			ID:        "call-1",
			Name:      "get_weather",
			Arguments: json.RawMessage(`{"latitude":"48.8","longitude":"2.3"}`),
		},
	})
	c.SetMetadata("channel", "sms")

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored := NewConversation()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("expected 2 turns, got %d", restored.Len())
	}
	if restored.Turns()[1].ToolCall == nil || restored.Turns()[1].ToolCall.Name != "get_weather" {
		t.Fatalf("tool call lost in round-trip: %+v", restored.Turns()[1])
	}
	if v, ok := restored.Metadata("channel"); !ok || v != "sms" {
		t.Fatalf("metadata lost in round-trip: %v", v)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAssistant, RoleSystem, RoleTool} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if Role("speaker").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	if NewID() == NewID() {
		t.Error("expected unique IDs")
	}
}
