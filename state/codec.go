package state

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/textmesh/core"
)

// Encode serializes a conversation to its transport-neutral JSON form. The
// encoding is lossless and order-preserving; Decode restores an equal value.
func Encode(c *core.Conversation) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("nil conversation")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode conversation: %w", err)
	}
	return data, nil
}

// Decode parses and validates a serialized conversation document. Malformed
// input yields a *core.DecodeError carrying the offending field path; the
// document is never partially applied.
func Decode(data []byte) (*core.Conversation, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.NewDecodeError("", "not a JSON object: %v", err)
	}

	rawTurns, ok := doc["turns"]
	if !ok {
		return nil, core.NewDecodeError("turns", "required field missing")
	}
	var turnDocs []json.RawMessage
	if err := json.Unmarshal(rawTurns, &turnDocs); err != nil {
		return nil, core.NewDecodeError("turns", "expected array: %v", err)
	}

	turns := make([]core.Turn, 0, len(turnDocs))
	for i, raw := range turnDocs {
		turn, err := decodeTurn(fmt.Sprintf("turns[%d]", i), raw)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}

	metadata := map[string]any{}
	if rawMeta, ok := doc["metadata"]; ok {
		if err := json.Unmarshal(rawMeta, &metadata); err != nil {
			return nil, core.NewDecodeError("metadata", "expected object: %v", err)
		}
	}

	return core.NewConversationFrom(turns, metadata), nil
}

// decodeTurn validates a single turn document at the given path.
func decodeTurn(path string, raw json.RawMessage) (core.Turn, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return core.Turn{}, core.NewDecodeError(path, "expected object: %v", err)
	}

	rawRole, ok := fields["role"]
	if !ok {
		return core.Turn{}, core.NewDecodeError(path+".role", "required field missing")
	}
	var role core.Role
	if err := json.Unmarshal(rawRole, &role); err != nil {
		return core.Turn{}, core.NewDecodeError(path+".role", "expected string: %v", err)
	}
	if !role.Valid() {
		return core.Turn{}, core.NewDecodeError(path+".role", "unknown role %q", role)
	}

	var turn core.Turn
	if err := json.Unmarshal(raw, &turn); err != nil {
		return core.Turn{}, core.NewDecodeError(path, "malformed turn: %v", err)
	}
	if turn.ToolCall != nil && turn.ToolCall.Name == "" {
		return core.Turn{}, core.NewDecodeError(path+".tool_call.name", "required field missing")
	}
	if turn.ToolResult != nil && turn.ToolResult.Name == "" {
		return core.Turn{}, core.NewDecodeError(path+".tool_result.name", "required field missing")
	}
	return turn, nil
}
