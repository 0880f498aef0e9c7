package server

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// executeSchema is the JSON Schema for the execute request body. Conversation
// state is validated in depth by the state codec; here only the envelope
// shape is checked.
const executeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "job_id": {"type": "string"},
    "session_id": {"type": "string"},
    "user_input": {"type": "string", "minLength": 1},
    "state": {"type": "object"},
    "timeout_ms": {"type": "integer", "minimum": 1}
  },
  "required": ["user_input"],
  "additionalProperties": false
}`

var compiledExecuteSchema = jsonschema.MustCompileString("execute.json", executeSchema)

// validateExecuteBody checks the raw request body against the envelope schema.
func validateExecuteBody(raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledExecuteSchema.Validate(payload); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
