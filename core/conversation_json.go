package core

import "encoding/json"

// conversationDoc is the wire form of a Conversation. The state package
// layers validating decode (with field paths) on top of this shape.
type conversationDoc struct {
	Turns    []Turn         `json:"turns"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler preserving turn order and metadata.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	return json.Marshal(conversationDoc{Turns: c.Turns(), Metadata: c.metadataForWire()})
}

// UnmarshalJSON implements json.Unmarshaler. Prefer state.Decode when field
// level error reporting is required.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var doc conversationDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = doc.Turns
	c.metadata = doc.Metadata
	if c.metadata == nil {
		c.metadata = map[string]any{}
	}
	return nil
}

// metadataForWire returns nil for an empty metadata map so the field is
// omitted on the wire instead of serializing an empty object.
func (c *Conversation) metadataForWire() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.metadata) == 0 {
		return nil
	}
	m := make(map[string]any, len(c.metadata))
	for k, v := range c.metadata {
		m[k] = v
	}
	return m
}
