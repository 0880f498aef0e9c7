// Package state implements the serialization contract for conversation
// state carried between runs. Encode and Decode are mutual inverses for
// every valid core.Conversation, including the empty one. Decode validates
// the document field by field and reports the offending path via
// core.DecodeError instead of silently substituting defaults.
package state
