package core

import (
	"context"
	"errors"
)

// ErrConversationNotFound is returned by StateStore implementations when no
// state exists for the given session id.
var ErrConversationNotFound = errors.New("conversation not found")

// StateStore persists conversation state between turns. The engine itself
// never persists anything; stores are collaborators of the host process
// (CLI, HTTP server) that drive multi-turn sessions.
type StateStore interface {
	// Load returns the stored conversation for a session id or
	// ErrConversationNotFound.
	Load(ctx context.Context, sessionID string) (*Conversation, error)
	// Save stores a snapshot of the conversation for a session id.
	Save(ctx context.Context, sessionID string, state *Conversation) error
	// Delete removes the stored conversation for a session id.
	Delete(ctx context.Context, sessionID string) error
}
