package session

import (
	"context"
	"sync"

	"github.com/hupe1980/textmesh/core"
)

// InMemoryStore is a volatile StateStore implementation keeping conversations
// in a process local map. It is safe for concurrent access and best suited
// for tests or ephemeral demo servers. Stored and returned conversations are
// cloned to prevent external mutation of internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.Conversation
}

// NewInMemoryStore constructs an empty in-memory state store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.Conversation)}
}

// Load returns a clone of the stored conversation or core.ErrConversationNotFound.
func (s *InMemoryStore) Load(_ context.Context, sessionID string) (*core.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[sessionID]
	if !ok {
		return nil, core.ErrConversationNotFound
	}
	return conv.Clone(), nil
}

// Save stores a clone of the provided conversation snapshot.
func (s *InMemoryStore) Save(_ context.Context, sessionID string, state *core.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[sessionID] = state.Clone()
	return nil
}

// Delete removes the stored conversation for the given session id.
func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, sessionID)
	return nil
}
