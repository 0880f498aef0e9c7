// Package redis provides a Redis backed core.StateStore. It keeps one JSON
// document per session id, optionally with a TTL so abandoned sessions expire
// on their own.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/state"
	backend "github.com/redis/go-redis/v9"
)

// Store implements core.StateStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for stored conversations. Zero means no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored conversations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store connecting to the given address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "textmesh:session:",
		ttl:    0,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save persists the conversation to Redis.
func (s *Store) Save(ctx context.Context, sessionID string, conv *core.Conversation) error {
	data, err := state.Encode(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the conversation from Redis.
func (s *Store) Load(ctx context.Context, sessionID string) (*core.Conversation, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, core.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	conv, err := state.Decode([]byte(val))
	if err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}

	return conv, nil
}

// Delete removes the stored conversation.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
