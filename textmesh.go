// Package textmesh provides a high-level façade over the execution engine and
// state stores for hosting event-driven text agents as pure request/response
// functions. Most applications interact with this package by:
//  1. Creating a TextMesh via New() (optionally overriding the in-memory store)
//  2. Supplying an entry function (hand written or from the agents package)
//  3. Driving turns with Run(), which loads, executes and saves session state
//
// The façade delegates execution to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a Redis backed store and a
// structured logger.
package textmesh

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/engine"
	"github.com/hupe1980/textmesh/logging"
	"github.com/hupe1980/textmesh/room"
	"github.com/hupe1980/textmesh/session"
)

// Options configures the TextMesh instance.
type Options struct {
	// DefaultTimeout bounds each execution when the caller does not override it.
	DefaultTimeout time.Duration

	// GraceDelay is how long a connected room waits before injecting the
	// inbound message, giving the entry function time to register handlers.
	GraceDelay time.Duration

	// Store persists conversation state between turns (defaults to an
	// in-memory implementation if not provided).
	Store core.StateStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TextMesh is the high-level façade aggregating the engine and state store.
type TextMesh struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new TextMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *TextMesh {
	opts := Options{
		DefaultTimeout: engine.DefaultTimeout,
		GraceDelay:     room.DefaultGraceDelay,
		Store:          session.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	eng := engine.New(func(o *engine.Options) {
		o.DefaultTimeout = opts.DefaultTimeout
		o.GraceDelay = opts.GraceDelay
		o.Logger = opts.Logger
	})

	return &TextMesh{opts: opts, engine: eng}
}

// Engine exposes the underlying engine for hosts that manage state themselves.
func (m *TextMesh) Engine() *engine.Engine { return m.engine }

// Execute runs one turn with explicit state, bypassing the store.
func (m *TextMesh) Execute(ctx context.Context, entry room.EntryFunc, req core.Request) core.Result {
	return m.engine.Execute(ctx, entry, req)
}

// Run executes one conversation turn for a session: prior state is loaded
// from the store, the entry function runs against it and, on success, the
// updated state is saved back under the same session id.
func (m *TextMesh) Run(ctx context.Context, entry room.EntryFunc, sessionID, userInput string) (core.Result, error) {
	prior, err := m.opts.Store.Load(ctx, sessionID)
	if err != nil && err != core.ErrConversationNotFound {
		return core.Result{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	res := m.engine.Execute(ctx, entry, core.Request{
		JobID:     core.NewID(),
		UserInput: userInput,
		State:     prior,
	})

	if res.Status == core.StatusSuccess {
		if err := m.opts.Store.Save(ctx, sessionID, res.UpdatedState); err != nil {
			return res, fmt.Errorf("save session %s: %w", sessionID, err)
		}
	}

	return res, nil
}

// Reset deletes any stored state for the session.
func (m *TextMesh) Reset(ctx context.Context, sessionID string) error {
	return m.opts.Store.Delete(ctx, sessionID)
}
