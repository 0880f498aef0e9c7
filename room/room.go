package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/logging"
)

// Event names emitted by the simulated room.
const (
	// EventDataReceived carries an inbound text message from the remote
	// participant.
	EventDataReceived = "data_received"
	// EventParticipantConnected announces the remote participant when the
	// room connects.
	EventParticipantConnected = "participant_connected"
)

// DefaultTopic labels inbound and outbound chat messages unless overridden.
const DefaultTopic = "chat"

// DefaultGraceDelay is the default interval between Connect and the inbound
// message injection. It must be long enough for the entry function to finish
// synchronous handler registration; handlers registered after it elapses miss
// the inbound event. This is a documented timing contract, not a bug.
const DefaultGraceDelay = 300 * time.Millisecond

// ErrNotConnected is returned when Emit is called before Connect.
var ErrNotConnected = errors.New("room not connected")

// Event is the payload delivered to registered handlers.
type Event struct {
	Name        string       // Event name (see constants)
	Data        []byte       // Payload bytes (inbound message text for data_received)
	Topic       string       // Topic label
	Participant *Participant // Originating participant (remote for inbound events)
}

// Handler processes a single event. Returning an error fails the run; the
// context is the run's context and is cancelled on timeout.
type Handler func(ctx context.Context, ev Event) error

// EntryFunc is the caller-supplied business logic executed once per run. It
// receives the simulated job context as its sole argument and is treated as
// untrusted, unmodifiable code.
type EntryFunc func(ctx *JobContext) error

// registration records one handler for one event name in registration order.
type registration struct {
	seq   int
	async bool
	fn    Handler
}

// Options configure a Room.
type Options struct {
	// GraceDelay is the interval between Connect and the inbound message
	// injection. Defaults to DefaultGraceDelay.
	GraceDelay time.Duration
	// Topic labels the injected inbound event. Defaults to DefaultTopic.
	Topic string
	// Logger defaults to a NoOpLogger.
	Logger logging.Logger
}

// Room is the simulated session: it owns the event registry, both
// participants, the output buffer and the conversation history for exactly
// one run. Connect transitions it to connected and schedules the inbound
// message injection exactly once; a second Connect is a no-op.
type Room struct {
	Name string
	SID  string

	local  *Participant
	remote *Participant

	buffer  *Buffer
	history *core.Conversation

	ctx        context.Context
	userInput  string
	graceDelay time.Duration
	topic      string
	logger     logging.Logger

	mu        sync.Mutex
	handlers  map[string][]registration
	connected bool
	firstErr  error

	pending sync.WaitGroup
}

// New builds an isolated room for one run. The context governs all
// background tasks spawned by the room (injection timer, async handlers);
// cancelling it stops them. The provided history is mutated in place as the
// run progresses and must not be shared across runs.
func New(ctx context.Context, jobID, userInput string, history *core.Conversation, optFns ...func(o *Options)) *Room {
	opts := Options{
		GraceDelay: DefaultGraceDelay,
		Topic:      DefaultTopic,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if history == nil {
		history = core.NewConversation()
	}

	r := &Room{
		Name:       fmt.Sprintf("session_%s", jobID),
		SID:        fmt.Sprintf("RM_%s", jobID),
		local:      newParticipant("agent", "Agent", "PA_agent"),
		remote:     newParticipant("user", "User", "PA_user"),
		buffer:     NewBuffer(),
		history:    history,
		ctx:        ctx,
		userInput:  userInput,
		graceDelay: opts.GraceDelay,
		topic:      opts.Topic,
		logger:     opts.Logger,
		handlers:   map[string][]registration{},
	}

	r.local.setPublish(r.capture)

	return r
}

// LocalParticipant returns the local (agent) participant.
func (r *Room) LocalParticipant() *Participant { return r.local }

// RemoteParticipants returns the remote participants keyed by identity.
// Exactly one remote actor exists in text mode.
func (r *Room) RemoteParticipants() map[string]*Participant {
	return map[string]*Participant{r.remote.Identity: r.remote}
}

// History returns the run's conversation history. Handlers and the room
// itself mutate it as the run progresses.
func (r *Room) History() *core.Conversation { return r.history }

// Buffer returns the run's output buffer. The engine drains it exactly once
// after quiescence.
func (r *Room) Buffer() *Buffer { return r.buffer }

// Context returns the run's context.
func (r *Room) Context() context.Context { return r.ctx }

// IsConnected reports whether Connect has been called.
func (r *Room) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

// On registers a synchronous handler for an event name. The handler's
// sequence number is the current registry size for that name; handlers for
// the same name fire in registration order.
func (r *Room) On(event string, fn Handler) {
	r.register(event, fn, false)
}

// OnAsync registers an asynchronous handler. Emit starts it on its own
// goroutine without blocking the caller; the engine waits for all such work
// to settle before finalizing the result.
func (r *Room) OnAsync(event string, fn Handler) {
	r.register(event, fn, true)
}

// Off removes all handlers registered for an event name.
func (r *Room) Off(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, event)
}

func (r *Room) register(event string, fn Handler, async bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := len(r.handlers[event])
	r.handlers[event] = append(r.handlers[event], registration{seq: seq, async: async, fn: fn})
	r.logger.Debug("room handler registered", "room", r.Name, "event", event, "seq", seq, "async", async)
}

// Connect transitions the room to connected, announces the remote
// participant and schedules the inbound message injection exactly once.
// Calling Connect again is a no-op.
func (r *Room) Connect() error {
	r.mu.Lock()
	if r.connected {
		r.mu.Unlock()
		return nil
	}
	r.connected = true
	r.mu.Unlock()

	r.logger.Debug("room connected", "room", r.Name)

	if err := r.Emit(Event{Name: EventParticipantConnected, Participant: r.remote}); err != nil {
		return err
	}

	r.pending.Add(1)
	go r.injectAfterDelay()

	return nil
}

// Emit invokes every handler registered for the event's name in registration
// order. Synchronous handlers run inline and the first error stops the
// sequence; asynchronous handlers are started without blocking and their
// failures are recorded for the engine to observe after settling. Emitting
// before Connect is a reported error.
func (r *Room) Emit(ev Event) error {
	r.mu.Lock()
	if !r.connected {
		r.mu.Unlock()
		return ErrNotConnected
	}
	regs := make([]registration, len(r.handlers[ev.Name]))
	copy(regs, r.handlers[ev.Name])
	r.mu.Unlock()

	for _, reg := range regs {
		if reg.async {
			r.pending.Add(1)
			go r.runAsync(reg, ev)
			continue
		}
		if err := r.invoke(reg.fn, ev); err != nil {
			return fmt.Errorf("handler %s[%d]: %w", ev.Name, reg.seq, err)
		}
	}
	return nil
}

func (r *Room) runAsync(reg registration, ev Event) {
	defer r.pending.Done()
	if err := r.invoke(reg.fn, ev); err != nil {
		r.recordErr(fmt.Errorf("handler %s[%d]: %w", ev.Name, reg.seq, err))
	}
}

// invoke calls a handler converting panics into errors so untrusted handler
// code cannot crash the run.
func (r *Room) invoke(fn Handler, ev Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return fn(r.ctx, ev)
}

// injectAfterDelay delivers the inbound user message after the grace delay.
// The user turn is recorded into the history before the event fires so
// handlers observe a complete context. Cancellation of the run context stops
// the timer without injecting.
func (r *Room) injectAfterDelay() {
	defer r.pending.Done()

	t := time.NewTimer(r.graceDelay)
	defer t.Stop()
	select {
	case <-r.ctx.Done():
		return
	case <-t.C:
	}

	r.history.AddTurn(core.NewTurn(core.RoleUser, r.userInput))
	r.logger.Debug("room injecting inbound message", "room", r.Name, "bytes", len(r.userInput))

	ev := Event{
		Name:        EventDataReceived,
		Data:        []byte(r.userInput),
		Topic:       r.topic,
		Participant: r.remote,
	}
	if err := r.Emit(ev); err != nil {
		r.recordErr(err)
	}
}

// capture is the local participant's publish path: an immediately-applied
// synchronous append to the buffer plus an assistant turn in the history.
func (r *Room) capture(data []byte, opts PublishOptions) error {
	topic := opts.Topic
	if topic == "" {
		topic = r.topic
	}
	r.buffer.Append(Entry{Data: data, Topic: topic, Reliable: opts.Reliable, CapturedAt: time.Now()})
	r.history.AddTurn(core.NewTurn(core.RoleAssistant, string(data)))
	r.logger.Debug("room captured outbound message", "room", r.Name, "bytes", len(data), "topic", topic)
	return nil
}

// Settle blocks until the injection task and all asynchronous handler work
// have finished, or the context is cancelled.
func (r *Room) Settle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the first failure recorded by background work (injection or
// asynchronous handlers).
func (r *Room) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.firstErr
}

func (r *Room) recordErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.firstErr == nil {
		r.firstErr = err
	}
}
