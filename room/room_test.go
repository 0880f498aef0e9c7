package room

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/textmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, userInput string, optFns ...func(o *Options)) *Room {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	fns := append([]func(o *Options){func(o *Options) { o.GraceDelay = 10 * time.Millisecond }}, optFns...)
	return New(ctx, "job-1", userInput, core.NewConversation(), fns...)
}

func TestRoom_EmitBeforeConnect(t *testing.T) {
	r := newTestRoom(t, "hi")
	err := r.Emit(Event{Name: EventDataReceived})
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestRoom_ConnectIsIdempotent(t *testing.T) {
	r := newTestRoom(t, "hi")

	var connects int
	r.On(EventParticipantConnected, func(ctx context.Context, ev Event) error {
		connects++
		return nil
	})

	require.NoError(t, r.Connect())
	require.NoError(t, r.Connect())
	assert.True(t, r.IsConnected())
	assert.Equal(t, 1, connects, "second Connect must be a no-op")
}

func TestRoom_HandlerRegistrationOrder(t *testing.T) {
	r := newTestRoom(t, "hello")

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Handler {
		return func(ctx context.Context, ev Event) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	r.On(EventDataReceived, record("h1"))
	r.On(EventDataReceived, record("h2"))
	r.On(EventDataReceived, record("h3"))

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"h1", "h2", "h3"}, order)
}

func TestRoom_InjectionDeliversUserMessage(t *testing.T) {
	r := newTestRoom(t, "what's the weather?")

	var got Event
	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		got = ev
		return ev.Participant.PublishData([]byte("sunny"))
	})

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))

	assert.Equal(t, "what's the weather?", string(got.Data))
	assert.Equal(t, DefaultTopic, got.Topic)
	require.NotNil(t, got.Participant)
	assert.Equal(t, "user", got.Participant.Identity)

	// The remote participant carries no publish path.
	require.ErrorIs(t, r.Err(), ErrNotPublisher)
}

func TestRoom_PublishFromSyncHandlerIsObservedImmediately(t *testing.T) {
	r := newTestRoom(t, "ping")

	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		return r.LocalParticipant().PublishData([]byte("pong"))
	})

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))

	entries := r.Buffer().Drain()
	require.Len(t, entries, 1)
	assert.Equal(t, "pong", string(entries[0].Data))
	assert.True(t, entries[0].Reliable)
	assert.False(t, entries[0].CapturedAt.IsZero())
}

func TestRoom_AsyncHandlerSettles(t *testing.T) {
	r := newTestRoom(t, "ping")

	r.OnAsync(EventDataReceived, func(ctx context.Context, ev Event) error {
		time.Sleep(20 * time.Millisecond)
		return r.LocalParticipant().PublishData([]byte("late pong"))
	})

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))

	entries := r.Buffer().Drain()
	require.Len(t, entries, 1)
	assert.Equal(t, "late pong", string(entries[0].Data))
}

func TestRoom_HistoryRecordsBothSides(t *testing.T) {
	r := newTestRoom(t, "My name is Alice")

	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		// The inbound turn is recorded before the event fires.
		turns := r.History().Turns()
		if len(turns) == 0 || turns[len(turns)-1].Text != "My name is Alice" {
			return errors.New("inbound turn not visible to handler")
		}
		return r.LocalParticipant().PublishData([]byte("Hi Alice"))
	})

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))
	require.NoError(t, r.Err())

	turns := r.History().Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
	assert.Equal(t, "Hi Alice", turns[1].Text)
}

func TestRoom_HandlerPanicBecomesError(t *testing.T) {
	r := newTestRoom(t, "boom")

	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		panic("kaboom")
	})

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "kaboom")
}

func TestRoom_CancelStopsInjection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, "job-1", "never delivered", core.NewConversation(), func(o *Options) {
		o.GraceDelay = 50 * time.Millisecond
	})

	fired := false
	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		fired = true
		return nil
	})

	require.NoError(t, r.Connect())
	cancel()
	require.NoError(t, r.Settle(context.Background()))

	assert.False(t, fired, "injection must not fire after cancellation")
	assert.Equal(t, 0, r.History().Len())
}

func TestRoom_LateRegistrationMissesInjection(t *testing.T) {
	r := newTestRoom(t, "too slow")

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))

	// Grace delay has elapsed; a handler registered now never sees the
	// inbound event. This pins the documented timing contract.
	fired := false
	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		fired = true
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	assert.False(t, fired)
}

func TestBuffer_DrainExactlyOnce(t *testing.T) {
	b := NewBuffer()
	b.Append(Entry{Data: []byte("one")})
	b.Append(Entry{Data: []byte("two")})
	require.Equal(t, 2, b.Len())

	first := b.Drain()
	require.Len(t, first, 2)
	assert.Nil(t, b.Drain(), "second drain must return nothing")

	// Stragglers after drain are dropped.
	b.Append(Entry{Data: []byte("late")})
	assert.Equal(t, 0, b.Len())
}

func TestRoom_OffRemovesHandlers(t *testing.T) {
	r := newTestRoom(t, "hi")

	fired := false
	r.On(EventDataReceived, func(ctx context.Context, ev Event) error {
		fired = true
		return nil
	})
	r.Off(EventDataReceived)

	require.NoError(t, r.Connect())
	require.NoError(t, r.Settle(context.Background()))
	assert.False(t, fired)
}
