package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/session/redis"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ core.StateStore = (*redis.Store)(nil)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	return redis.NewFromClient(client, opts...), mr
}

func TestStore_SaveLoadDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	conv := core.NewConversation()
	conv.AddTurn(core.NewTurn(core.RoleUser, "My name is Alice"))
	conv.AddTurn(core.NewTurn(core.RoleAssistant, "Noted."))
	conv.SetMetadata("channel", "sms")

	require.NoError(t, store.Save(ctx, "s1", conv))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "My name is Alice", got.Turns()[0].Text)
	assert.Equal(t, "sms", got.MetadataMap()["channel"])

	require.NoError(t, store.Delete(ctx, "s1"))

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestStore_TTLExpiration(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	conv := core.NewConversation()
	conv.AddTurn(core.NewTurn(core.RoleUser, "hello"))
	require.NoError(t, store.Save(ctx, "s-ttl", conv))

	_, err := store.Load(ctx, "s-ttl")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "s-ttl")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestStore_KeyPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))

	conv := core.NewConversation()
	require.NoError(t, store.Save(context.Background(), "abc", conv))

	assert.True(t, mr.Exists("custom:abc"))
}

func TestStore_CorruptPayload(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("textmesh:session:bad", `{"turns": "oops"}`))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)

	var decodeErr *core.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
