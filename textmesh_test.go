package textmesh

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/textmesh/agents"
	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMesh() *TextMesh {
	return New(func(o *Options) {
		o.GraceDelay = 10 * time.Millisecond
	})
}

func TestRun_MultiTurn(t *testing.T) {
	mesh := newTestMesh()
	ctx := context.Background()

	res1, err := mesh.Run(ctx, agents.Recall(), "s1", "My name is Alice")
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, res1.Status)
	assert.Equal(t, "Nice to meet you, Alice!", res1.ResponseText)

	res2, err := mesh.Run(ctx, agents.Recall(), "s1", "What's my name?")
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, res2.Status)
	assert.Equal(t, "Your name is Alice.", res2.ResponseText)
}

func TestRun_SessionsAreIndependent(t *testing.T) {
	mesh := newTestMesh()
	ctx := context.Background()

	_, err := mesh.Run(ctx, agents.Recall(), "a", "My name is Alice")
	require.NoError(t, err)

	res, err := mesh.Run(ctx, agents.Recall(), "b", "What's my name?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know your name yet.", res.ResponseText)
}

func TestReset(t *testing.T) {
	mesh := newTestMesh()
	ctx := context.Background()

	_, err := mesh.Run(ctx, agents.Recall(), "s1", "My name is Alice")
	require.NoError(t, err)

	require.NoError(t, mesh.Reset(ctx, "s1"))

	res, err := mesh.Run(ctx, agents.Recall(), "s1", "What's my name?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know your name yet.", res.ResponseText)
}

func TestExecute_SeededState(t *testing.T) {
	mesh := newTestMesh()

	req := testutil.NewConversationBuilder().
		UserText("My name is Alice").
		AssistantText("Nice to meet you, Alice!").
		Request("j1", "What's my name?")

	res := mesh.Execute(context.Background(), agents.Recall(), req)
	require.Equal(t, core.StatusSuccess, res.Status)
	assert.Equal(t, "Your name is Alice.", res.ResponseText)
}

func TestExecute_BypassesStore(t *testing.T) {
	mesh := newTestMesh()

	res := mesh.Execute(context.Background(), agents.Echo(), core.Request{
		JobID:     "j1",
		UserInput: "hello",
	})
	require.Equal(t, core.StatusSuccess, res.Status)
	assert.Equal(t, "You said: hello", res.ResponseText)
}
