package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/model"
	"github.com/hupe1980/textmesh/room"
)

// Echo returns an entry function that repeats the inbound message back.
func Echo() room.EntryFunc {
	return func(jc *room.JobContext) error {
		jc.Room.On(room.EventDataReceived, func(ctx context.Context, ev room.Event) error {
			reply := "You said: " + string(ev.Data)
			return jc.Room.LocalParticipant().PublishData([]byte(reply))
		})
		return jc.Connect()
	}
}

// Recall returns an entry function that remembers facts stated as
// "My name is X" across turns and answers "What's my name?" from history.
// It exists to demonstrate that conversation state survives between calls.
func Recall() room.EntryFunc {
	return func(jc *room.JobContext) error {
		jc.Room.On(room.EventDataReceived, func(ctx context.Context, ev room.Event) error {
			input := strings.TrimSpace(string(ev.Data))

			var reply string
			switch {
			case strings.HasPrefix(input, "My name is "):
				reply = "Nice to meet you, " + strings.TrimPrefix(input, "My name is ") + "!"
			case strings.Contains(strings.ToLower(input), "what's my name"):
				reply = "I don't know your name yet."
				for _, turn := range jc.Room.History().Turns() {
					if turn.Role == core.RoleUser && strings.HasPrefix(turn.Text, "My name is ") {
						reply = "Your name is " + strings.TrimPrefix(turn.Text, "My name is ") + "."
					}
				}
			default:
				reply = fmt.Sprintf("I heard: %s", input)
			}

			return jc.Room.LocalParticipant().PublishData([]byte(reply))
		})
		return jc.Connect()
	}
}

// AssistantOptions configure the model backed assistant entry function.
type AssistantOptions struct {
	// Instructions is the system prompt passed with every completion.
	Instructions string
}

// Assistant returns an entry function that delegates replies to a language
// model, feeding it the full conversation history including the inbound turn.
func Assistant(m model.Model, optFns ...func(o *AssistantOptions)) room.EntryFunc {
	opts := AssistantOptions{
		Instructions: "You are a helpful assistant replying over a text channel. Keep replies concise.",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return func(jc *room.JobContext) error {
		jc.Room.On(room.EventDataReceived, func(ctx context.Context, ev room.Event) error {
			reply, err := m.Complete(ctx, model.Request{
				Instructions: opts.Instructions,
				Turns:        jc.Room.History().Turns(),
			})
			if err != nil {
				return fmt.Errorf("model completion: %w", err)
			}
			return jc.Room.LocalParticipant().PublishData([]byte(reply.Text))
		})
		return jc.Connect()
	}
}
