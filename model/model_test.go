package model

import (
	"context"
	"testing"

	"github.com/hupe1980/textmesh/core"
)

var _ Model = (*MockModel)(nil)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.AddResponse("ping", "pong")

	reply, err := m.Complete(context.Background(), Request{
		Turns: []core.Turn{core.NewTurn(core.RoleUser, "ping")},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply.Text != "pong" {
		t.Fatalf("expected pong, got %q", reply.Text)
	}
	if reply.FinishReason != "stop" {
		t.Fatalf("expected stop, got %q", reply.FinishReason)
	}
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel("test", "mock")

	reply, err := m.Complete(context.Background(), Request{
		Turns: []core.Turn{core.NewTurn(core.RoleUser, "hello")},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply.Text != "Mock response to: hello" {
		t.Fatalf("unexpected reply %q", reply.Text)
	}
}

func TestMockModel_UsesLatestUserTurn(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.AddResponse("second", "right")
	m.AddResponse("first", "wrong")

	reply, err := m.Complete(context.Background(), Request{
		Turns: []core.Turn{
			core.NewTurn(core.RoleUser, "first"),
			core.NewTurn(core.RoleAssistant, "wrong"),
			core.NewTurn(core.RoleUser, "second"),
		},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply.Text != "right" {
		t.Fatalf("expected reply to latest user turn, got %q", reply.Text)
	}
}

func TestMockModel_NoTurns(t *testing.T) {
	m := NewMockModel("test", "mock")

	if _, err := m.Complete(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty request")
	}
}
