package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogging_CompletionRecord(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)), time.Second)

	in := &fakeInteraction{kind: KindChatInput, command: "task"}
	c := newTestContext(in, "u1", "g1")
	if err := m.Execute(context.Background(), c, func(context.Context, *InteractionContext) error { return nil }); err != nil {
		t.Fatal(err)
	}

	logged := buf.String()
	for _, want := range []string{"interaction completed", "command=task", "user_id=u1"} {
		if !strings.Contains(logged, want) {
			t.Errorf("log missing %q:\n%s", want, logged)
		}
	}
	if len(in.sent()) != 0 {
		t.Fatal("logging middleware touched the response")
	}
}

func TestLogging_SlowInteractionWarns(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)), time.Second)

	c := newTestContext(&fakeInteraction{kind: KindChatInput, command: "budget"}, "u1", "g1")
	c.StartTime = time.Now().Add(-5 * time.Second)
	if err := m.Execute(context.Background(), c, func(context.Context, *InteractionContext) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "slow interaction") {
		t.Errorf("no slow-interaction warning:\n%s", buf.String())
	}
}

func TestLogging_RethrowsUnchanged(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)), time.Second)

	want := errors.New("downstream exploded")
	c := newTestContext(&fakeInteraction{kind: KindChatInput, command: "task"}, "u1", "g1")
	err := m.Execute(context.Background(), c, func(context.Context, *InteractionContext) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want the original error", err)
	}
	if !strings.Contains(buf.String(), "interaction errored") {
		t.Error("failure not logged")
	}
}
