package middleware

import (
	"context"
	"errors"
	"testing"
)

// testMiddleware adapts a func to the Middleware interface.
type testMiddleware struct {
	name string
	fn   func(ctx context.Context, c *InteractionContext, next Handler) error
}

func (m *testMiddleware) Name() string { return m.name }
func (m *testMiddleware) Execute(ctx context.Context, c *InteractionContext, next Handler) error {
	return m.fn(ctx, c, next)
}

func passthrough(name string, order *[]string) *testMiddleware {
	return &testMiddleware{name: name, fn: func(ctx context.Context, c *InteractionContext, next Handler) error {
		*order = append(*order, name+"-before")
		err := next(ctx, c)
		*order = append(*order, name+"-after")
		return err
	}}
}

func TestPipeline_ExecutionOrder(t *testing.T) {
	var order []string
	p := NewPipeline()
	for _, name := range []string{"outer", "inner"} {
		if err := p.Register(passthrough(name, &order)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	c := newTestContext(&fakeInteraction{kind: KindChatInput, command: "ping"}, "u1", "g1")
	err := p.Dispatch(context.Background(), c, func(context.Context, *InteractionContext) error {
		order = append(order, "terminal")
		return nil
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	want := []string{"outer-before", "inner-before", "terminal", "inner-after", "outer-after"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestPipeline_DuplicateName(t *testing.T) {
	p := NewPipeline()
	var order []string
	if err := p.Register(passthrough("validation", &order)); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := p.Register(passthrough("validation", &order))
	var dup *DuplicateMiddlewareError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateMiddlewareError, got %v", err)
	}
	if dup.Name != "validation" {
		t.Errorf("dup.Name = %q", dup.Name)
	}
}

func TestPipeline_EmptyChain(t *testing.T) {
	p := NewPipeline()
	called := false
	c := newTestContext(&fakeInteraction{kind: KindChatInput}, "u1", "g1")
	err := p.Dispatch(context.Background(), c, func(context.Context, *InteractionContext) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !called {
		t.Fatal("terminal not called with empty chain")
	}
}

func TestPipeline_ErrorPropagatesOutward(t *testing.T) {
	var seen []string
	p := NewPipeline()
	observer := &testMiddleware{name: "observer", fn: func(ctx context.Context, c *InteractionContext, next Handler) error {
		err := next(ctx, c)
		if err != nil {
			seen = append(seen, "observer")
		}
		return err
	}}
	if err := p.Register(observer); err != nil {
		t.Fatal(err)
	}

	want := errors.New("terminal failed")
	c := newTestContext(&fakeInteraction{kind: KindChatInput}, "u1", "g1")
	err := p.Dispatch(context.Background(), c, func(context.Context, *InteractionContext) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("dispatch err = %v, want %v", err, want)
	}
	if len(seen) != 1 {
		t.Fatalf("outer middleware did not observe inner failure: %v", seen)
	}
}

func TestPipeline_ShortCircuit(t *testing.T) {
	p := NewPipeline()
	stop := &testMiddleware{name: "stop", fn: func(ctx context.Context, c *InteractionContext, next Handler) error {
		return c.Interaction.Reply(Response{Content: "halted", Ephemeral: true})
	}}
	if err := p.Register(stop); err != nil {
		t.Fatal(err)
	}

	in := &fakeInteraction{kind: KindChatInput}
	terminalCalled := false
	err := p.Dispatch(context.Background(), newTestContext(in, "u1", "g1"), func(context.Context, *InteractionContext) error {
		terminalCalled = true
		return nil
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if terminalCalled {
		t.Fatal("terminal ran past a short-circuiting middleware")
	}
	if len(in.replies) != 1 || in.replies[0].Content != "halted" {
		t.Fatalf("replies = %+v", in.replies)
	}
}

func TestPipeline_ConcurrentDispatch(t *testing.T) {
	p := NewPipeline()
	mw := &testMiddleware{name: "meta", fn: func(ctx context.Context, c *InteractionContext, next Handler) error {
		c.Metadata["meta.user"] = c.UserID
		return next(ctx, c)
	}}
	if err := p.Register(mw); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 2)
	for _, uid := range []string{"u1", "u2"} {
		uid := uid
		go func() {
			c := newTestContext(&fakeInteraction{kind: KindChatInput}, uid, "g1")
			done <- p.Dispatch(context.Background(), c, func(_ context.Context, c *InteractionContext) error {
				if c.Metadata["meta.user"] != uid {
					return errors.New("context crossed requests")
				}
				return nil
			})
		}()
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
