// Package middleware implements the interaction processing pipeline for
// the bot: validation, rate limiting, logging, tracing and error recovery
// composed around the command handler. Middleware wrap the continuation
// right-to-left, so the first registered middleware is the outermost
// wrapper and sees failures from everything registered after it.
package middleware

import (
	"context"
	"fmt"
)

// Handler is a continuation in the chain. The innermost handler is the
// command's own business logic, supplied by the caller of Dispatch.
type Handler func(ctx context.Context, c *InteractionContext) error

// Middleware is a named processing step. Execute may inspect or mutate
// the interaction context, call next zero or one times, and may itself
// produce the terminal response (short-circuiting the chain).
type Middleware interface {
	Name() string
	Execute(ctx context.Context, c *InteractionContext, next Handler) error
}

// DuplicateMiddlewareError reports a Register call whose name collides
// with an already registered middleware.
type DuplicateMiddlewareError struct {
	Name string
}

func (e *DuplicateMiddlewareError) Error() string {
	return fmt.Sprintf("middleware %q already registered", e.Name)
}

// Pipeline owns the ordered middleware list. It holds no per-request
// state: Dispatch may be called concurrently for different contexts.
type Pipeline struct {
	chain []Middleware
	names map[string]struct{}
}

func NewPipeline() *Pipeline {
	return &Pipeline{names: map[string]struct{}{}}
}

// Register appends m to the chain. Registration order is execution order
// on the way in; failures propagate in reverse.
func (p *Pipeline) Register(m Middleware) error {
	name := m.Name()
	if _, dup := p.names[name]; dup {
		return &DuplicateMiddlewareError{Name: name}
	}
	p.names[name] = struct{}{}
	p.chain = append(p.chain, m)
	return nil
}

// Dispatch runs c through the chain with terminal as the innermost
// continuation. The chain is built from the end backwards so the first
// registered middleware wraps everything else.
func (p *Pipeline) Dispatch(ctx context.Context, c *InteractionContext, terminal Handler) error {
	h := terminal
	for i := len(p.chain) - 1; i >= 0; i-- {
		mw := p.chain[i]
		next := h
		h = func(ctx context.Context, c *InteractionContext) error {
			return mw.Execute(ctx, c, next)
		}
	}
	return h(ctx, c)
}
