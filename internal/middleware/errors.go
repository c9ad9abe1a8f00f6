package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

const genericErrorMessage = "An error occurred while processing your request. Please try again."

// ValidationError is raised when input fails a safety or format check.
// UserMessage is safe to surface; Field and Pattern are log-only so the
// triggering payload is never reflected back to the user.
type ValidationError struct {
	Field       string
	Pattern     string
	UserMessage string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s (%s)", e.Field, e.Pattern)
}

// RateLimitError is raised when a window quota is exhausted.
type RateLimitError struct {
	Key        string
	Category   string
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s (%d per window)", e.Key, e.Limit)
}

// userMessage formats the ephemeral rejection including time-to-reset.
func (e *RateLimitError) userMessage() string {
	wait := e.RetryAfter.Round(time.Second)
	if wait < time.Second {
		wait = time.Second
	}
	return fmt.Sprintf("You're doing that too fast. Limit is %d requests per window; try again in %s.", e.Limit, wait)
}

// ErrorMiddleware is the outermost safety net: every interaction gets
// exactly one terminal outcome even when downstream code returns an error
// or panics. It never propagates errors past itself.
type ErrorMiddleware struct {
	log *slog.Logger
}

func NewErrorMiddleware(log *slog.Logger) *ErrorMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &ErrorMiddleware{log: log}
}

func (m *ErrorMiddleware) Name() string { return "error" }

func (m *ErrorMiddleware) Execute(ctx context.Context, c *InteractionContext, next Handler) error {
	err := m.safeNext(ctx, c, next)
	if err == nil {
		return nil
	}

	msg := genericErrorMessage
	switch e := classify(err).(type) {
	case *ValidationError:
		msg = e.UserMessage
	case *RateLimitError:
		msg = e.userMessage()
	}

	m.log.Error("interaction failed",
		slog.String("request_id", c.RequestID),
		slog.String("command", c.Interaction.CommandName()),
		slog.String("user_id", c.UserID),
		slog.String("guild_id", c.GuildID),
		slog.String("error", err.Error()),
	)

	if rerr := c.respond(Response{Content: msg, Ephemeral: true}); rerr != nil {
		// The interaction token has likely expired; Discord's response
		// window is hard, so retrying cannot help.
		m.log.Error("failed to deliver error response",
			slog.String("request_id", c.RequestID),
			slog.String("user_id", c.UserID),
			slog.String("error", rerr.Error()),
		)
	}
	return nil
}

// safeNext converts panics in the downstream chain into errors so they
// flow through the same classification path.
func (m *ErrorMiddleware) safeNext(ctx context.Context, c *InteractionContext, next Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic in interaction handler",
				slog.String("request_id", c.RequestID),
				slog.String("command", c.Interaction.CommandName()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return next(ctx, c)
}

// classify unwraps err to one of the pipeline's failure types, or returns
// err unchanged for unknown errors.
func classify(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle
	}
	return err
}
