package middleware

import (
	"context"
	"log/slog"
	"time"
)

const defaultSlowThreshold = 2500 * time.Millisecond

// LoggingMiddleware records timing and outcome for every interaction. It
// is a pure observer around next: it never touches response state and
// rethrows failures unchanged so the outer error middleware can classify
// them.
type LoggingMiddleware struct {
	log  *slog.Logger
	slow time.Duration
}

func NewLoggingMiddleware(log *slog.Logger, slowThreshold time.Duration) *LoggingMiddleware {
	if log == nil {
		log = slog.Default()
	}
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}
	return &LoggingMiddleware{log: log, slow: slowThreshold}
}

func (m *LoggingMiddleware) Name() string { return "logging" }

func (m *LoggingMiddleware) Execute(ctx context.Context, c *InteractionContext, next Handler) error {
	err := next(ctx, c)
	elapsed := time.Since(c.StartTime)

	attrs := []any{
		slog.String("request_id", c.RequestID),
		slog.String("command", c.Interaction.CommandName()),
		slog.String("kind", c.Interaction.Kind().String()),
		slog.String("user_id", c.UserID),
		slog.String("guild_id", c.GuildID),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil:
		m.log.Error("interaction errored", append(attrs, slog.String("error", err.Error()))...)
	case elapsed > m.slow:
		m.log.Warn("slow interaction", append(attrs, slog.Duration("threshold", m.slow))...)
	default:
		m.log.Info("interaction completed", attrs...)
	}

	return err
}
