package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/lukadfagundes/bwaincell"

// TracingMiddleware wraps each interaction in an OpenTelemetry span. With
// no global TracerProvider configured this is a noop pass-through.
type TracingMiddleware struct {
	tracer trace.Tracer
}

func NewTracingMiddleware() *TracingMiddleware {
	return &TracingMiddleware{tracer: otel.Tracer(tracerName)}
}

func NewTracingMiddlewareWithTracer(tracer trace.Tracer) *TracingMiddleware {
	return &TracingMiddleware{tracer: tracer}
}

func (m *TracingMiddleware) Name() string { return "tracing" }

func (m *TracingMiddleware) Execute(ctx context.Context, c *InteractionContext, next Handler) error {
	ctx, span := m.tracer.Start(ctx, "bot.interaction",
		trace.WithAttributes(
			attribute.String("bot.request_id", c.RequestID),
			attribute.String("bot.command", c.Interaction.CommandName()),
			attribute.String("bot.interaction_kind", c.Interaction.Kind().String()),
			attribute.String("bot.user_id", c.UserID),
			attribute.String("bot.guild_id", c.GuildID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	err := next(ctx, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}
