package hooks

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is used when no tracer is configured. Without a global
// provider it resolves to a no-op tracer.
const defaultTracerName = "github.com/vango-dev/hooks"

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

func (s *Scheduler) startTaskSpan(ctx context.Context) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "hooks.task")
}

func (s *Scheduler) startBatchSpan(seq uint64, pass int) trace.Span {
	_, span := s.tracer.Start(s.taskContext(), "hooks.batch",
		trace.WithAttributes(
			attribute.Int64("hooks.batch.seq", int64(seq)),
			attribute.Int("hooks.batch.pass", pass),
		),
	)
	return span
}

func (s *Scheduler) startRenderSpan(in *Instance) trace.Span {
	_, span := s.tracer.Start(s.taskContext(), "hooks.render",
		trace.WithAttributes(
			attribute.Int64("hooks.instance.id", int64(in.id)),
			attribute.String("hooks.instance.name", in.name),
			attribute.Int("hooks.instance.renders", in.renderCount),
		),
	)
	return span
}

// endSpan records err, if any, and ends the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Scheduler) taskContext() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
