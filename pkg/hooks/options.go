package hooks

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultMaxPasses bounds the render/flush passes one task may run
	// before the scheduler reports ErrUpdateStorm.
	DefaultMaxPasses = 100

	// DefaultQueueSize is the capacity of the Dispatch queue.
	DefaultQueueSize = 256
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
// Default: slog.Default().With("component", "hooks").
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithTracer sets the OpenTelemetry tracer used for task, batch and render
// spans. Default: the global provider's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMaxPasses sets the pass budget per task. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxPasses = n
		}
	}
}

// WithQueueSize sets the Dispatch queue capacity. Values below 1 are
// ignored.
func WithQueueSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithErrorHandler receives the error of every task run by Run or
// RunQueued, and of writes that open an implicit task. Default: log at
// error level.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Scheduler) {
		s.onError = fn
	}
}
