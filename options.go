package rota

import (
	"time"

	"github.com/ansonyc/rota/types"
)

type engineOptions struct {
	logger   types.Logger
	hooks    types.Hooks
	metrics  types.MetricsCollector
	strategy types.RankStrategy
	sink     types.ProjectionSink
	now      func() time.Time
}

// Option is a functional option for configuring the Engine.
type Option func(*engineOptions)

// WithLogger sets the logger used by the engine and its projector.
//
// Default: an slog-backed logger writing to stderr at info level.
func WithLogger(logger types.Logger) Option {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHooks sets lifecycle callbacks. Unset callbacks are simply skipped.
func WithHooks(h *types.Hooks) Option {
	return func(o *engineOptions) {
		if h != nil {
			o.hooks = *h
		}
	}
}

// WithMetrics sets the metrics collector.
//
// Default: a no-op collector. Use metrics.NewPrometheus for a
// Prometheus-backed one.
func WithMetrics(collector types.MetricsCollector) Option {
	return func(o *engineOptions) {
		if collector != nil {
			o.metrics = collector
		}
	}
}

// WithStrategy sets the rank strategy used to order candidates.
//
// Default: strategy.NewFairRotation().
func WithStrategy(s types.RankStrategy) Option {
	return func(o *engineOptions) {
		o.strategy = s
	}
}

// WithSink sets the projection sink, notified after every recomputation that
// changed a task's projection. Publishing is best-effort: sink errors are
// logged and reported through the OnError hook, never returned to callers.
func WithSink(sink types.ProjectionSink) Option {
	return func(o *engineOptions) {
		o.sink = sink
	}
}

// WithClock overrides the engine's time source, which classifies occurrences
// as historical. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}
