package host

import (
	"log/slog"

	"github.com/vango-dev/livetree/pkg/style"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records host activity in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Root) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for render, destroy and flush spans.
// Default: the global provider's "livetree" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Root) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithStyles sets the style manager. Default: a manager with the default
// prefix writing to style.Global.
func WithStyles(m *style.Manager) Option {
	return func(r *Root) {
		if m != nil {
			r.styles = m
		}
	}
}
