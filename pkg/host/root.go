package host

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
	"github.com/vango-dev/livetree/pkg/style"
)

// Lifecycle events dispatched by a Root.
const (
	EventAttach = "attach"
	EventDetach = "detach"
)

const tracerName = "livetree"

// defaultStyles is used by hosts created without a root.
var defaultStyles = style.NewManager(style.DefaultPrefix, style.Global)

// Root binds one host tree to a container node.
type Root struct {
	id          string
	container   *dom.Node
	placeholder *dom.Node
	host        Host

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	styles  *style.Manager

	// flushCtx parents spans opened while a flush is running.
	flushCtx context.Context

	listeners map[string][]*rootListener
	attached  bool
	destroyed bool
}

type rootListener struct {
	fn func(arg any)
}

// CreateRoot appends the root placeholder to container.
func CreateRoot(container *dom.Node, opts ...Option) *Root {
	r := &Root{
		id:        uuid.NewString(),
		container: container,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		styles:    defaultStyles,
		listeners: make(map[string][]*rootListener),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.placeholder = dom.NewComment("root")
	container.AppendChild(r.placeholder)
	return r
}

// ID returns the root's unique id.
func (r *Root) ID() string { return r.id }

// Container returns the container node.
func (r *Root) Container() *dom.Node { return r.container }

// Host returns the top-level host, or nil before Render.
func (r *Root) Host() Host { return r.host }

// Attached reports whether the attach event has been dispatched.
func (r *Root) Attached() bool { return r.attached }

// Logger returns the root's logger.
func (r *Root) Logger() *slog.Logger { return r.logger }

// Styles returns the root's style manager.
func (r *Root) Styles() *style.Manager { return r.styles }

// Render mounts value. A root renders once.
func (r *Root) Render(value any) (Host, error) {
	return r.RenderContext(context.Background(), value)
}

// RenderContext is Render with a parent context for tracing.
func (r *Root) RenderContext(ctx context.Context, value any) (h Host, err error) {
	_, span := r.tracer.Start(ctx, "livetree.render", trace.WithAttributes(
		attribute.String("livetree.root", r.id),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if r.destroyed {
		return nil, errors.New("H009").WithDetail("Render called on a destroyed root.")
	}
	if r.host != nil {
		return nil, errors.New("H008")
	}

	start := time.Now()
	err = capture(func() {
		h = CreateHost(value, r.placeholder, PathContext{Root: r})
		r.host = h
		h.Render()
	})
	r.metrics.observeRender(time.Since(start).Seconds())
	if err != nil {
		r.logger.Error("render failed", "root", r.id, "error", err)
		return h, err
	}

	span.SetAttributes(attribute.String("livetree.host.kind", h.Kind().String()))
	r.logger.Debug("root rendered", "root", r.id, "kind", h.Kind().String())

	if !r.attached && r.container.IsConnected() {
		r.Attach()
	}
	return h, nil
}

// Destroy unmounts everything. Destroying twice is a no-op.
func (r *Root) Destroy() error {
	return r.DestroyContext(context.Background())
}

// DestroyContext is Destroy with a parent context for tracing.
func (r *Root) DestroyContext(ctx context.Context) (err error) {
	if r.destroyed {
		return nil
	}
	_, span := r.tracer.Start(ctx, "livetree.destroy", trace.WithAttributes(
		attribute.String("livetree.root", r.id),
	))
	defer span.End()

	r.destroyed = true
	err = capture(func() {
		r.Detach()
		if r.host != nil {
			r.host.Destroy(false)
		} else {
			r.placeholder.Remove()
		}
	})
	r.listeners = make(map[string][]*rootListener)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("destroy failed", "root", r.id, "error", err)
		return err
	}
	r.logger.Debug("root destroyed", "root", r.id)
	return nil
}

// Flush runs queued function host re-runs and other microtasks.
func (r *Root) Flush() error {
	return r.FlushContext(context.Background())
}

// FlushContext is Flush with a parent context for tracing.
func (r *Root) FlushContext(ctx context.Context) error {
	spanCtx, span := r.tracer.Start(ctx, "livetree.flush")
	defer span.End()
	r.flushCtx = spanCtx
	defer func() { r.flushCtx = nil }()

	var n int
	err := capture(func() {
		n = reactive.Flush()
	})
	span.SetAttributes(attribute.Int("livetree.tasks", n))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// On registers cb for event and returns a function that removes it.
func (r *Root) On(event string, cb func(arg any)) (off func()) {
	l := &rootListener{fn: cb}
	r.listeners[event] = append(r.listeners[event], l)
	return func() {
		ls := r.listeners[event]
		for i, existing := range ls {
			if existing == l {
				r.listeners[event] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Dispatch calls every callback registered for event, in registration order.
func (r *Root) Dispatch(event string, arg any) {
	ls := make([]*rootListener, len(r.listeners[event]))
	copy(ls, r.listeners[event])
	for _, l := range ls {
		l.fn(arg)
	}
}

// Attach marks the root as attached to a document and dispatches attach.
func (r *Root) Attach() {
	if r.attached {
		return
	}
	r.attached = true
	r.Dispatch(EventAttach, r)
}

// Detach dispatches detach if the root is attached.
func (r *Root) Detach() {
	if !r.attached {
		return
	}
	r.attached = false
	r.Dispatch(EventDetach, r)
}

// capture runs fn and returns a host error it panics with. Other panics
// propagate.
func capture(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e, ok := rec.(*errors.Error)
			if !ok {
				panic(rec)
			}
			err = e
		}
	}()
	fn()
	return nil
}

func (c PathContext) logger() *slog.Logger {
	if c.Root == nil {
		return slog.Default()
	}
	return c.Root.logger
}

func (c PathContext) metrics() *Metrics {
	if c.Root == nil {
		return nil
	}
	return c.Root.metrics
}

// startSpan opens a span for work done by a host of kind, under the flush
// in progress if there is one.
func (c PathContext) startSpan(name string, kind Kind) trace.Span {
	if c.Root == nil {
		return trace.SpanFromContext(context.Background())
	}
	parent := c.Root.flushCtx
	if parent == nil {
		parent = context.Background()
	}
	_, span := c.Root.tracer.Start(parent, name, trace.WithAttributes(
		attribute.String("livetree.root", c.Root.id),
		attribute.String("livetree.kind", kind.String()),
	))
	return span
}

func (c PathContext) styles() *style.Manager {
	if c.Root == nil {
		return defaultStyles
	}
	return c.Root.styles
}

// attached reports whether layout effects may run now. Hosts without a
// root are treated as attached.
func (c PathContext) attached() bool {
	return c.Root == nil || c.Root.attached
}
