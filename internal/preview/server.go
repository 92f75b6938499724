package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/reactive"
	"github.com/vango-dev/livetree/pkg/style"
)

const (
	writeWait  = 10 * time.Second
	clientSend = 16
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// Scenario is the name of the scenario to play. Default: "list".
	Scenario string

	// Logger receives server and host logs. Default: slog.Default().
	Logger *slog.Logger

	// Registry collects host metrics and is served at /metrics.
	// Default: a fresh registry.
	Registry *prometheus.Registry

	// Tracer overrides the tracer named in the config.
	Tracer trace.Tracer
}

// Server plays a scenario in a loop and pushes snapshots to websocket
// clients.
type Server struct {
	cfg      *config.Config
	scenario Scenario
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *host.Metrics
	tracer   trace.Tracer
	styles   *style.Manager
	upgrader websocket.Upgrader

	mu      sync.Mutex
	latest  *Snapshot
	clients map[*client]struct{}

	advance chan struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Snapshot
}

// NewServer creates a server for cfg.
func NewServer(cfg *config.Config, opts ServerOptions) (*Server, error) {
	name := opts.Scenario
	if name == "" {
		name = "list"
	}
	scenario, ok := Lookup(name)
	if !ok {
		return nil, errors.Newf(errors.CategoryConfig, "unknown scenario %q", name).
			WithSuggestion(fmt.Sprintf("Use one of %v", Names()))
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(cfg.Tracing.TracerName)
	}

	return &Server{
		cfg:      cfg,
		scenario: scenario,
		logger:   logger.With("component", "preview"),
		registry: registry,
		metrics:  host.NewMetrics(host.WithRegistry(registry), host.WithNamespace(cfg.Metrics.Namespace)),
		tracer:   tracer,
		styles:   style.NewManager(cfg.Style.Prefix, style.NewSheet()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
		advance: make(chan struct{}),
	}, nil
}

// Handler returns the HTTP routes of the preview.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/styles.css", s.handleStyles)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Advance asks the loop to run the next step now. It blocks until the
// loop picks the request up or ctx is done.
func (s *Server) Advance(ctx context.Context) error {
	select {
	case s.advance <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run plays the scenario until ctx is done, restarting it after its last
// step. Every host operation happens on the calling goroutine.
func (s *Server) Run(ctx context.Context) error {
	defer reactive.ReleaseGoroutine()
	defer s.closeClients()

	var ticks <-chan time.Time
	if tick := s.cfg.Tick(); tick > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		ticks = ticker.C
	}

	session, err := s.start(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("preview started", "scenario", s.scenario.Name, "root", session.Root().ID())

	for {
		select {
		case <-ctx.Done():
			return session.Close(context.Background())
		case <-ticks:
		case <-s.advance:
		}

		if session.Done() {
			if err := session.Close(ctx); err != nil {
				return err
			}
			if session, err = s.start(ctx); err != nil {
				return err
			}
			continue
		}

		snap, err := session.Advance(ctx)
		if err != nil {
			s.logger.Error("step failed", "scenario", s.scenario.Name, "error", err)
			_ = session.Close(ctx)
			return err
		}
		s.publish(snap)
	}
}

func (s *Server) start(ctx context.Context) (*Session, error) {
	session, err := Start(ctx, s.scenario,
		host.WithLogger(s.logger),
		host.WithMetrics(s.metrics),
		host.WithTracer(s.tracer),
		host.WithStyles(s.styles),
	)
	if err != nil {
		return nil, err
	}
	s.publish(session.Snapshot())
	return session, nil
}

// publish records snap and queues it for every client. Slow clients miss
// snapshots rather than blocking the loop.
func (s *Server) publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &snap
	for c := range s.clients {
		select {
		case c.send <- snap:
		default:
			s.logger.Warn("client too slow, snapshot dropped", "remote", c.conn.RemoteAddr().String())
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan Snapshot, clientSend)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.latest != nil {
		c.send <- *s.latest
	}
	s.mu.Unlock()
	s.logger.Debug("client connected", "remote", conn.RemoteAddr().String())

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards client messages and unregisters the client when the
// connection closes.
func (s *Server) readLoop(c *client) {
	defer s.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for snap := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(snap); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()

	if latest == nil {
		http.Error(w, "not rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(latest)
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(s.styles.Sheet().CSS()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexHTML, s.scenario.Name, s.scenario.Name, s.scenario.Description)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>livetree: %s</title>
<link rel="stylesheet" href="/styles.css">
</head>
<body>
<h1>%s</h1>
<p>%s</p>
<pre id="step"></pre>
<div id="root"></div>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const snap = JSON.parse(ev.data);
  document.getElementById("step").textContent = snap.step + ": " + snap.name;
  document.getElementById("root").innerHTML = snap.html;
};
</script>
</body>
</html>
`
