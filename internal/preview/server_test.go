package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/livetree/internal/config"
)

func newTestServer(t *testing.T, scenario string) (*Server, *httptest.Server, context.CancelFunc) {
	t.Helper()
	cfg := config.Default()
	cfg.Serve.TickMillis = 0

	srv, err := NewServer(cfg, ServerOptions{
		Scenario: scenario,
		Logger:   quietLogger(),
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run error: %v", err)
		}
		ts.Close()
	})
	return srv, ts, cancel
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	return snap
}

func TestServerPushesSnapshots(t *testing.T) {
	srv, ts, _ := newTestServer(t, "list")
	conn := dial(t, ts)

	first := readSnapshot(t, conn)
	if first.Step != 0 || first.HTML != "<div>1</div><div>2</div><div>3</div>" {
		t.Fatalf("first snapshot = %+v", first)
	}

	if err := srv.Advance(context.Background()); err != nil {
		t.Fatal(err)
	}
	next := readSnapshot(t, conn)
	if next.Step != 1 || next.Name != "push(4, 5)" {
		t.Errorf("next snapshot = %+v", next)
	}
	if !strings.HasSuffix(next.HTML, "<div>4</div><div>5</div>") {
		t.Errorf("html = %s", next.HTML)
	}
}

func TestServerRestartsScenario(t *testing.T) {
	srv, ts, _ := newTestServer(t, "atom")
	conn := dial(t, ts)
	readSnapshot(t, conn)

	for i := 0; i < 3; i++ {
		if err := srv.Advance(context.Background()); err != nil {
			t.Fatal(err)
		}
		readSnapshot(t, conn)
	}

	// The next tick finds the scenario done and mounts a fresh instance.
	if err := srv.Advance(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := readSnapshot(t, conn)
	if snap.Step != 0 || snap.HTML != "<p>hello</p>" {
		t.Errorf("restart snapshot = %+v", snap)
	}
}

func TestServerHTTPRoutes(t *testing.T) {
	_, ts, _ := newTestServer(t, "component")
	conn := dial(t, ts)
	readSnapshot(t, conn)

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if code, body := get("/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("/healthz = %d %q", code, body)
	}

	code, body := get("/snapshot")
	if code != http.StatusOK {
		t.Fatalf("/snapshot = %d", code)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Scenario != "component" || !strings.Contains(snap.HTML, "clicks") {
		t.Errorf("snapshot = %+v", snap)
	}

	code, body = get("/metrics")
	if code != http.StatusOK || !strings.Contains(body, "livetree_host_created_total") {
		t.Errorf("/metrics = %d, missing host metrics", code)
	}

	if code, body := get("/"); code != http.StatusOK || !strings.Contains(body, "<title>livetree: component</title>") {
		t.Errorf("/ = %d", code)
	}
	if code, _ := get("/styles.css"); code != http.StatusOK {
		t.Errorf("/styles.css = %d", code)
	}
}

func TestNewServerUnknownScenario(t *testing.T) {
	_, err := NewServer(config.Default(), ServerOptions{Scenario: "nope"})
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("err = %v", err)
	}
}
