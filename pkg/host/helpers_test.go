package host

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestRoot(t *testing.T, opts ...Option) (*Root, *dom.Node) {
	t.Helper()
	container := dom.NewElement("div")
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return CreateRoot(container, opts...), container
}

// attachedPlaceholder returns a comment placed in a fresh parent.
func attachedPlaceholder() (*dom.Node, *dom.Node) {
	parent := dom.NewElement("div")
	ph := dom.NewComment("test")
	parent.AppendChild(ph)
	return parent, ph
}

// texts returns the text of each non-comment child.
func texts(n *dom.Node) []string {
	var out []string
	for _, c := range n.ElementChildren() {
		out = append(out, c.TextContent())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func expectCode(t *testing.T, code string, fn func()) {
	t.Helper()
	err := capture(fn)
	if !errors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, label string) float64 {
	t.Helper()
	var m dto.Metric
	if err := vec.WithLabelValues(label).Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, label string) float64 {
	t.Helper()
	var m dto.Metric
	if err := vec.WithLabelValues(label).Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func plainCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}
