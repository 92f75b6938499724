package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1},
		{0.5, 5},
		{0.95, 10},
		{1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("empty input should give 0")
	}
}

func TestLoadAppUpdate(t *testing.T) {
	app := newLoadApp(4)
	app.update("x")
	if app.echo.Peek() != "x" {
		t.Errorf("echo = %q", app.echo.Peek())
	}
	replaced := 0
	for _, item := range app.items.Peek() {
		if len(item.Children) == 1 && item.Children[0] == "x" {
			replaced++
		}
	}
	if replaced != 1 {
		t.Errorf("replaced %d items, want 1", replaced)
	}
}

func TestRunBench(t *testing.T) {
	p := profile{Name: "test", Roots: 3, Duration: 100 * time.Millisecond, RPS: 200, ListSize: 5}
	report, err := runBench(context.Background(), p, "benchtest")
	if err != nil {
		t.Fatalf("runBench error: %v", err)
	}
	if report.Throughput.UpdatesTotal == 0 {
		t.Fatal("no updates recorded")
	}
	if report.PatchOps["set"] != report.Throughput.UpdatesTotal {
		t.Errorf("set patches = %d, updates = %d", report.PatchOps["set"], report.Throughput.UpdatesTotal)
	}
	if report.LatencyMS.Min > report.LatencyMS.Max {
		t.Errorf("latency = %+v", report.LatencyMS)
	}

	var out bytes.Buffer
	writeSummary(&out, report)
	if !strings.Contains(out.String(), "Roots: 3") || !strings.Contains(out.String(), "set:") {
		t.Errorf("summary:\n%s", out.String())
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := writeJSON(path, report); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded benchReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Workload.Roots != 3 {
		t.Errorf("decoded roots = %d", decoded.Workload.Roots)
	}
}

func TestRunBenchRejectsEmptyProfile(t *testing.T) {
	if _, err := runBench(context.Background(), profile{}, "x"); err == nil {
		t.Error("expected an error")
	}
}
