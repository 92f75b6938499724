package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/reactive"
)

type profile struct {
	Name     string
	Roots    int
	Duration time.Duration
	RPS      float64
	ListSize int
}

var profiles = map[string]profile{
	"fast": {
		Name:     "fast",
		Roots:    50,
		Duration: 10 * time.Second,
		RPS:      20,
		ListSize: 20,
	},
	"standard": {
		Name:     "standard",
		Roots:    200,
		Duration: 30 * time.Second,
		RPS:      50,
		ListSize: 50,
	},
	"stress": {
		Name:     "stress",
		Roots:    500,
		Duration: 60 * time.Second,
		RPS:      100,
		ListSize: 100,
	},
}

func benchCmd(configDir *string) *cobra.Command {
	var (
		name       string
		override   profile
		jsonOutput string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure update latency across many roots",
		Long: `Mount many roots, each on its own goroutine, and drive a steady rate
of updates into each. Every update sets a text atom and replaces one list
item, then flushes. Reports latency percentiles, throughput, the patches
applied per op and GC activity.

Profiles: fast, standard, stress

Examples:
  livetree bench
  livetree bench --profile stress --json report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := profiles[name]
			if !ok {
				return errors.Newf(errors.CategoryConfig, "unknown profile %q", name)
			}
			if override.Roots > 0 {
				p.Roots = override.Roots
			}
			if override.Duration > 0 {
				p.Duration = override.Duration
			}
			if override.RPS > 0 {
				p.RPS = override.RPS
			}
			if override.ListSize > 0 {
				p.ListSize = override.ListSize
			}

			cfg, _, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			report, err := runBench(cmd.Context(), p, cfg.Metrics.Namespace)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), report)
			if jsonOutput != "" {
				return writeJSON(jsonOutput, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "profile", "fast", "Benchmark profile")
	cmd.Flags().IntVar(&override.Roots, "roots", 0, "Override the number of roots")
	cmd.Flags().DurationVar(&override.Duration, "duration", 0, "Override the run duration")
	cmd.Flags().Float64Var(&override.RPS, "rps", 0, "Override updates per second per root")
	cmd.Flags().IntVar(&override.ListSize, "list-size", 0, "Override the list size")
	cmd.Flags().StringVar(&jsonOutput, "json", "", "Write a JSON report to this path (- for stdout)")

	return cmd
}

// loadApp is a text atom echoed above a list of items.
type loadApp struct {
	echo  *reactive.Atom[string]
	items *reactive.List[*el.Node]
}

func newLoadApp(listSize int) *loadApp {
	items := make([]*el.Node, listSize)
	for i := range items {
		items[i] = el.Li(fmt.Sprintf("Item %d", i))
	}
	return &loadApp{
		echo:  reactive.NewAtom(""),
		items: reactive.NewList(items...),
	}
}

func (a *loadApp) view() any {
	return el.Div(
		el.Div(el.ID("echo"), a.echo),
		el.Ul(a.items),
	)
}

func (a *loadApp) update(value string) {
	a.echo.Set(value)
	if n := a.items.Len(); n > 0 {
		a.items.Set(int(xxhash.Sum64String(value)%uint64(n)), el.Li(value))
	}
}

// runBench drives p.Roots roots for p.Duration and collects latencies.
func runBench(ctx context.Context, p profile, namespace string) (benchReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.Roots <= 0 || p.RPS <= 0 || p.Duration <= 0 {
		return benchReport{}, errors.Newf(errors.CategoryConfig, "roots, rps and duration must be positive")
	}

	registry := prometheus.NewRegistry()
	metrics := host.NewMetrics(host.WithRegistry(registry), host.WithNamespace(namespace))
	interval := time.Duration(float64(time.Second) / p.RPS)

	ctx, cancel := context.WithTimeout(ctx, p.Duration)
	defer cancel()

	var (
		mu        sync.Mutex
		latencies []time.Duration
		failures  []error
		wg        sync.WaitGroup
	)

	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	for i := 0; i < p.Roots; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer reactive.ReleaseGoroutine()

			samples, err := driveRoot(ctx, id, p.ListSize, interval, metrics)
			mu.Lock()
			defer mu.Unlock()
			latencies = append(latencies, samples...)
			if err != nil {
				failures = append(failures, err)
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(start)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	if len(failures) > 0 {
		return benchReport{}, failures[0]
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	ops, err := patchOps(registry)
	if err != nil {
		return benchReport{}, err
	}
	return buildReport(p, elapsed, latencies, ops, before, after), nil
}

func driveRoot(ctx context.Context, id, listSize int, interval time.Duration, metrics *host.Metrics) ([]time.Duration, error) {
	app := newLoadApp(listSize)
	root := host.CreateRoot(dom.NewElement("div"),
		host.WithMetrics(metrics),
		host.WithLogger(quietLogger()),
	)
	if _, err := root.Render(app.view()); err != nil {
		return nil, err
	}
	defer root.Destroy()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var samples []time.Duration
	for seq := 0; ; seq++ {
		select {
		case <-ctx.Done():
			return samples, nil
		case <-ticker.C:
		}
		began := time.Now()
		app.update(fmt.Sprintf("root %d event %d", id, seq))
		if err := root.Flush(); err != nil {
			return samples, err
		}
		samples = append(samples, time.Since(began))
	}
}

// patchOps reads the patches counter back out of registry.
func patchOps(registry *prometheus.Registry) (map[string]uint64, error) {
	families, err := registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint64)
	for _, f := range families {
		if !strings.HasSuffix(f.GetName(), "host_patches_total") {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "op" {
					out[label.GetValue()] += uint64(m.GetCounter().GetValue())
				}
			}
		}
	}
	return out, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func avgPause(after, before runtime.MemStats) time.Duration {
	gcCount := after.NumGC - before.NumGC
	if gcCount == 0 {
		return 0
	}
	return time.Duration((after.PauseTotalNs - before.PauseTotalNs) / uint64(gcCount))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type benchReport struct {
	Version    string            `json:"version"`
	Run        runInfo           `json:"run"`
	Workload   workloadInfo      `json:"workload"`
	LatencyMS  latencyInfo       `json:"latency_ms"`
	Throughput throughputInfo    `json:"throughput"`
	GC         gcInfo            `json:"gc"`
	PatchOps   map[string]uint64 `json:"patch_ops"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	GitCommit string `json:"git_commit,omitempty"`
}

type workloadInfo struct {
	Profile    string  `json:"profile"`
	Roots      int     `json:"roots"`
	DurationMS int64   `json:"duration_ms"`
	RPSPerRoot float64 `json:"rps_per_root"`
	ListSize   int     `json:"list_size"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	UpdatesTotal      uint64  `json:"updates_total"`
	UpdatesPerSec     float64 `json:"updates_per_sec"`
	UpdatesPerSecRoot float64 `json:"updates_per_sec_per_root"`
}

type gcInfo struct {
	AllocMB      float64 `json:"alloc_mb"`
	HeapLiveMB   float64 `json:"heap_live_mb"`
	NumGC        uint32  `json:"num_gc"`
	PauseTotalMS float64 `json:"pause_total_ms"`
	PauseAvgMS   float64 `json:"pause_avg_ms"`
}

func buildReport(p profile, elapsed time.Duration, latencies []time.Duration, ops map[string]uint64, before, after runtime.MemStats) benchReport {
	total := uint64(len(latencies))
	perSec := float64(total) / math.Max(0.001, elapsed.Seconds())

	latency := latencyInfo{}
	if len(latencies) > 0 {
		latency = latencyInfo{
			Min: ms(latencies[0]),
			P50: ms(percentile(latencies, 0.50)),
			P95: ms(percentile(latencies, 0.95)),
			P99: ms(percentile(latencies, 0.99)),
			Max: ms(latencies[len(latencies)-1]),
		}
	}

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
			GitCommit: strings.TrimSpace(os.Getenv("LIVETREE_GIT_COMMIT")),
		},
		Workload: workloadInfo{
			Profile:    p.Name,
			Roots:      p.Roots,
			DurationMS: p.Duration.Milliseconds(),
			RPSPerRoot: p.RPS,
			ListSize:   p.ListSize,
		},
		LatencyMS: latency,
		Throughput: throughputInfo{
			UpdatesTotal:      total,
			UpdatesPerSec:     perSec,
			UpdatesPerSecRoot: perSec / float64(p.Roots),
		},
		GC: gcInfo{
			AllocMB:      float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:   float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:        after.NumGC - before.NumGC,
			PauseTotalMS: ms(time.Duration(after.PauseTotalNs - before.PauseTotalNs)),
			PauseAvgMS:   ms(avgPause(after, before)),
		},
		PatchOps: ops,
	}
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== livetree benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Roots: %d\n", report.Workload.Roots)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(report.Workload.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "Target per-root rate: %.2f updates/s\n", report.Workload.RPSPerRoot)
	fmt.Fprintf(w, "List size: %d\n", report.Workload.ListSize)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total updates: %d\n", report.Throughput.UpdatesTotal)
	fmt.Fprintf(w, "Throughput: %.1f updates/s (%.2f per root)\n", report.Throughput.UpdatesPerSec, report.Throughput.UpdatesPerSecRoot)
	fmt.Fprintln(w)

	if report.LatencyMS.Max == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintln(w, "Update latency (set + flush):")
		fmt.Fprintf(w, "  min: %.3f ms\n", report.LatencyMS.Min)
		fmt.Fprintf(w, "  p50: %.3f ms\n", report.LatencyMS.P50)
		fmt.Fprintf(w, "  p95: %.3f ms\n", report.LatencyMS.P95)
		fmt.Fprintf(w, "  p99: %.3f ms\n", report.LatencyMS.P99)
		fmt.Fprintf(w, "  max: %.3f ms\n", report.LatencyMS.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Patches applied:")
	ops := make([]string, 0, len(report.PatchOps))
	for op := range report.PatchOps {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(w, "  %-8s %d\n", op+":", report.PatchOps[op])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (avg)\n", report.GC.PauseAvgMS)
}

func writeJSON(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
