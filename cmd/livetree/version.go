package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/preview"
)

// buildInfo describes the binary and the renderer it embeds.
type buildInfo struct {
	Version   string            `json:"version"`
	Commit    string            `json:"commit"`
	Date      string            `json:"date"`
	Go        string            `json:"go"`
	Platform  string            `json:"platform"`
	Scenarios []string          `json:"scenarios"`
	Deps      map[string]string `json:"deps,omitempty"`
}

// trackedDeps are the modules reported by version. Their versions come from
// the build info when the binary was built with module support.
var trackedDeps = []string{
	"github.com/prometheus/client_golang",
	"go.opentelemetry.io/otel",
	"github.com/go-chi/chi/v5",
	"github.com/gorilla/websocket",
}

func currentBuild() buildInfo {
	b := buildInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Scenarios: preview.Names(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			for _, path := range trackedDeps {
				if dep.Path == path {
					if b.Deps == nil {
						b.Deps = make(map[string]string)
					}
					b.Deps[path] = dep.Version
				}
			}
		}
	}
	return b
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the livetree version, the platform it was built for, the
scenarios render and serve can play, and the versions of the metrics,
tracing and transport modules linked in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return nil
			}
			b := currentBuild()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			writeVersion(out, b)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func writeVersion(w io.Writer, b buildInfo) {
	fmt.Fprintf(w, "livetree %s (%s, built %s)\n", b.Version, b.Commit, b.Date)
	fmt.Fprintf(w, "  Go:        %s %s\n", b.Go, b.Platform)
	fmt.Fprintf(w, "  Scenarios: %s\n", strings.Join(b.Scenarios, ", "))
	for _, path := range trackedDeps {
		if v, ok := b.Deps[path]; ok {
			fmt.Fprintf(w, "  %-36s %s\n", path, v)
		}
	}
}
