package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/internal/preview"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/style"
)

func renderCmd(configDir *string) *cobra.Command {
	var (
		scenario string
		comments bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Play a scenario and print the HTML after each step",
		Long: `Play a scripted scenario against an in-memory container and print
the container's HTML after the initial render and after every step.

Scenarios: ` + strings.Join(preview.Names(), ", ") + `, all

Examples:
  livetree render --scenario list
  livetree render --scenario all --comments`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), *configDir, scenario, comments)
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "list", "Scenario to play")
	cmd.Flags().BoolVar(&comments, "comments", false, "Include placeholder comments in the output")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, configDir, name string, comments bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	names := []string{name}
	if name == "all" {
		names = preview.Names()
	}

	styles := style.NewManager(cfg.Style.Prefix, style.NewSheet())
	for _, n := range names {
		s, ok := preview.Lookup(n)
		if !ok {
			return errors.Newf(errors.CategoryConfig, "unknown scenario %q", n).
				WithSuggestion("Use one of " + strings.Join(preview.Names(), ", ") + " or all")
		}

		fmt.Fprintf(out, "# %s: %s\n", s.Name, s.Description)
		session, err := preview.Start(ctx, s,
			host.WithLogger(logger),
			host.WithStyles(styles),
			host.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
		)
		if err != nil {
			return err
		}
		session.Comments = comments
		printSnapshot(out, session.Snapshot())

		for !session.Done() {
			snap, err := session.Advance(ctx)
			if err != nil {
				_ = session.Close(ctx)
				return err
			}
			printSnapshot(out, snap)
		}
		if err := session.Close(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if css := styles.Sheet().CSS(); css != "" {
		fmt.Fprintf(out, "# styles\n%s", css)
	}
	return nil
}

func printSnapshot(out io.Writer, snap preview.Snapshot) {
	fmt.Fprintf(out, "[%d] %-26s %s\n", snap.Step, snap.Name, snap.HTML)
}
