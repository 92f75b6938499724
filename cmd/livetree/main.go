package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "livetree",
		Short: "Fine-grained reactive rendering into an in-memory tree",
		Long: `livetree mounts reactive values into a document tree and keeps the
tree in sync by applying each change where it happens.

Use it to watch the host layer at work:

  • render plays a scripted scenario and prints the HTML after each step
  • serve plays a scenario in a loop and streams it to a browser`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing livetree.json")

	rootCmd.AddCommand(
		renderCmd(&configDir),
		serveCmd(&configDir),
		benchCmd(&configDir),
		initCmd(&configDir),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// loadConfig reads livetree.json and builds the logger it configures.
func loadConfig(dir string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	return cfg, logger, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
