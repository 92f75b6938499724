package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/preview"
)

func serveCmd(configDir *string) *cobra.Command {
	var (
		scenario string
		port     int
		host     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream a scenario to the browser",
		Long: `Play a scenario in a loop, one step per tick, and push the HTML to
connected browsers over a websocket.

Routes:
  /          live view
  /ws        snapshot stream (JSON)
  /snapshot  latest snapshot
  /metrics   Prometheus metrics

Examples:
  livetree serve
  livetree serve --scenario component --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configDir, scenario, host, port)
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "list", "Scenario to play")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from livetree.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from livetree.json)")

	return cmd
}

func runServe(configDir, scenario, host string, port int) error {
	cfg, logger, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Serve.Port = port
	}
	if host != "" {
		cfg.Serve.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := preview.NewServer(cfg, preview.ServerOptions{Scenario: scenario, Logger: logger})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.ServeAddress(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}()

	success("Serving %s on http://%s", scenario, cfg.ServeAddress())
	info("Metrics at http://%s/metrics", cfg.ServeAddress())

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		return err
	}
	return <-runErr
}
