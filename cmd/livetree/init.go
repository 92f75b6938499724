package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/config"
	"github.com/vango-dev/livetree/internal/errors"
)

func initCmd(configDir *string) *cobra.Command {
	var (
		force  bool
		prefix string
		port   int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default livetree.json",
		Long: `Write livetree.json with the default settings into the config
directory, so they can be edited instead of typed as flags.

Examples:
  livetree init
  livetree init --style-prefix app- --port 8080
  livetree -c ./preview init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runInit(*configDir, force, prefix, port)
			if err != nil {
				return err
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing livetree.json")
	cmd.Flags().StringVar(&prefix, "style-prefix", "", "Class prefix for scoped styles")
	cmd.Flags().IntVar(&port, "port", 0, "Port for serve")

	return cmd
}

// runInit writes the default configuration, with the given overrides, into
// dir and returns the file path.
func runInit(dir string, force bool, prefix string, port int) (string, error) {
	if config.Exists(dir) && !force {
		return "", errors.New("C001").
			WithDetailf("%s already exists in %s. Use --force to overwrite it.", config.ConfigFileName, dir)
	}

	cfg := config.Default()
	if prefix != "" {
		cfg.Style.Prefix = prefix
	}
	if port != 0 {
		cfg.Serve.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}
