package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/minesweeper-backend/internal"
	"github.com/rocketscienceinc/minesweeper-backend/internal/config"
)

var configPath string

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST and WebSocket servers",
		Long: `Run the REST and WebSocket servers backed by Redis until SIGINT or SIGTERM.

Examples:
  minesweeper serve
  minesweeper serve --config /etc/minesweeper/config.yml`,
		RunE: runServe,
	}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "./config.yml", "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := initLogger(conf)

	if err = app.RunApp(logger, conf); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}
