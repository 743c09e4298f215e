// Package cli holds the newtab command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/newtab/internal/app"
	"github.com/MrSnakeDoc/newtab/internal/config"
	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/dashboard"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "newtab",
		Short:         "Personal new-tab dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				return os.Setenv("NEWTAB_ENV_FILE", envFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(newServeCmd(), newVersionCmd(), newDataCmd())
	return root
}

// loadConfig reads the configuration and builds a logger for a one-shot
// command. Logs go to stderr so stdout stays usable for output.
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}

// openDashboard opens the configured backend and loads every store.
// The caller must close the returned backend.
func openDashboard(ctx context.Context, cfg *config.Config, log logger.Logger) (*dashboard.Dashboard, kv.Backend, error) {
	backend, err := app.OpenBackend(ctx, cfg, cfg.Storage, log)
	if err != nil {
		return nil, nil, err
	}
	dash := dashboard.New(ctx, kv.New(backend, log), confirm.NewGate(cfg.ConfirmTTL, nil), log, nil)
	return dash, backend, nil
}
