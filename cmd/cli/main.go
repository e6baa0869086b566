package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/fairshift/cmd/cli/commands"
	"github.com/jakechorley/fairshift/internal/config"
	"github.com/jakechorley/fairshift/pkg/core/solver"
	"github.com/jakechorley/fairshift/pkg/postgres"
	"github.com/jakechorley/fairshift/pkg/utils/logging"
)

var (
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairshift",
		Short: "Fairshift - assign volunteers to event shifts from ranked preferences",
		Long:  `Fairshift assigns volunteers to event shifts so that the least-satisfied volunteer does as well as possible, honoring capacities, workload bounds and scheduling conflicts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Logger != nil {
					app.Logger.Sync()
				}
				if app.RunDB != nil {
					app.RunDB.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on the console")

	rootCmd.AddCommand(commands.DetectCmd(app))
	rootCmd.AddCommand(commands.SolveCmd(app))
	rootCmd.AddCommand(commands.StressCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, solver backend, and the optional run store
func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.InitLogger("fairshift", cfg.LogDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Cfg = cfg
	app.Logger = logger
	app.Solver = solver.NewHighsSolver()
	app.Ctx = context.Background()

	if cfg.PostgresDSN != "" {
		db, err := postgres.NewDB(app.Ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("failed to connect to run store: %w", err)
		}
		app.RunDB = db
	}

	return nil
}

func init() {
	app = &commands.AppContext{}
}
