package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/fairshift/pkg/stress"
)

// StressCmd creates the stress command
func StressCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stress <profile>",
		Short: "Sweep a configured stress profile through the solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := app.Cfg.Profile(args[0])
			if err != nil {
				return err
			}

			report, err := stress.Sweep(app.Ctx, app.Logger, app.Solver, profile)
			if err != nil {
				return err
			}

			fmt.Printf("\nProfile %s: %d runs, %.0f%% solved\n", report.Profile, len(report.Runs), report.SuccessRate())
			fmt.Printf("  hard-fill needed: %d, relaxed: %d, worst min-avg satisfaction: %.2f\n\n",
				report.HardFilled, report.Relaxed, report.WorstMinAvg)

			for _, run := range report.Runs {
				fmt.Printf("  seed %3d: %-10s phase %d  minAvg %.2f  fairness %.2f  %.1fs\n",
					run.Seed, run.Status, run.Phase, run.MinAvg, run.Fairness, run.Duration.Seconds())
			}
			fmt.Println()

			return nil
		},
	}
}
