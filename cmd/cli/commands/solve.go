package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jakechorley/fairshift/pkg/core/model"
	"github.com/jakechorley/fairshift/pkg/core/services"
)

// SolveCmd creates the solve command
func SolveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <input.yaml>",
		Short: "Assign volunteers to shifts and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			store, _ := cmd.Flags().GetBool("store")

			in, err := services.LoadInput(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				in.Settings.Seed = seed
			}

			var runStore services.RunStore
			if store {
				if app.RunDB == nil {
					return fmt.Errorf("--store requires postgresDSN in the config")
				}
				runStore = app.RunDB
			}

			timeout := time.Duration(app.Cfg.SolveTimeoutSeconds) * time.Second
			plan, err := services.PlanRota(app.Ctx, runStore, app.Logger, app.Solver, in, timeout)
			if err != nil {
				return err
			}

			printResult(plan)
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Override the tie-breaking seed from the input file")
	cmd.Flags().Bool("store", false, "Persist the run to the configured database")

	return cmd
}

func printResult(plan *services.PlanResult) {
	result := plan.Result

	fmt.Printf("\nStatus:  %s (phase %d, %.1fs)\n", result.Status, result.Phase, plan.Duration.Seconds())
	fmt.Printf("Summary: %s\n", result.Message)
	if result.Relaxation != nil {
		r := result.Relaxation
		fmt.Printf("Relaxed: %s (min-points x%.1f, max-shifts x%.1f, max-points x%.1f)\n",
			r.Level, r.MinPointsMultiplier, r.MaxShiftsMultiplier, r.MaxPointsMultiplier)
	}
	if plan.RunID != uuid.Nil {
		fmt.Printf("Run ID:  %s\n", plan.RunID)
	}

	if result.Status == model.StatusInfeasible {
		fmt.Println("\nDiagnosis:")
		for _, d := range result.Diagnoses {
			fmt.Printf("  [%s] %s\n      → %s\n", d.Type, d.Description, d.Suggestion)
		}
		return
	}

	if result.Assignment != nil {
		fmt.Println("\nAssignment:")
		for _, pair := range result.Assignment.Pairs {
			fmt.Printf("  %-20s → %s\n", pair.VolunteerName, pair.ShiftID)
		}
	}

	if m := result.Metrics; m != nil {
		fmt.Printf("\nSatisfaction: min %.2f / mean %.2f / max %.2f, fairness %.2f\n",
			m.MinAvgSatisfaction, m.MeanAvgSatisfaction, m.MaxAvgSatisfaction, m.FairnessIndex)
		fmt.Printf("Preferred assignments: %.0f%%, volunteers at minimum workload: %.0f%%\n",
			m.PreferredShare, m.ReachedMinShare)
	}
	fmt.Println()
}
