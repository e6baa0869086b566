package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/fairshift/pkg/core/services"
)

// DetectCmd creates the detect command
func DetectCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <input.yaml>",
		Short: "Recommend solver settings for an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := services.LoadInput(args[0])
			if err != nil {
				return err
			}

			rec := services.DetectSettings(app.Logger, in)

			fmt.Printf("\nRecommended settings for %d volunteers / %d shifts:\n\n", len(in.Volunteers), len(in.Shifts))
			fmt.Printf("  minPoints:      %.1f   (allowed %g-%g)\n", rec.MinPoints, rec.Bounds.MinPoints.Min, rec.Bounds.MinPoints.Max)
			fmt.Printf("  maxOver:        %.1f   (allowed %g-%g)\n", rec.MaxOver, rec.Bounds.MaxOver.Min, rec.Bounds.MaxOver.Max)
			fmt.Printf("  maxShifts:      %d     (allowed %g-%g)\n", rec.MaxShifts, rec.Bounds.MaxShifts.Min, rec.Bounds.MaxShifts.Max)
			fmt.Printf("  guaranteeLevel: %d     (allowed %g-%g)\n", rec.GuaranteeLevel, rec.Bounds.GuaranteeLevel.Min, rec.Bounds.GuaranteeLevel.Max)
			fmt.Println()

			if rec.StrongestGuarantee > 0 {
				fmt.Printf("Strongest matchable guarantee: everyone can get a top-%d choice.\n", rec.StrongestGuarantee)
			} else {
				fmt.Println("No guarantee level is matchable for this input.")
				if unmatched := rec.UnmatchedByLevel[1]; len(unmatched) > 0 {
					fmt.Printf("Unmatched at level 1: %v\n", unmatched)
				}
			}

			return nil
		},
	}
}
