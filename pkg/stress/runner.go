package stress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/fairshift/internal/config"
	"github.com/jakechorley/fairshift/pkg/core/engine"
	"github.com/jakechorley/fairshift/pkg/core/model"
	"github.com/jakechorley/fairshift/pkg/core/solver"
)

// RunReport summarizes one scenario solve.
type RunReport struct {
	Seed     int64
	Status   model.SolverStatus
	Phase    model.Phase
	Relaxed  bool
	MinAvg   float64
	Fairness float64
	Duration time.Duration
}

// SweepReport aggregates a profile sweep.
type SweepReport struct {
	Profile string
	Runs    []RunReport

	Succeeded   int
	HardFilled  int
	Relaxed     int
	WorstMinAvg float64
}

// Sweep generates Runs scenarios from the profile (seeds 1..Runs) and
// solves each. Individual infeasible runs are data, not errors; only
// generation failures and unknown solver errors abort the sweep.
func Sweep(ctx context.Context, logger *zap.Logger, backend solver.Solver, profile *config.StressProfile) (*SweepReport, error) {
	report := &SweepReport{Profile: profile.Name, WorstMinAvg: -1}

	for seed := int64(1); seed <= int64(profile.Runs); seed++ {
		scenario, err := Generate(profile, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to generate scenario for seed %d: %w", seed, err)
		}

		start := time.Now()
		result, err := engine.New(backend, logger).Solve(ctx, scenario.Input)
		if err != nil {
			return nil, fmt.Errorf("solve failed for seed %d: %w", seed, err)
		}

		run := RunReport{
			Seed:     seed,
			Status:   result.Status,
			Phase:    result.Phase,
			Relaxed:  result.Relaxation != nil,
			Duration: time.Since(start),
		}
		if result.Metrics != nil {
			run.MinAvg = result.Metrics.MinAvgSatisfaction
			run.Fairness = result.Metrics.FairnessIndex
		}
		report.Runs = append(report.Runs, run)

		if result.Status.Solved() {
			report.Succeeded++
			if result.Phase == model.PhaseHardFill {
				report.HardFilled++
			}
			if run.Relaxed {
				report.Relaxed++
			}
			if report.WorstMinAvg < 0 || run.MinAvg < report.WorstMinAvg {
				report.WorstMinAvg = run.MinAvg
			}
		}

		logger.Info("Stress run finished",
			zap.String("profile", profile.Name),
			zap.Int64("seed", seed),
			zap.String("status", string(result.Status)),
			zap.Duration("duration", run.Duration))
	}

	return report, nil
}

// SuccessRate is the share of runs that produced an assignment, in percent.
func (r *SweepReport) SuccessRate() float64 {
	if len(r.Runs) == 0 {
		return 0
	}
	return 100 * float64(r.Succeeded) / float64(len(r.Runs))
}
