// Package services sits between the CLI and the optimization core: it
// loads inputs, applies deadlines, runs the engine, and persists results
// when a run store is configured.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/fairshift/pkg/core/engine"
	"github.com/jakechorley/fairshift/pkg/core/model"
	"github.com/jakechorley/fairshift/pkg/core/solver"
)

// RunStore is the persistence surface PlanRota needs. Nil disables
// persistence.
type RunStore interface {
	InsertRun(ctx context.Context, seed int64, result *model.SolverResult) (uuid.UUID, error)
}

// PlanResult is the outcome of one planning invocation.
type PlanResult struct {
	Result *model.SolverResult

	// RunID is set when the result was persisted
	RunID uuid.UUID

	Duration time.Duration
}

// PlanRota runs the two-phase solve over the input and optionally persists
// the outcome. A non-zero timeout bounds the whole invocation; the engine
// honors it between solver calls.
func PlanRota(ctx context.Context, store RunStore, logger *zap.Logger, backend solver.Solver, in *model.Input, timeout time.Duration) (*PlanResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Debug("Planning rota",
		zap.Int("volunteers", len(in.Volunteers)),
		zap.Int("shifts", len(in.Shifts)),
		zap.Int64("seed", in.Settings.Seed),
		zap.String("backend", backend.Name()))

	start := time.Now()
	result, err := engine.New(backend, logger).Solve(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("solve failed: %w", err)
	}
	duration := time.Since(start)

	logger.Info("Solve finished",
		zap.String("status", string(result.Status)),
		zap.Int("phase", int(result.Phase)),
		zap.Duration("duration", duration))

	planResult := &PlanResult{Result: result, Duration: duration}

	if store != nil {
		runID, err := store.InsertRun(ctx, in.Settings.Seed, result)
		if err != nil {
			return nil, fmt.Errorf("failed to persist run: %w", err)
		}
		logger.Info("Run persisted", zap.String("run_id", runID.String()))
		planResult.RunID = runID
	}

	return planResult, nil
}
