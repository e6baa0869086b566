// Package engine is the top-level orchestrator of the two-phase solve: an
// egalitarian maximin search first, then a hard capacity fill with
// progressive relaxation when the first phase leaves seats empty, and a
// structural diagnosis when everything fails.
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/fairshift/pkg/core/conflict"
	"github.com/jakechorley/fairshift/pkg/core/diagnose"
	"github.com/jakechorley/fairshift/pkg/core/metrics"
	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
	"github.com/jakechorley/fairshift/pkg/core/solver"
)

const (
	// tauLow / tauHigh bracket the achievable per-shift satisfaction
	// average; tauTolerance ends the binary search
	tauLow       = 0.0
	tauHigh      = 5.0
	tauTolerance = 0.1
)

// Engine runs the optimization core against one solver backend. The
// backend may hold process-wide state, so one Engine must not be used from
// multiple goroutines at once.
type Engine struct {
	solver solver.Solver
	logger *zap.Logger
}

// New creates an engine. A nil logger disables logging.
func New(s solver.Solver, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{solver: s, logger: logger}
}

// solved is one successful MILP outcome together with the instance that
// produced it, kept so the assembler can project the columns back.
type solved struct {
	instance *milp.Instance
	outcome  *solver.Outcome
}

// Solve runs the full pipeline. The context is honored between solver
// calls only: a single MILP solve is opaque and runs to completion. A
// cancelled invocation returns the best result obtained so far, or a
// Transient result when there was none. Unknown solver errors propagate.
func (e *Engine) Solve(ctx context.Context, in *model.Input) (*model.SolverResult, error) {
	if err := model.ValidateInput(in); err != nil {
		return nil, err
	}

	graph := conflict.Build(in.Shifts, in.Settings.BackToBackGapHours)
	e.logger.Info("starting solve",
		zap.Int("volunteers", len(in.Volunteers)),
		zap.Int("shifts", len(in.Shifts)),
		zap.Int("overlap_pairs", len(graph.Overlaps)),
		zap.Int("sequential_pairs", len(graph.Sequentials)))

	best, bestTau, err := e.egalitarianSearch(ctx, in, graph)
	if err != nil {
		return nil, err
	}

	if best != nil {
		assignment := metrics.Assemble(best.instance, best.outcome, in.Volunteers, in.Shifts)
		short := metrics.Underfilled(assignment, in.Shifts)
		if len(short) == 0 {
			e.logger.Info("egalitarian phase filled every shift", zap.Float64("target_average", bestTau))
			return e.finish(in, assignment, best.outcome.Status, model.PhaseEgalitarian, nil, bestTau), nil
		}
		if ctx.Err() != nil {
			// Deadline hit with a phase-1 incumbent: hand back what we have
			e.logger.Warn("cancelled before hard-fill, returning phase-1 incumbent")
			return e.finish(in, assignment, best.outcome.Status, model.PhaseEgalitarian, nil, bestTau), nil
		}
		e.logger.Info("egalitarian phase left shifts underfilled",
			zap.Strings("shifts", short), zap.Float64("target_average", bestTau))
	} else if ctx.Err() != nil {
		return cancelledResult(), nil
	} else {
		e.logger.Warn("egalitarian phase found no feasible assignment")
	}

	result, err := e.hardFill(ctx, in, graph, bestTau)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	if ctx.Err() != nil {
		if best != nil {
			// Deadline hit during hard-fill: fall back to the phase-1 incumbent
			assignment := metrics.Assemble(best.instance, best.outcome, in.Volunteers, in.Shifts)
			return e.finish(in, assignment, best.outcome.Status, model.PhaseEgalitarian, nil, bestTau), nil
		}
		return cancelledResult(), nil
	}

	// Both phases exhausted: explain why
	diagnoses := diagnose.Run(in.Volunteers, in.Shifts, in.Settings, graph)
	e.logger.Warn("solve infeasible", zap.Int("diagnoses", len(diagnoses)))
	return &model.SolverResult{
		Status:        model.StatusInfeasible,
		Phase:         model.PhaseHardFill,
		Diagnoses:     diagnoses,
		TargetAverage: bestTau,
		Message:       infeasibleMessage(diagnoses),
	}, nil
}

// egalitarianSearch binary-searches the maximin target τ. The constraint
// set tightens monotonically with τ, so feasibility at τ implies
// feasibility below it; roughly log2(5/0.1) ≈ 6 solver calls.
func (e *Engine) egalitarianSearch(ctx context.Context, in *model.Input, graph *conflict.Graph) (*solved, float64, error) {
	low, high := tauLow, tauHigh
	var best *solved
	bestTau := 0.0

	for high-low > tauTolerance {
		if ctx.Err() != nil {
			return best, bestTau, nil
		}
		tau := (low + high) / 2

		instance := milp.Build(in.Shifts, in.Volunteers, in.Settings, graph, milp.BuildParams{
			Phase:         milp.PhaseEgalitarian,
			TargetAverage: tau,
		})
		outcome, err := e.solver.Solve(instance)
		if err != nil {
			return nil, 0, fmt.Errorf("egalitarian solve at target %.2f: %w", tau, err)
		}

		if outcome.Status.Solved() {
			e.logger.Debug("target feasible", zap.Float64("tau", tau), zap.String("status", string(outcome.Status)))
			best = &solved{instance: instance, outcome: outcome}
			bestTau = tau
			low = tau
		} else {
			e.logger.Debug("target infeasible", zap.Float64("tau", tau), zap.String("status", string(outcome.Status)))
			high = tau
		}
	}

	return best, bestTau, nil
}

// hardFill walks the relaxation ladder until a level admits an exact fill.
// Returns nil when every level fails.
func (e *Engine) hardFill(ctx context.Context, in *model.Input, graph *conflict.Graph, bestTau float64) (*model.SolverResult, error) {
	ladder := model.RelaxationLadder()
	if !in.Settings.AllowRelaxation {
		ladder = ladder[:1]
	}

	for _, level := range ladder {
		if ctx.Err() != nil {
			return nil, nil
		}

		instance := milp.Build(in.Shifts, in.Volunteers, in.Settings, graph, milp.BuildParams{
			Phase:      milp.PhaseHardFill,
			Relaxation: level,
			Rng:        milp.NewLCG(in.Settings.Seed),
		})
		outcome, err := e.solver.Solve(instance)
		if err != nil {
			return nil, fmt.Errorf("hard-fill solve at level %s: %w", level.Level, err)
		}
		if !outcome.Status.Solved() {
			e.logger.Info("hard-fill level failed",
				zap.String("level", string(level.Level)), zap.String("status", string(outcome.Status)))
			continue
		}

		e.logger.Info("hard-fill level succeeded", zap.String("level", string(level.Level)))
		assignment := metrics.Assemble(instance, outcome, in.Volunteers, in.Shifts)
		var relaxation *model.Relaxation
		if level.Level != model.RelaxationFull {
			l := level
			relaxation = &l
		}
		return e.finish(in, assignment, outcome.Status, model.PhaseHardFill, relaxation, bestTau), nil
	}

	return nil, nil
}

// finish assembles the outward-facing result.
func (e *Engine) finish(in *model.Input, assignment *model.Assignment, status model.SolverStatus, phase model.Phase, relaxation *model.Relaxation, bestTau float64) *model.SolverResult {
	m := metrics.Compute(assignment, in.Volunteers, in.Shifts, in.Settings)

	msg := fmt.Sprintf("assigned %d volunteers to %d shifts (min avg satisfaction %.2f, fairness %.2f)",
		len(assignment.ByVolunteer), len(assignment.ByShift), m.MinAvgSatisfaction, m.FairnessIndex)
	if relaxation != nil {
		msg += fmt.Sprintf("; workload bounds relaxed to %s", relaxation.Level)
	}

	return &model.SolverResult{
		Status:        status,
		Assignment:    assignment,
		Phase:         phase,
		Relaxation:    relaxation,
		Metrics:       m,
		TargetAverage: bestTau,
		Message:       msg,
	}
}

func cancelledResult() *model.SolverResult {
	return &model.SolverResult{
		Status:  model.StatusTransient,
		Phase:   model.PhaseEgalitarian,
		Message: "cancelled before any feasible solve completed",
	}
}

func infeasibleMessage(diagnoses []model.Diagnosis) string {
	if len(diagnoses) == 0 {
		return "no feasible assignment exists for these settings"
	}
	types := make([]string, len(diagnoses))
	for i, d := range diagnoses {
		types[i] = string(d.Type)
	}
	return "no feasible assignment exists; likely causes: " + strings.Join(types, ", ")
}
