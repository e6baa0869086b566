// Package solver wraps MILP backends behind a single interface and
// normalizes their termination codes and error signatures into the
// Optimal / Feasible / Infeasible / Transient taxonomy the engine's control
// flow is written against.
package solver

import (
	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

// Outcome is one backend invocation's normalized result.
type Outcome struct {
	Status model.SolverStatus

	// Values are the primal column values, aligned with the instance's
	// variable order; nil unless Status.Solved()
	Values []float64

	Objective float64
}

// Assigned reports whether column col is set in a 0/1 solution. Primal
// values come back as floats, so threshold at one half.
func (o *Outcome) Assigned(col int) bool {
	return o.Values != nil && o.Values[col] > 0.5
}

// Solver solves one MILP instance. Implementations must be deterministic:
// the same instance yields the same assignment. Backends may hold
// process-wide state, so callers serialize invocations.
type Solver interface {
	// Solve returns a normalized outcome. Infeasibility and known-flaky
	// backend failures come back as Outcome statuses, not errors; an error
	// return is an unrecognized failure and propagates to the caller.
	Solve(in *milp.Instance) (*Outcome, error)

	// Name identifies the backend in logs
	Name() string
}
