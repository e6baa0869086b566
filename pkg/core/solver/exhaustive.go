package solver

import (
	"fmt"

	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

// maxExhaustiveVars bounds the enumeration; 2^24 candidate vectors is the
// most this backend will grind through.
const maxExhaustiveVars = 24

// ExhaustiveSolver is a reference backend that enumerates every 0/1
// assignment. Exact and dependency-free, but only viable for toy
// instances; the test suite uses it, the CLI uses HiGHS.
type ExhaustiveSolver struct{}

// NewExhaustiveSolver returns the reference backend.
func NewExhaustiveSolver() *ExhaustiveSolver {
	return &ExhaustiveSolver{}
}

func (s *ExhaustiveSolver) Name() string {
	return "exhaustive"
}

// Solve enumerates candidate vectors in ascending bitmask order and keeps
// the first strictly-best feasible one, so ties break toward lower-index
// columns deterministically.
func (s *ExhaustiveSolver) Solve(in *milp.Instance) (*Outcome, error) {
	n := len(in.Vars)
	if n > maxExhaustiveVars {
		return nil, fmt.Errorf("exhaustive backend limited to %d variables, got %d", maxExhaustiveVars, n)
	}
	for _, v := range in.Vars {
		if !v.Integer || v.Lower != 0 || v.Upper != 1 {
			return nil, fmt.Errorf("exhaustive backend only handles binary variables")
		}
	}

	var best []float64
	bestCost := 0.0

	values := make([]float64, n)
	for mask := uint64(0); mask < 1<<n; mask++ {
		cost := 0.0
		for j := 0; j < n; j++ {
			if mask&(1<<j) != 0 {
				values[j] = 1
				cost += in.Vars[j].Cost
			} else {
				values[j] = 0
			}
		}

		if !feasible(in, values) {
			continue
		}
		if best == nil || cost < bestCost {
			best = append([]float64(nil), values...)
			bestCost = cost
		}
	}

	if best == nil {
		return &Outcome{Status: model.StatusInfeasible}, nil
	}
	return &Outcome{Status: model.StatusOptimal, Values: best, Objective: bestCost}, nil
}

func feasible(in *milp.Instance, values []float64) bool {
	for _, c := range in.Constraints {
		sum := 0.0
		for _, t := range c.Terms {
			sum += t.Coef * values[t.Col]
		}
		// Small slack absorbs float noise in fractional coefficients
		if sum < c.Lower-1e-9 || sum > c.Upper+1e-9 {
			return false
		}
	}
	return true
}
