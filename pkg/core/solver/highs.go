package solver

import (
	"strings"

	"github.com/lanl/highs"

	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

// HighsSolver solves instances with the HiGHS MILP solver.
type HighsSolver struct{}

// NewHighsSolver returns the production backend.
func NewHighsSolver() *HighsSolver {
	return &HighsSolver{}
}

func (s *HighsSolver) Name() string {
	return "highs"
}

// Solve translates the instance into HiGHS's column/row arrays, runs the
// solver, and normalizes the result.
func (s *HighsSolver) Solve(in *milp.Instance) (*Outcome, error) {
	lp := new(highs.Model)

	numCols := len(in.Vars)
	lp.ColCosts = make([]float64, numCols)
	lp.ColLower = make([]float64, numCols)
	lp.ColUpper = make([]float64, numCols)
	lp.VarTypes = make([]highs.VariableType, numCols)
	for j, v := range in.Vars {
		lp.ColCosts[j] = v.Cost
		lp.ColLower[j] = v.Lower
		lp.ColUpper[j] = v.Upper
		// Every column the builder emits is a 0/1 integer
		lp.VarTypes[j] = highs.IntegerType
	}

	lp.RowLower = make([]float64, len(in.Constraints))
	lp.RowUpper = make([]float64, len(in.Constraints))
	for i, c := range in.Constraints {
		lp.RowLower[i] = c.Lower
		lp.RowUpper[i] = c.Upper
		for _, t := range c.Terms {
			lp.ConstMatrix = append(lp.ConstMatrix, highs.Nonzero{Row: i, Col: t.Col, Val: t.Coef})
		}
	}

	solution, err := lp.Solve()
	if err != nil {
		if status, known := classifyError(err); known {
			return &Outcome{Status: status}, nil
		}
		return nil, err
	}

	if solution.Status == highs.Optimal {
		return &Outcome{
			Status:    model.StatusOptimal,
			Values:    solution.ColumnPrimal,
			Objective: solution.Objective,
		}, nil
	}
	return classifyStatus(solution.Status.String(), solution.ColumnPrimal, solution.Objective), nil
}

// classifyStatus maps non-optimal HiGHS termination statuses onto the
// adapter taxonomy by their reported name, so the mapping survives enum
// renumbering across solver versions.
func classifyStatus(name string, primal []float64, objective float64) *Outcome {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "infeasible"), strings.Contains(lower, "unbounded"):
		return &Outcome{Status: model.StatusInfeasible}
	case strings.Contains(lower, "limit"):
		// Hitting a limit with an incumbent still yields a valid assignment
		if len(primal) > 0 {
			return &Outcome{Status: model.StatusFeasible, Values: primal, Objective: objective}
		}
		return &Outcome{Status: model.StatusInfeasible}
	default:
		return &Outcome{Status: model.StatusTransient}
	}
}

// classifyError recognizes backend failure signatures. Crash-style
// signatures (bad indexing, aborts) behave like infeasibility; the flaky
// patterns seen from WASM-compiled solver builds are transient. Anything
// else is unknown and must propagate.
func classifyError(err error) (model.SolverStatus, bool) {
	msg := strings.ToLower(err.Error())

	for _, pat := range []string{"index out of range", "out of bounds", "abort"} {
		if strings.Contains(msg, pat) {
			return model.StatusInfeasible, true
		}
	}
	for _, pat := range []string{"signature mismatch", "unreachable", "call stack exhausted"} {
		if strings.Contains(msg, pat) {
			return model.StatusTransient, true
		}
	}
	return "", false
}
