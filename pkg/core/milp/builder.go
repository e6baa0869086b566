package milp

import (
	"fmt"
	"math"

	"github.com/jakechorley/fairshift/pkg/core/conflict"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

// Phase selects which program variant Build emits.
type Phase int

const (
	// PhaseEgalitarian builds the maximin-search iteration: capacities are
	// upper bounds and the per-volunteer average-satisfaction row is added
	PhaseEgalitarian Phase = 1

	// PhaseHardFill builds the exact-fill variant: capacities are
	// equalities, stepped rewards with jitter replace the weight objective,
	// and workload bounds may be relaxed
	PhaseHardFill Phase = 2
)

// BuildParams are the per-iteration knobs on top of the fixed input.
type BuildParams struct {
	Phase Phase

	// TargetAverage is the maximin target τ; used only in the egalitarian
	// phase
	TargetAverage float64

	// Relaxation scales the workload bounds; used only in hard-fill
	Relaxation model.Relaxation

	// Rng supplies the hard-fill objective jitter; must be freshly seeded
	// per build for determinism
	Rng *LCG
}

// Build translates the problem into a MILP instance. Volunteers and shifts
// are iterated strictly in input order: column order affects solver branch
// choices and is part of the determinism contract.
func Build(shifts []model.Shift, volunteers []model.Volunteer, settings model.Settings, graph *conflict.Graph, p BuildParams) *Instance {
	in := NewInstance()

	shiftIndex := make(map[string]int, len(shifts))
	for si, s := range shifts {
		shiftIndex[s.ID] = si
	}

	// x columns, volunteer-major
	for vi, v := range volunteers {
		for si, s := range shifts {
			cost := assignCost(v, s, p)
			col := in.AddBinary(fmt.Sprintf("x[%s,%s]", v.Name, s.ID), cost)
			in.AssignVar[[2]int{vi, si}] = col
		}
	}

	// y penalty columns, only in soft back-to-back mode
	if !settings.ForbidBackToBack {
		for vi, v := range volunteers {
			for pi, pair := range graph.Sequentials {
				col := in.AddBinary(fmt.Sprintf("y[%s,%s>%s]", v.Name, pair.A, pair.B), model.SequentialPenalty)
				in.PenaltyVar[[2]int{vi, pi}] = col
			}
		}
	}

	// Shift capacity
	for si, s := range shifts {
		terms := make([]Term, 0, len(volunteers))
		for vi := range volunteers {
			terms = append(terms, Term{Col: in.AssignVar[[2]int{vi, si}], Coef: 1})
		}
		cap := float64(s.Capacity)
		lower := -Unbounded
		if p.Phase == PhaseHardFill {
			lower = cap
		}
		in.AddConstraint(fmt.Sprintf("capacity[%s]", s.ID), lower, cap, terms)
	}

	// Per-volunteer rows
	for vi, v := range volunteers {
		addWorkloadRows(in, shifts, v, vi, settings, p)
		addCountRows(in, shifts, v, vi, settings, p)
		addGuaranteeRow(in, shifts, v, vi, settings)
		if p.Phase == PhaseEgalitarian {
			addEgalitarianRow(in, shifts, v, vi, p.TargetAverage)
		}
	}

	// Overlap exclusion
	for _, pair := range graph.Overlaps {
		a, b := shiftIndex[pair.A], shiftIndex[pair.B]
		for vi, v := range volunteers {
			in.AddConstraint(
				fmt.Sprintf("overlap[%s,%s,%s]", v.Name, pair.A, pair.B),
				-Unbounded, 1,
				[]Term{
					{Col: in.AssignVar[[2]int{vi, a}], Coef: 1},
					{Col: in.AssignVar[[2]int{vi, b}], Coef: 1},
				})
		}
	}

	// Back-to-back: hard exclusion, or coupling to the penalty column
	for pi, pair := range graph.Sequentials {
		a, b := shiftIndex[pair.A], shiftIndex[pair.B]
		for vi, v := range volunteers {
			if settings.ForbidBackToBack {
				in.AddConstraint(
					fmt.Sprintf("seq[%s,%s>%s]", v.Name, pair.A, pair.B),
					-Unbounded, 1,
					[]Term{
						{Col: in.AssignVar[[2]int{vi, a}], Coef: 1},
						{Col: in.AssignVar[[2]int{vi, b}], Coef: 1},
					})
			} else {
				// x_a + x_b - y <= 1 forces y = 1 exactly when both are taken
				in.AddConstraint(
					fmt.Sprintf("seq[%s,%s>%s]", v.Name, pair.A, pair.B),
					-Unbounded, 1,
					[]Term{
						{Col: in.AssignVar[[2]int{vi, a}], Coef: 1},
						{Col: in.AssignVar[[2]int{vi, b}], Coef: 1},
						{Col: in.PenaltyVar[[2]int{vi, pi}], Coef: -1},
					})
			}
		}
	}

	return in
}

// assignCost is the objective coefficient of x[v,s]. The program minimizes,
// so preference rewards enter negated.
func assignCost(v model.Volunteer, s model.Shift, p BuildParams) float64 {
	rank := v.Rank(s.ID)
	if p.Phase == PhaseHardFill {
		jitter := float64(p.Rng.Intn(10))
		return -(model.HardFillReward(rank) + jitter)
	}
	return -model.Weight(rank)
}

// addWorkloadRows emits the scaled-integer workload floor and ceiling.
// Points are scaled by 10 with floor on the lower bound and ceil on the
// upper so the program stays integer across solver backends.
func addWorkloadRows(in *Instance, shifts []model.Shift, v model.Volunteer, vi int, settings model.Settings, p BuildParams) {
	minMult, maxMult := 1.0, 1.0
	if p.Phase == PhaseHardFill {
		minMult = p.Relaxation.MinPointsMultiplier
		maxMult = p.Relaxation.MaxPointsMultiplier
	}

	terms := make([]Term, 0, len(shifts))
	for si, s := range shifts {
		terms = append(terms, Term{
			Col:  in.AssignVar[[2]int{vi, si}],
			Coef: float64(model.ScalePoints(s.Points)),
		})
	}

	lower := math.Floor(settings.EffectiveMin(v) * minMult * model.PointsScale)
	upper := math.Ceil(settings.EffectiveMax(v) * maxMult * model.PointsScale)
	in.AddConstraint(fmt.Sprintf("workload[%s]", v.Name), lower, upper, terms)
}

// addCountRows emits the shift-count ceiling and the at-least-one-shift
// floor as a single ranged row.
func addCountRows(in *Instance, shifts []model.Shift, v model.Volunteer, vi int, settings model.Settings, p BuildParams) {
	countMult := 1.0
	if p.Phase == PhaseHardFill {
		countMult = p.Relaxation.MaxShiftsMultiplier
	}

	terms := make([]Term, 0, len(shifts))
	for si := range shifts {
		terms = append(terms, Term{Col: in.AssignVar[[2]int{vi, si}], Coef: 1})
	}

	maxShifts := math.Ceil(float64(settings.MaxShifts) * countMult)
	in.AddConstraint(fmt.Sprintf("count[%s]", v.Name), 1, maxShifts, terms)
}

// addGuaranteeRow requires one assignment within the guarantee level. A
// volunteer with no shift ranked that well falls through to the
// at-least-one-shift floor alone.
func addGuaranteeRow(in *Instance, shifts []model.Shift, v model.Volunteer, vi int, settings model.Settings) {
	if settings.GuaranteeLevel <= 0 {
		return
	}

	var terms []Term
	for si, s := range shifts {
		if rank := v.Rank(s.ID); rank >= 1 && rank <= settings.GuaranteeLevel {
			terms = append(terms, Term{Col: in.AssignVar[[2]int{vi, si}], Coef: 1})
		}
	}
	if len(terms) == 0 {
		return
	}
	in.AddConstraint(fmt.Sprintf("guarantee[%s]", v.Name), 1, Unbounded, terms)
}

// addEgalitarianRow encodes "average satisfaction over assigned shifts is
// at least τ" linearly: sum (W(rank) - τ)·x >= 0. Vacuous for an empty
// assignment, but the count floor rules that out.
func addEgalitarianRow(in *Instance, shifts []model.Shift, v model.Volunteer, vi int, target float64) {
	terms := make([]Term, 0, len(shifts))
	for si, s := range shifts {
		terms = append(terms, Term{
			Col:  in.AssignVar[[2]int{vi, si}],
			Coef: model.Weight(v.Rank(s.ID)) - target,
		})
	}
	in.AddConstraint(fmt.Sprintf("avgsat[%s]", v.Name), 0, Unbounded, terms)
}
