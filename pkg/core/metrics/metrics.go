// Package metrics projects solver primal values back onto the domain and
// computes the per-volunteer and aggregate satisfaction figures the
// reporting layers consume.
package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
	"github.com/jakechorley/fairshift/pkg/core/solver"
)

// Assemble projects the solved x columns into an Assignment. Pair order is
// deterministic: volunteer input order, then shift input order.
func Assemble(in *milp.Instance, out *solver.Outcome, volunteers []model.Volunteer, shifts []model.Shift) *model.Assignment {
	a := &model.Assignment{
		Pairs:       []model.AssignmentPair{},
		ByShift:     make(map[string][]string),
		ByVolunteer: make(map[string][]string),
	}

	for vi, v := range volunteers {
		for si, s := range shifts {
			col, ok := in.AssignVar[[2]int{vi, si}]
			if !ok || !out.Assigned(col) {
				continue
			}
			a.Pairs = append(a.Pairs, model.AssignmentPair{VolunteerName: v.Name, ShiftID: s.ID})
			a.ByShift[s.ID] = append(a.ByShift[s.ID], v.Name)
			a.ByVolunteer[v.Name] = append(a.ByVolunteer[v.Name], s.ID)
		}
	}

	return a
}

// Compute derives the satisfaction and fairness metrics for an assignment.
func Compute(a *model.Assignment, volunteers []model.Volunteer, shifts []model.Shift, settings model.Settings) *model.Metrics {
	shiftByID := make(map[string]model.Shift, len(shifts))
	for _, s := range shifts {
		shiftByID[s.ID] = s
	}

	m := &model.Metrics{PerVolunteer: make([]model.VolunteerMetrics, 0, len(volunteers))}

	avgs := make([]float64, 0, len(volunteers))
	maxSatisfaction := 0.0
	preferredAssignments := 0
	totalAssignments := 0
	reachedMin := 0

	for _, v := range volunteers {
		vm := model.VolunteerMetrics{Name: v.Name}

		for _, shiftID := range a.ByVolunteer[v.Name] {
			s := shiftByID[shiftID]
			rank := v.Rank(shiftID)
			w := model.Weight(rank)

			vm.ShiftCount++
			vm.Points += s.Points
			vm.Satisfaction += w
			if rank >= 1 && rank <= model.MaxWeightedRank {
				vm.RankHits[rank-1]++
				preferredAssignments++
			}
			totalAssignments++
		}

		if vm.ShiftCount > 0 {
			vm.AvgSatisfaction = vm.Satisfaction / float64(vm.ShiftCount)
		}
		vm.ReachedMin = vm.Points >= settings.EffectiveMin(v)
		if vm.ReachedMin {
			reachedMin++
		}
		if vm.Satisfaction > maxSatisfaction {
			maxSatisfaction = vm.Satisfaction
		}

		avgs = append(avgs, vm.AvgSatisfaction)
		m.PerVolunteer = append(m.PerVolunteer, vm)
	}

	if len(avgs) > 0 {
		m.MinAvgSatisfaction, m.MaxAvgSatisfaction = minMax(avgs)
		m.MeanAvgSatisfaction = stat.Mean(avgs, nil)
		m.StdDevAvgSatisfaction = stat.PopStdDev(avgs, nil)
	}

	if maxSatisfaction > 0 {
		fairness := 1 - m.StdDevAvgSatisfaction/maxSatisfaction
		if fairness < 0 {
			fairness = 0
		}
		m.FairnessIndex = fairness
	}

	if totalAssignments > 0 {
		m.PreferredShare = 100 * float64(preferredAssignments) / float64(totalAssignments)
	}
	if len(volunteers) > 0 {
		m.ReachedMinShare = 100 * float64(reachedMin) / float64(len(volunteers))
	}

	return m
}

// Underfilled returns the IDs of shifts whose assignment count is below
// capacity. The engine uses it to decide whether hard-fill is needed.
func Underfilled(a *model.Assignment, shifts []model.Shift) []string {
	var short []string
	for _, s := range shifts {
		if len(a.ByShift[s.ID]) < s.Capacity {
			short = append(short, s.ID)
		}
	}
	return short
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
