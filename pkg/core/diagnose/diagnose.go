// Package diagnose runs heuristic structural checks on an input that both
// solve phases failed on, and names the properties that made it
// unsolvable. The checks are sound but not complete: every emitted cause
// truly holds, but an empty diagnosis does not prove solvability.
package diagnose

import (
	"fmt"
	"sort"

	"github.com/jakechorley/fairshift/pkg/core/conflict"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

const (
	// pointsExcessFactor: supply beyond 1.5x the summed ceilings cannot be
	// absorbed even with everyone at max
	pointsExcessFactor = 1.5

	// sequentialDensityLimit: more than this many sequential memberships
	// per shift makes a hard back-to-back ban combinatorially brutal
	sequentialDensityLimit = 2.0

	// bottleneckVolunteerLimit / bottleneckCapacityLimit: how many
	// volunteers may sit on a thin top-choice capacity before the
	// guarantee is flagged as a bottleneck
	bottleneckVolunteerLimit = 5
	bottleneckCapacityLimit  = 2
)

// Run evaluates every rule and returns the causes that hold, in rule order.
func Run(volunteers []model.Volunteer, shifts []model.Shift, settings model.Settings, graph *conflict.Graph) []model.Diagnosis {
	var out []model.Diagnosis

	numVols := len(volunteers)
	totalCapacity := 0
	totalSupply := 0.0
	for _, s := range shifts {
		totalCapacity += s.Capacity
		totalSupply += float64(s.Capacity) * s.Points
	}

	sumEffMin := 0.0
	sumEffMax := 0.0
	for _, v := range volunteers {
		sumEffMin += settings.EffectiveMin(v)
		sumEffMax += settings.EffectiveMin(v) + settings.MaxOver
	}

	// capacity_excess: more seats than volunteers can legally cover
	if maxAssignable := numVols * settings.MaxShifts; totalCapacity > maxAssignable {
		out = append(out, model.Diagnosis{
			Type: model.DiagCapacityExcess,
			Description: fmt.Sprintf("total shift capacity %d exceeds the %d assignments %d volunteers can take at %d shifts each",
				totalCapacity, maxAssignable, numVols, settings.MaxShifts),
			Suggestion: "Add volunteers, raise the max shifts per volunteer, or lower shift capacities.",
		})
	}

	// points_shortage: not enough workload on offer to give everyone their floor
	if totalSupply < sumEffMin {
		out = append(out, model.Diagnosis{
			Type: model.DiagPointsShortage,
			Description: fmt.Sprintf("available workload %.1f points falls %.1f short of the %.1f needed to reach every volunteer's minimum",
				totalSupply, sumEffMin-totalSupply, sumEffMin),
			Suggestion: "Lower the minimum points, or raise shift points or capacities.",
		})
	}

	// points_excess: too much workload for the ceilings to absorb
	if totalSupply > pointsExcessFactor*sumEffMax {
		out = append(out, model.Diagnosis{
			Type: model.DiagPointsExcess,
			Description: fmt.Sprintf("available workload %.1f points is more than %.1fx the %.1f the volunteers' ceilings can absorb",
				totalSupply, pointsExcessFactor, sumEffMax),
			Suggestion: "Raise the allowed points above minimum, add volunteers, or lower shift points.",
		})
	}

	// concurrent_overlap: at some instant, more seats are open than people exist
	if peak := peakConcurrentDemand(shifts); peak > numVols {
		out = append(out, model.Diagnosis{
			Type: model.DiagConcurrentOverlap,
			Description: fmt.Sprintf("at the busiest moment %d volunteers are needed simultaneously but only %d exist",
				peak, numVols),
			Suggestion: "Stagger shift times or add volunteers.",
		})
	}

	// back_to_back_tight: hard ban plus dense sequential structure
	if settings.ForbidBackToBack && len(shifts) > 0 {
		density := 2 * float64(len(graph.Sequentials)) / float64(len(shifts))
		if density > sequentialDensityLimit {
			out = append(out, model.Diagnosis{
				Type: model.DiagBackToBackTight,
				Description: fmt.Sprintf("back-to-back shifts are forbidden but each shift averages %.1f sequential neighbours",
					density),
				Suggestion: "Switch back-to-back handling from forbid to minimize.",
			})
		}
	}

	// guarantee_impossible / guarantee_bottleneck
	if settings.GuaranteeLevel > 0 {
		out = append(out, guaranteeDiagnoses(volunteers, shifts, settings.GuaranteeLevel)...)
	}

	return out
}

// peakConcurrentDemand runs the scanline over shift start/end events and
// returns the maximum simultaneous capacity demand.
func peakConcurrentDemand(shifts []model.Shift) int {
	type event struct {
		at    int64
		delta int
	}
	events := make([]event, 0, 2*len(shifts))
	for _, s := range shifts {
		events = append(events, event{at: s.Start.UnixNano(), delta: s.Capacity})
		events = append(events, event{at: s.End.UnixNano(), delta: -s.Capacity})
	}

	// Ends sort before starts at the same instant, so touching shifts do
	// not count as concurrent. SliceStable keeps the order platform-stable.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	peak, running := 0, 0
	for _, e := range events {
		running += e.delta
		if running > peak {
			peak = running
		}
	}
	return peak
}

func guaranteeDiagnoses(volunteers []model.Volunteer, shifts []model.Shift, level int) []model.Diagnosis {
	var out []model.Diagnosis

	shiftByID := make(map[string]model.Shift, len(shifts))
	for _, s := range shifts {
		shiftByID[s.ID] = s
	}

	var noEligible []string
	thinCount := 0
	for _, v := range volunteers {
		eligible := 0
		capacity := 0
		for shiftID, rank := range v.Preferences {
			if rank < 1 || rank > level {
				continue
			}
			if s, ok := shiftByID[shiftID]; ok {
				eligible++
				capacity += s.Capacity
			}
		}
		if eligible == 0 {
			noEligible = append(noEligible, v.Name)
		} else if capacity <= bottleneckCapacityLimit {
			thinCount++
		}
	}

	if len(noEligible) > 0 {
		out = append(out, model.Diagnosis{
			Type: model.DiagGuaranteeImpossible,
			Description: fmt.Sprintf("%d volunteer(s) (%s, ...) ranked no shift within guarantee level %d",
				len(noEligible), noEligible[0], level),
			Suggestion: "Lower the guarantee level.",
		})
	}
	if thinCount > bottleneckVolunteerLimit {
		out = append(out, model.Diagnosis{
			Type: model.DiagGuaranteeBottleneck,
			Description: fmt.Sprintf("%d volunteers have at most %d seats of capacity across their top-%d choices",
				thinCount, bottleneckCapacityLimit, level),
			Suggestion: "Diversify volunteer preferences or lower the guarantee level.",
		})
	}
	return out
}
