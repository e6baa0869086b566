package milp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/fairshift/pkg/core/conflict"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

func buildFixture() ([]model.Shift, []model.Volunteer, model.Settings) {
	day := time.Date(2026, time.June, 6, 0, 0, 0, 0, time.UTC)
	shifts := []model.Shift{
		{ID: "s1", Date: "d1", Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour), Capacity: 1, Points: 2},
		{ID: "s2", Date: "d1", Start: day.Add(12 * time.Hour), End: day.Add(14 * time.Hour), Capacity: 2, Points: 1.5},
	}
	volunteers := []model.Volunteer{
		{Name: "alice", Preferences: map[string]int{"s1": 1, "s2": 2}},
		{Name: "bob", Preferences: map[string]int{"s2": 1}},
	}
	settings := model.Settings{
		MinPoints:          1.5,
		MaxOver:            2,
		MaxShifts:          2,
		BackToBackGapHours: 2,
		GuaranteeLevel:     1,
		Seed:               42,
	}
	return shifts, volunteers, settings
}

func findConstraint(in *Instance, name string) *Constraint {
	for i := range in.Constraints {
		if in.Constraints[i].Name == name {
			return &in.Constraints[i]
		}
	}
	return nil
}

func TestBuild_VariableLayoutIsVolunteerMajor(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	in := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})

	require.Len(t, in.Vars, 4)
	assert.Equal(t, "x[alice,s1]", in.Vars[0].Name)
	assert.Equal(t, "x[alice,s2]", in.Vars[1].Name)
	assert.Equal(t, "x[bob,s1]", in.Vars[2].Name)
	assert.Equal(t, "x[bob,s2]", in.Vars[3].Name)

	for _, v := range in.Vars {
		assert.True(t, v.Integer)
		assert.Equal(t, 0.0, v.Lower)
		assert.Equal(t, 1.0, v.Upper)
	}
}

func TestBuild_EgalitarianObjectiveUsesWeights(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	in := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})

	// Minimization: rank-1 shift costs -5, rank-2 costs -4, unranked 0
	assert.Equal(t, -5.0, in.Vars[in.AssignVar[[2]int{0, 0}]].Cost)
	assert.Equal(t, -4.0, in.Vars[in.AssignVar[[2]int{0, 1}]].Cost)
	assert.Equal(t, 0.0, in.Vars[in.AssignVar[[2]int{1, 0}]].Cost)
	assert.Equal(t, -5.0, in.Vars[in.AssignVar[[2]int{1, 1}]].Cost)
}

func TestBuild_CapacityBoundsPerPhase(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	egal := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})
	cap1 := findConstraint(egal, "capacity[s1]")
	require.NotNil(t, cap1)
	assert.Equal(t, -Unbounded, cap1.Lower)
	assert.Equal(t, 1.0, cap1.Upper)

	hard := Build(shifts, volunteers, settings, graph, BuildParams{
		Phase:      PhaseHardFill,
		Relaxation: model.RelaxationLadder()[0],
		Rng:        NewLCG(settings.Seed),
	})
	cap1 = findConstraint(hard, "capacity[s1]")
	require.NotNil(t, cap1)
	assert.Equal(t, 1.0, cap1.Lower)
	assert.Equal(t, 1.0, cap1.Upper)
}

func TestBuild_WorkloadBoundsAreScaledIntegers(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	in := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})

	w := findConstraint(in, "workload[alice]")
	require.NotNil(t, w)
	// effective_min 1.5 -> 15, effective_max 3.5 -> 35
	assert.Equal(t, 15.0, w.Lower)
	assert.Equal(t, 35.0, w.Upper)
	// shift points 2 -> 20, 1.5 -> 15
	assert.Equal(t, 20.0, w.Terms[0].Coef)
	assert.Equal(t, 15.0, w.Terms[1].Coef)
}

func TestBuild_RelaxationScalesBounds(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	relaxed := model.RelaxationLadder()[1] // relaxed-points: 0.5 / 1.5 / 1.5
	in := Build(shifts, volunteers, settings, graph, BuildParams{
		Phase:      PhaseHardFill,
		Relaxation: relaxed,
		Rng:        NewLCG(settings.Seed),
	})

	w := findConstraint(in, "workload[alice]")
	require.NotNil(t, w)
	// floor(1.5 * 0.5 * 10) = 7, ceil(3.5 * 1.5 * 10) = 53
	assert.Equal(t, 7.0, w.Lower)
	assert.Equal(t, 53.0, w.Upper)

	c := findConstraint(in, "count[alice]")
	require.NotNil(t, c)
	// ceil(2 * 1.5) = 3
	assert.Equal(t, 3.0, c.Upper)
	assert.Equal(t, 1.0, c.Lower)
}

func TestBuild_GuaranteeRowOnlyForEligibleVolunteers(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	settings.GuaranteeLevel = 1
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	in := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})

	require.NotNil(t, findConstraint(in, "guarantee[alice]"))
	require.NotNil(t, findConstraint(in, "guarantee[bob]"))

	// A volunteer with nothing ranked inside the level falls back to the
	// at-least-one-shift floor alone
	volunteers = append(volunteers, model.Volunteer{Name: "carol", Preferences: map[string]int{"s1": 9}})
	in = Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})
	assert.Nil(t, findConstraint(in, "guarantee[carol]"))
	assert.NotNil(t, findConstraint(in, "count[carol]"))
}

func TestBuild_EgalitarianRowCoefficients(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	in := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian, TargetAverage: 2.5})

	row := findConstraint(in, "avgsat[alice]")
	require.NotNil(t, row)
	assert.Equal(t, 0.0, row.Lower)
	assert.InDelta(t, 5.0-2.5, row.Terms[0].Coef, 1e-9)
	assert.InDelta(t, 4.0-2.5, row.Terms[1].Coef, 1e-9)

	// Hard-fill never carries the maximin row
	hard := Build(shifts, volunteers, settings, graph, BuildParams{
		Phase:      PhaseHardFill,
		Relaxation: model.RelaxationLadder()[0],
		Rng:        NewLCG(settings.Seed),
	})
	assert.Nil(t, findConstraint(hard, "avgsat[alice]"))
}

func TestBuild_SequentialHardVsSoft(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	graph := conflict.Build(shifts, settings.BackToBackGapHours)
	require.Len(t, graph.Sequentials, 1, "fixture shifts should be sequential")

	// Hard mode: exclusion rows, no penalty columns
	settings.ForbidBackToBack = true
	hard := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})
	assert.Empty(t, hard.PenaltyVar)
	row := findConstraint(hard, "seq[alice,s1>s2]")
	require.NotNil(t, row)
	assert.Len(t, row.Terms, 2)
	assert.Equal(t, 1.0, row.Upper)

	// Soft mode: a penalty column per (volunteer, pair), coupled into the row
	settings.ForbidBackToBack = false
	soft := Build(shifts, volunteers, settings, graph, BuildParams{Phase: PhaseEgalitarian})
	require.Len(t, soft.PenaltyVar, 2)
	row = findConstraint(soft, "seq[alice,s1>s2]")
	require.NotNil(t, row)
	require.Len(t, row.Terms, 3)
	assert.Equal(t, -1.0, row.Terms[2].Coef)

	yCol := soft.PenaltyVar[[2]int{0, 0}]
	assert.Equal(t, float64(model.SequentialPenalty), soft.Vars[yCol].Cost)
	assert.True(t, strings.HasPrefix(soft.Vars[yCol].Name, "y[alice,"))
}

func TestBuild_HardFillJitterIsSeedDeterministic(t *testing.T) {
	shifts, volunteers, settings := buildFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, settings.BackToBackGapHours)

	params := func() BuildParams {
		return BuildParams{
			Phase:      PhaseHardFill,
			Relaxation: model.RelaxationLadder()[0],
			Rng:        NewLCG(settings.Seed),
		}
	}

	a := Build(shifts, volunteers, settings, graph, params())
	b := Build(shifts, volunteers, settings, graph, params())
	for j := range a.Vars {
		assert.Equal(t, a.Vars[j].Cost, b.Vars[j].Cost)
	}

	// Costs are stepped reward plus jitter in [0, 9], negated
	for vi, v := range volunteers {
		for si, s := range shifts {
			cost := a.Vars[a.AssignVar[[2]int{vi, si}]].Cost
			base := model.HardFillReward(v.Rank(s.ID))
			assert.GreaterOrEqual(t, -cost, base)
			assert.LessOrEqual(t, -cost, base+9)
		}
	}
}
