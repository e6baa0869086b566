package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/fairshift/pkg/core/conflict"
	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
	"github.com/jakechorley/fairshift/pkg/core/solver"
)

func metricsFixture() ([]model.Shift, []model.Volunteer, model.Settings) {
	day := time.Date(2026, time.June, 6, 0, 0, 0, 0, time.UTC)
	shifts := []model.Shift{
		{ID: "s1", Date: "d1", Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour), Capacity: 1, Points: 2},
		{ID: "s2", Date: "d1", Start: day.Add(14 * time.Hour), End: day.Add(16 * time.Hour), Capacity: 1, Points: 2},
		{ID: "s3", Date: "d2", Start: day.Add(33 * time.Hour), End: day.Add(35 * time.Hour), Capacity: 1, Points: 1},
	}
	volunteers := []model.Volunteer{
		{Name: "alice", Preferences: map[string]int{"s1": 1, "s2": 2}},
		{Name: "bob", Preferences: map[string]int{"s2": 1}},
	}
	settings := model.Settings{MinPoints: 2, MaxOver: 2, MaxShifts: 2}
	return shifts, volunteers, settings
}

func solveFixture(t *testing.T) (*milp.Instance, *solver.Outcome, []model.Shift, []model.Volunteer, model.Settings) {
	t.Helper()
	shifts, volunteers, settings := metricsFixture()
	settings.ForbidBackToBack = true
	graph := conflict.Build(shifts, 1)

	in := milp.Build(shifts, volunteers, settings, graph, milp.BuildParams{Phase: milp.PhaseEgalitarian})
	out, err := solver.NewExhaustiveSolver().Solve(in)
	require.NoError(t, err)
	require.True(t, out.Status.Solved())
	return in, out, shifts, volunteers, settings
}

func TestAssemble_ProjectsColumnsBothWays(t *testing.T) {
	in, out, shifts, volunteers, _ := solveFixture(t)

	a := Assemble(in, out, volunteers, shifts)

	assert.NotEmpty(t, a.Pairs)
	for _, pair := range a.Pairs {
		assert.Contains(t, a.ByShift[pair.ShiftID], pair.VolunteerName)
		assert.Contains(t, a.ByVolunteer[pair.VolunteerName], pair.ShiftID)
	}

	// Both views agree on the total
	total := 0
	for _, names := range a.ByShift {
		total += len(names)
	}
	assert.Equal(t, len(a.Pairs), total)
}

func TestCompute_PerVolunteerFigures(t *testing.T) {
	shifts, volunteers, settings := metricsFixture()

	a := &model.Assignment{
		Pairs: []model.AssignmentPair{
			{VolunteerName: "alice", ShiftID: "s1"},
			{VolunteerName: "alice", ShiftID: "s3"},
			{VolunteerName: "bob", ShiftID: "s2"},
		},
		ByShift: map[string][]string{
			"s1": {"alice"}, "s2": {"bob"}, "s3": {"alice"},
		},
		ByVolunteer: map[string][]string{
			"alice": {"s1", "s3"}, "bob": {"s2"},
		},
	}

	m := Compute(a, volunteers, shifts, settings)

	require.Len(t, m.PerVolunteer, 2)
	alice := m.PerVolunteer[0]
	assert.Equal(t, "alice", alice.Name)
	assert.Equal(t, 2, alice.ShiftCount)
	assert.Equal(t, 3.0, alice.Points)
	// s1 at rank 1 is worth 5, s3 is unranked
	assert.Equal(t, 5.0, alice.Satisfaction)
	assert.Equal(t, 2.5, alice.AvgSatisfaction)
	assert.Equal(t, 1, alice.RankHits[0])
	assert.True(t, alice.ReachedMin)

	bob := m.PerVolunteer[1]
	assert.Equal(t, 5.0, bob.Satisfaction)
	assert.Equal(t, 5.0, bob.AvgSatisfaction)
	assert.True(t, bob.ReachedMin)

	assert.Equal(t, 2.5, m.MinAvgSatisfaction)
	assert.Equal(t, 5.0, m.MaxAvgSatisfaction)
	assert.InDelta(t, 3.75, m.MeanAvgSatisfaction, 1e-9)

	// 2 of 3 assignments hit a weighted preference
	assert.InDelta(t, 100.0*2/3, m.PreferredShare, 1e-9)
	assert.Equal(t, 100.0, m.ReachedMinShare)

	// fairness = 1 - stddev/maxSatisfaction = 1 - 1.25/5
	assert.InDelta(t, 0.75, m.FairnessIndex, 1e-9)
}

func TestCompute_FairnessStaysInUnitRange(t *testing.T) {
	shifts, volunteers, settings := metricsFixture()

	// Alice gets her top pick, bob gets nothing at all
	a := &model.Assignment{
		Pairs:       []model.AssignmentPair{{VolunteerName: "alice", ShiftID: "s1"}},
		ByShift:     map[string][]string{"s1": {"alice"}},
		ByVolunteer: map[string][]string{"alice": {"s1"}},
	}

	m := Compute(a, volunteers, shifts, settings)
	assert.GreaterOrEqual(t, m.FairnessIndex, 0.0)
	assert.LessOrEqual(t, m.FairnessIndex, 1.0)
	assert.Equal(t, 0.0, m.MinAvgSatisfaction)
	assert.Equal(t, 50.0, m.ReachedMinShare)
}

func TestUnderfilled_ReportsShortShifts(t *testing.T) {
	shifts, _, _ := metricsFixture()

	a := &model.Assignment{
		ByShift: map[string][]string{"s1": {"alice"}, "s2": {"bob"}},
	}

	assert.Equal(t, []string{"s3"}, Underfilled(a, shifts))

	a.ByShift["s3"] = []string{"alice"}
	assert.Empty(t, Underfilled(a, shifts))
}
