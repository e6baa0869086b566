// Package stress generates reproducible synthetic scenarios and sweeps the
// optimization core over them. It exists to answer "does the solver hold
// up under skewed demand" questions before a real event does.
package stress

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/jakechorley/fairshift/internal/config"
	"github.com/jakechorley/fairshift/pkg/core/milp"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

// Scenario is one generated input plus the identifiers needed to reproduce
// it.
type Scenario struct {
	ID    uuid.UUID
	Seed  int64
	Input *model.Input
}

// shiftSlots are the within-day time slots a profile's shifts cycle
// through.
var shiftSlots = []struct {
	startHour int
	hours     int
	points    float64
	role      string
}{
	{9, 3, 1.5, "morning"},
	{13, 3, 1.5, "afternoon"},
	{17, 4, 2.0, "evening"},
	{21, 3, 2.5, "late"},
}

// Generate builds one scenario from a profile and a seed. The same
// (profile, seed) pair always yields the same population: all randomness
// comes from the contract LCG.
func Generate(profile *config.StressProfile, seed int64) (*Scenario, error) {
	rule, err := rrule.StrToRRule(profile.RRule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", profile.RRule, err)
	}
	if rule.OrigOptions.Dtstart.IsZero() {
		rule.DTStart(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	}

	days := rule.All()
	if len(days) == 0 {
		return nil, fmt.Errorf("rrule %q yields no dates", profile.RRule)
	}

	rng := milp.NewLCG(seed)

	var shifts []model.Shift
	for _, day := range days {
		for i := 0; i < profile.ShiftsPerDay; i++ {
			slot := shiftSlots[i%len(shiftSlots)]
			start := time.Date(day.Year(), day.Month(), day.Day(), slot.startHour, 0, 0, 0, time.UTC)
			shifts = append(shifts, model.Shift{
				ID:       fmt.Sprintf("%s-%s", day.Format("2006-01-02"), slot.role),
				Date:     day.Format("2006-01-02"),
				Role:     slot.role,
				Start:    start,
				End:      start.Add(time.Duration(slot.hours) * time.Hour),
				Capacity: profile.Capacity,
				Points:   slot.points,
			})
		}
	}

	volunteers := make([]model.Volunteer, profile.Volunteers)
	for vi := range volunteers {
		volunteers[vi] = model.Volunteer{
			Name:        fmt.Sprintf("vol-%03d", vi+1),
			Preferences: rankedPreferences(shifts, profile.Skew, rng),
		}
	}

	in := &model.Input{Shifts: shifts, Volunteers: volunteers}
	in.Settings = defaultSettings(in, seed)

	return &Scenario{ID: uuid.New(), Seed: seed, Input: in}, nil
}

// rankedPreferences draws five distinct shifts and ranks them 1..5. Skew
// concentrates the draws on the front of the shift list, mimicking
// everyone chasing the same popular shifts.
func rankedPreferences(shifts []model.Shift, skew float64, rng *milp.LCG) map[string]int {
	prefs := make(map[string]int)
	rank := 1
	for attempts := 0; rank <= 5 && attempts < 20*len(shifts); attempts++ {
		// With probability skew, draw from the first quarter of the list
		pool := int64(len(shifts))
		if skew > 0 && rng.Intn(100) < int64(skew*100) {
			pool = int64(max(len(shifts)/4, 1))
		}
		s := shifts[rng.Intn(pool)]
		if _, taken := prefs[s.ID]; taken {
			continue
		}
		prefs[s.ID] = rank
		rank++
	}
	return prefs
}

// defaultSettings derives a plausible settings block from the generated
// population: the detector's workload floor and buffer, a simple
// shifts-per-volunteer cap, and a fixed guarantee level of 5.
func defaultSettings(in *model.Input, seed int64) model.Settings {
	totalPoints := 0.0
	for _, s := range in.Shifts {
		totalPoints += float64(s.Capacity) * s.Points
	}
	fairShare := totalPoints / float64(len(in.Volunteers))

	return model.Settings{
		MinPoints:          floorToHalf(0.85 * fairShare),
		MaxOver:            1.5,
		MaxShifts:          len(in.Shifts)/len(in.Volunteers) + 4,
		ForbidBackToBack:   false,
		BackToBackGapHours: 2,
		GuaranteeLevel:     5,
		AllowRelaxation:    true,
		Seed:               seed,
	}
}

func floorToHalf(p float64) float64 {
	return float64(int(p*2)) / 2
}
