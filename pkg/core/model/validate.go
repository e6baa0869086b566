package model

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// InvalidInputError reports a malformed input rejected before solving.
type InvalidInputError struct {
	Problems []string
}

func (e *InvalidInputError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid input: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid input: %d problems, first: %s", len(e.Problems), e.Problems[0])
}

// ValidateInput repeats the caller's precondition checks defensively:
// unique names and IDs, preferences referencing known shifts, positive
// ranks, end after start, half-point granularity. Returns an
// *InvalidInputError listing every problem found.
func ValidateInput(in *Input) error {
	var problems []string

	if err := validate.Struct(in); err != nil {
		problems = append(problems, err.Error())
	}

	shiftIDs := make(map[string]bool, len(in.Shifts))
	for _, s := range in.Shifts {
		if shiftIDs[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate shift id %q", s.ID))
		}
		shiftIDs[s.ID] = true

		if !s.End.After(s.Start) {
			problems = append(problems, fmt.Sprintf("shift %q: end must be after start", s.ID))
		}
		if !isHalfPoint(s.Points) {
			problems = append(problems, fmt.Sprintf("shift %q: points %v is not half-point granular", s.ID, s.Points))
		}
	}

	names := make(map[string]bool, len(in.Volunteers))
	for _, v := range in.Volunteers {
		if names[v.Name] {
			problems = append(problems, fmt.Sprintf("duplicate volunteer name %q", v.Name))
		}
		names[v.Name] = true

		if !isHalfPoint(v.PreAssignedPoints) {
			problems = append(problems, fmt.Sprintf("volunteer %q: preAssignedPoints %v is not half-point granular", v.Name, v.PreAssignedPoints))
		}
		for shiftID, rank := range v.Preferences {
			if !shiftIDs[shiftID] {
				problems = append(problems, fmt.Sprintf("volunteer %q: preference for unknown shift %q", v.Name, shiftID))
			}
			if rank < 1 {
				problems = append(problems, fmt.Sprintf("volunteer %q: rank %d for shift %q must be positive", v.Name, rank, shiftID))
			}
		}
	}

	if !isHalfPoint(in.Settings.MinPoints) || !isHalfPoint(in.Settings.MaxOver) {
		problems = append(problems, "settings: minPoints and maxOver must be half-point granular")
	}

	if len(problems) > 0 {
		return &InvalidInputError{Problems: problems}
	}
	return nil
}

func isHalfPoint(p float64) bool {
	doubled := p * 2
	return math.Abs(doubled-math.Round(doubled)) < 1e-9
}
