// Package detect computes recommended solver settings, and the allowed
// ranges for each, from a raw input. The recommendations aim for an
// egalitarian solve that still leaves the workload-max constraint headroom.
package detect

import (
	"math"

	"github.com/jakechorley/fairshift/pkg/core/matching"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

const (
	// fairShareFactor discounts the per-volunteer fair share when
	// recommending the workload floor, leaving room under the ceiling
	fairShareFactor = 0.85

	// recommendedMaxOver is a fixed buffer above the floor
	recommendedMaxOver = 1.5

	// guaranteeRecommendationFloor keeps the recommended guarantee lenient
	// even when a stricter level is matchable
	guaranteeRecommendationFloor = 5
)

// Range is an inclusive allowed range for a numeric setting.
type Range struct {
	Min float64
	Max float64
}

// Bounds are the per-field allowed ranges downstream validators apply to
// user-edited settings.
type Bounds struct {
	MinPoints      Range
	MaxOver        Range
	MaxShifts      Range
	GuaranteeLevel Range
}

// Recommendation is the detector's full output.
type Recommendation struct {
	MinPoints      float64
	MaxOver        float64
	MaxShifts      int
	GuaranteeLevel int

	// StrongestGuarantee is the smallest matchable guarantee level, 0 when
	// none is matchable
	StrongestGuarantee int

	// UnmatchedByLevel records which volunteers blocked each guarantee
	// level the matching oracle attempted
	UnmatchedByLevel map[int][]string

	Bounds Bounds
}

// Detect derives recommended settings and bounds from the input.
func Detect(volunteers []model.Volunteer, shifts []model.Shift) Recommendation {
	numVols := len(volunteers)
	numShifts := len(shifts)

	totalPoints := 0.0
	totalCapacity := 0
	minShiftPoints := math.Inf(1)
	for _, s := range shifts {
		totalPoints += float64(s.Capacity) * s.Points
		totalCapacity += s.Capacity
		if s.Points > 0 && s.Points < minShiftPoints {
			minShiftPoints = s.Points
		}
	}

	fairShare := 0.0
	if numVols > 0 {
		fairShare = totalPoints / float64(numVols)
	}

	rec := Recommendation{
		MinPoints: floorToHalf(fairShareFactor * fairShare),
		MaxOver:   recommendedMaxOver,
	}

	// Max shifts: a generous buffer over the average shifts per person,
	// whichever of three estimates is largest.
	avgShifts := 0.0
	if numVols > 0 {
		avgShifts = float64(totalCapacity) / float64(numVols)
	}
	maxPtsPerPerson := rec.MinPoints + rec.MaxOver
	byAverage := int(math.Ceil(avgShifts)) + 3
	byPoints := 2
	if !math.IsInf(minShiftPoints, 1) && minShiftPoints > 0 {
		byPoints = int(math.Ceil(maxPtsPerPerson/minShiftPoints)) + 2
	}
	byCount := 3
	if numVols > 0 {
		byCount = int(math.Ceil(float64(numShifts)/float64(numVols))) + 3
	}
	rec.MaxShifts = maxInt(byAverage, byPoints, byCount)

	// Guarantee: recommend the lenient floor unless only a weaker level is
	// matchable; 0 when nothing is matchable at all.
	strongest, unmatched := matching.DetectStrongestGuarantee(volunteers, shifts)
	rec.StrongestGuarantee = strongest
	rec.UnmatchedByLevel = unmatched
	if strongest >= 1 {
		rec.GuaranteeLevel = maxInt(strongest, guaranteeRecommendationFloor)
	}

	maxRank := 0
	for _, v := range volunteers {
		for _, rank := range v.Preferences {
			if rank > maxRank {
				maxRank = rank
			}
		}
	}
	guaranteeCeil := float64(maxInt(maxRank, 10))

	rec.Bounds = Bounds{
		MinPoints:      Range{Min: 0, Max: math.Floor(fairShare)},
		MaxOver:        Range{Min: 0, Max: 10},
		MaxShifts:      Range{Min: 1, Max: float64(maxInt(numShifts, 1))},
		GuaranteeLevel: Range{Min: 0, Max: guaranteeCeil},
	}

	return rec
}

// floorToHalf rounds down to the nearest half point.
func floorToHalf(p float64) float64 {
	return math.Floor(p*2) / 2
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
