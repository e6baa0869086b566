// Package conflict derives the shift conflict graph: which shift pairs
// overlap in time and which are back-to-back on the same day.
package conflict

import (
	"time"

	"github.com/jakechorley/fairshift/pkg/core/model"
)

// OverlapPair is an unordered same-date pair of shifts whose time ranges
// intersect. A is always the lexicographically smaller shift ID.
type OverlapPair struct {
	A, B string
}

// SequentialPair is a directed same-date pair (A ends first) where B starts
// within the configured gap of A's end. Directionality matters for
// counting; the back-to-back constraint derived from it is symmetric.
type SequentialPair struct {
	A, B string
}

// Graph holds both pair sets for one input.
type Graph struct {
	Overlaps    []OverlapPair
	Sequentials []SequentialPair
}

// Build enumerates conflict pairs over the shifts. Quadratic in the number
// of shifts, which is fine at the couple-hundred-shift sizes this tool
// targets.
func Build(shifts []model.Shift, gapHours float64) *Graph {
	g := &Graph{}
	gap := time.Duration(gapHours * float64(time.Hour))

	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			a, b := shifts[i], shifts[j]
			if a.Date != b.Date {
				continue
			}

			if a.Start.Before(b.End) && b.Start.Before(a.End) {
				g.Overlaps = append(g.Overlaps, orderedOverlap(a.ID, b.ID))
				continue
			}

			// Overlapping pairs are never also sequential; check both
			// directions for non-overlapping ones.
			if d := b.Start.Sub(a.End); d >= 0 && d <= gap {
				g.Sequentials = append(g.Sequentials, SequentialPair{A: a.ID, B: b.ID})
			}
			if d := a.Start.Sub(b.End); d >= 0 && d <= gap {
				g.Sequentials = append(g.Sequentials, SequentialPair{A: b.ID, B: a.ID})
			}
		}
	}

	return g
}

func orderedOverlap(a, b string) OverlapPair {
	if a < b {
		return OverlapPair{A: a, B: b}
	}
	return OverlapPair{A: b, B: a}
}
