// Package matching answers the feasibility question behind preference
// guarantees: can every volunteer receive one shift from their top-N
// preferences without exceeding shift capacities? It is a bipartite
// many-to-one matching solved by DFS augmentation, which is plenty at the
// sub-200-volunteer sizes this tool handles.
package matching

import "github.com/jakechorley/fairshift/pkg/core/model"

// guaranteeScanFloor is the minimum upper bound for the strongest-guarantee
// scan, regardless of the ranks actually present.
const guaranteeScanFloor = 10

// Result reports one feasibility check.
type Result struct {
	Feasible bool

	// Unmatched lists, in input order, the volunteers the matching could
	// not place
	Unmatched []string
}

// IsTopNMatchable reports whether every volunteer can receive one shift
// ranked at or below n, with no shift used beyond its capacity. Never
// errors: an infeasible input simply yields the unmatched names.
func IsTopNMatchable(volunteers []model.Volunteer, shifts []model.Shift, n int) Result {
	m := newMatcher(volunteers, shifts, n)

	res := Result{Feasible: true, Unmatched: []string{}}
	for vi := range volunteers {
		visited := make([]bool, len(shifts))
		if !m.augment(vi, visited) {
			res.Feasible = false
			res.Unmatched = append(res.Unmatched, volunteers[vi].Name)
		}
	}
	return res
}

// DetectStrongestGuarantee scans levels 1, 2, ... and returns the smallest
// level at which a full matching exists, plus the per-level unmatched names
// for every level attempted. Returns level 0 when no level up to
// max(maxRank, 10) admits a full matching.
func DetectStrongestGuarantee(volunteers []model.Volunteer, shifts []model.Shift) (int, map[int][]string) {
	maxRank := 0
	for _, v := range volunteers {
		for _, rank := range v.Preferences {
			if rank > maxRank {
				maxRank = rank
			}
		}
	}
	limit := maxRank
	if limit < guaranteeScanFloor {
		limit = guaranteeScanFloor
	}

	unmatchedByLevel := make(map[int][]string)
	for n := 1; n <= limit; n++ {
		res := IsTopNMatchable(volunteers, shifts, n)
		unmatchedByLevel[n] = res.Unmatched
		if res.Feasible {
			return n, unmatchedByLevel
		}
	}
	return 0, unmatchedByLevel
}

// matcher holds the augmentation state for one IsTopNMatchable call. Only
// the shift-side occupancy is tracked; the volunteer-side view is implied
// by it.
type matcher struct {
	// eligible[vi] lists, in shift input order, the shift indices volunteer
	// vi ranks at or below n
	eligible [][]int

	capacity []int

	// occupants[si] lists the volunteer indices currently matched to shift si
	occupants [][]int
}

func newMatcher(volunteers []model.Volunteer, shifts []model.Shift, n int) *matcher {
	m := &matcher{
		eligible:  make([][]int, len(volunteers)),
		capacity:  make([]int, len(shifts)),
		occupants: make([][]int, len(shifts)),
	}
	for si, s := range shifts {
		m.capacity[si] = s.Capacity
	}
	for vi, v := range volunteers {
		for si, s := range shifts {
			if rank := v.Rank(s.ID); rank >= 1 && rank <= n {
				m.eligible[vi] = append(m.eligible[vi], si)
			}
		}
	}
	return m
}

// augment tries to place volunteer vi, re-routing an existing occupant when
// every eligible shift is full. visited is per outer call to keep the DFS
// acyclic.
func (m *matcher) augment(vi int, visited []bool) bool {
	for _, si := range m.eligible[vi] {
		if visited[si] {
			continue
		}
		visited[si] = true

		if len(m.occupants[si]) < m.capacity[si] {
			m.occupants[si] = append(m.occupants[si], vi)
			return true
		}

		for oi, occupant := range m.occupants[si] {
			if m.augment(occupant, visited) {
				m.occupants[si][oi] = vi
				return true
			}
		}
	}
	return false
}
