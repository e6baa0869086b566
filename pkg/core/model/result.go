package model

// SolverStatus classifies the outcome of a solve, both for a single MILP
// call and for the whole two-phase run.
type SolverStatus string

const (
	// StatusOptimal means the solver proved optimality
	StatusOptimal SolverStatus = "optimal"

	// StatusFeasible means the solver stopped early (time limit) with a
	// valid incumbent
	StatusFeasible SolverStatus = "feasible"

	// StatusInfeasible means no assignment satisfies the constraints at the
	// attempted parameters
	StatusInfeasible SolverStatus = "infeasible"

	// StatusTransient means the backing solver failed with a known-flaky
	// error signature; treated like infeasible for control flow but kept
	// distinct so adapter regressions stay visible in logs
	StatusTransient SolverStatus = "transient"
)

// Solved reports whether the status carries a usable assignment.
func (s SolverStatus) Solved() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// RelaxationLevel names one rung of the hard-fill relaxation ladder.
type RelaxationLevel string

const (
	RelaxationFull    RelaxationLevel = "full"
	RelaxationPoints  RelaxationLevel = "relaxed-points"
	RelaxationMinimal RelaxationLevel = "minimal"
)

// Relaxation describes the workload-bound multipliers a hard-fill solution
// was produced under. The labels and multipliers are disclosed to users in
// reports, so they are part of the external contract.
type Relaxation struct {
	Level               RelaxationLevel `yaml:"level"`
	MinPointsMultiplier float64         `yaml:"minPointsMultiplier"`
	MaxShiftsMultiplier float64         `yaml:"maxShiftsMultiplier"`
	MaxPointsMultiplier float64         `yaml:"maxPointsMultiplier"`
}

// RelaxationLadder returns the levels hard-fill attempts, strictest first.
func RelaxationLadder() []Relaxation {
	return []Relaxation{
		{Level: RelaxationFull, MinPointsMultiplier: 1.0, MaxShiftsMultiplier: 1.0, MaxPointsMultiplier: 1.0},
		{Level: RelaxationPoints, MinPointsMultiplier: 0.5, MaxShiftsMultiplier: 1.5, MaxPointsMultiplier: 1.5},
		{Level: RelaxationMinimal, MinPointsMultiplier: 0, MaxShiftsMultiplier: 2.0, MaxPointsMultiplier: 2.0},
	}
}

// DiagnosisType names a structural cause of infeasibility. The names are
// part of the external contract.
type DiagnosisType string

const (
	DiagCapacityExcess      DiagnosisType = "capacity_excess"
	DiagPointsShortage      DiagnosisType = "points_shortage"
	DiagPointsExcess        DiagnosisType = "points_excess"
	DiagConcurrentOverlap   DiagnosisType = "concurrent_overlap"
	DiagBackToBackTight     DiagnosisType = "back_to_back_tight"
	DiagGuaranteeImpossible DiagnosisType = "guarantee_impossible"
	DiagGuaranteeBottleneck DiagnosisType = "guarantee_bottleneck"
)

// Diagnosis is one structural cause of failure, with a mitigation hint.
type Diagnosis struct {
	Type        DiagnosisType `yaml:"type"`
	Description string        `yaml:"description"`
	Suggestion  string        `yaml:"suggestion"`
}

// AssignmentPair is one (volunteer, shift) assignment.
type AssignmentPair struct {
	VolunteerName string `yaml:"volunteer"`
	ShiftID       string `yaml:"shift"`
}

// Assignment is the output assignment set, indexable both ways.
type Assignment struct {
	// Pairs in deterministic order (volunteer input order, then shift
	// input order)
	Pairs []AssignmentPair `yaml:"pairs"`

	// ByShift maps shift ID to the assigned volunteer names
	ByShift map[string][]string `yaml:"-"`

	// ByVolunteer maps volunteer name to the assigned shift IDs
	ByVolunteer map[string][]string `yaml:"-"`
}

// Phase identifies which solve phase produced a result.
type Phase int

const (
	// PhaseEgalitarian means the maximin search alone produced the result
	PhaseEgalitarian Phase = 1

	// PhaseHardFill means the exact-capacity fill phase was invoked
	PhaseHardFill Phase = 2
)

// SolverResult is the core's complete output.
type SolverResult struct {
	Status     SolverStatus `yaml:"status"`
	Assignment *Assignment  `yaml:"assignment,omitempty"`
	Phase      Phase        `yaml:"phase"`
	Relaxation *Relaxation  `yaml:"relaxation,omitempty"`
	Diagnoses  []Diagnosis  `yaml:"diagnoses,omitempty"`
	Metrics    *Metrics     `yaml:"metrics,omitempty"`

	// TargetAverage is the maximin satisfaction target the egalitarian
	// search last proved feasible (0 when phase 1 found nothing)
	TargetAverage float64 `yaml:"targetAverage"`

	// Message is a short human-readable summary. Display formatting beyond
	// this line is the UI layer's job.
	Message string `yaml:"message"`
}

// VolunteerMetrics are the per-volunteer satisfaction figures.
type VolunteerMetrics struct {
	Name            string  `yaml:"name"`
	ShiftCount      int     `yaml:"shiftCount"`
	Points          float64 `yaml:"points"`
	Satisfaction    float64 `yaml:"satisfaction"`
	AvgSatisfaction float64 `yaml:"avgSatisfaction"`

	// RankHits[k-1] counts assigned shifts the volunteer ranked k, for
	// k in 1..5
	RankHits [MaxWeightedRank]int `yaml:"rankHits"`

	// ReachedMin reports whether the volunteer's workload met their
	// effective minimum
	ReachedMin bool `yaml:"reachedMin"`
}

// Metrics are the aggregate fairness figures computed from an assignment.
type Metrics struct {
	PerVolunteer []VolunteerMetrics `yaml:"perVolunteer"`

	MinAvgSatisfaction    float64 `yaml:"minAvgSatisfaction"`
	MaxAvgSatisfaction    float64 `yaml:"maxAvgSatisfaction"`
	MeanAvgSatisfaction   float64 `yaml:"meanAvgSatisfaction"`
	StdDevAvgSatisfaction float64 `yaml:"stdDevAvgSatisfaction"`

	// FairnessIndex is max(0, 1 - stddev/maxSat), where stddev is the
	// population standard deviation of per-volunteer average satisfaction
	// and maxSat is the largest per-volunteer total satisfaction; 1 means
	// everyone is equally happy
	FairnessIndex float64 `yaml:"fairnessIndex"`

	// PreferredShare is the percentage of assignments that hit a ranked
	// (weighted) preference
	PreferredShare float64 `yaml:"preferredShare"`

	// ReachedMinShare is the percentage of volunteers whose workload met
	// their effective minimum
	ReachedMinShare float64 `yaml:"reachedMinShare"`
}
