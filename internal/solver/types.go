package solver

import (
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

// XKey identifies a "secretary s placed on need ni" decision variable.
type XKey struct {
	SecretaryID int
	NeedIndex   int
}

// YKey identifies a "flexible secretary s works at all on day d" variable.
type YKey struct {
	SecretaryID int
	Date        time.Time
}

// Slot is a secretary's half-day.
type Slot struct {
	SecretaryID int
	Date        time.Time
	Period      domain.Period
}

// Config carries the one open-question knob this package needs: whether
// admin placements count toward workload-balance deviation.
type Config struct {
	IncludeAdminInWorkloadBalance bool
	TimeLimitSeconds              int
}

// Built is the staged CP-SAT model together with every index needed to
// extract a solution afterward. Immutable once returned by Build.
type Built struct {
	model *cpmodel.CpModelBuilder

	X map[XKey]cpmodel.BoolVar
	Y map[YKey]cpmodel.BoolVar

	Needs       []domain.Need
	AdminOffset int

	// EligibleByNeed mirrors needindex.Index.Eligible but restricted to
	// secretaries who actually received an x variable (i.e. not already
	// occupied by an existing assignment) — the same scope the original
	// tool's eligible_count diagnostics use.
	EligibleByNeed map[int][]int
}

// Status classifies the raw solver outcome.
type Status string

const (
	StatusOptimal      Status = "OPTIMAL"
	StatusFeasible     Status = "FEASIBLE"
	StatusInfeasible   Status = "INFEASIBLE"
	StatusModelInvalid Status = "MODEL_INVALID"
	StatusUnknown      Status = "UNKNOWN"
)

// Result is the extracted outcome of a solve.
type Result struct {
	Status      Status
	Objective   *float64
	WallTime    time.Duration
	Assignments []domain.Assignment
	Unfilled    []domain.UnfilledNeed
	// FlexibleDays maps secretary id to the dates on which her y-variable was 1.
	FlexibleDays map[int][]time.Time
}
