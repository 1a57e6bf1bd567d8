package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

const solverWorkers = 4

// Solve runs the staged model to completion or until the configured time
// limit, then extracts assignments, flexible-day choices and unfilled
// medical needs from the response. ctx governs only the Go call stack around
// the solve (it is checked before the blocking call begins); the search
// itself is bounded by cfg.TimeLimitSeconds, not by context cancellation,
// since the underlying CP-SAT call has no cancellation hook of its own.
func (b *Built) Solve(ctx context.Context, cfg Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := b.model.Model()
	if err != nil {
		return nil, err
	}

	timeLimit := float64(cfg.TimeLimitSeconds)
	workers := int32(solverWorkers)
	params := &sppb.SatParameters{
		MaxTimeInSeconds: &timeLimit,
		NumWorkers:       &workers,
	}

	start := time.Now()
	response, err := cpmodel.SolveCpModelWithSatParameters(m, params)
	if err != nil {
		return nil, err
	}
	wallTime := time.Since(start)

	status := statusFrom(response.GetStatus())
	result := &Result{
		Status:       status,
		WallTime:     wallTime,
		FlexibleDays: map[int][]time.Time{},
	}

	if status != StatusOptimal && status != StatusFeasible {
		return result, nil
	}

	obj := response.GetObjectiveValue()
	result.Objective = &obj

	for key, v := range b.X {
		if !cpmodel.SolutionBooleanValue(response, v) {
			continue
		}
		need := b.Needs[key.NeedIndex]
		result.Assignments = append(result.Assignments, domain.Assignment{
			BlockID:      need.BlockID,
			SecretaryID:  key.SecretaryID,
			RoleID:       need.RoleID,
			SkillID:      need.SkillID,
			Date:         need.Date,
			Period:       need.Period,
			Type:         need.Type,
			BlockType:    need.BlockType,
			DepartmentID: need.DepartmentID,
			Department:   need.Department,
			SiteID:       need.SiteID,
			Site:         need.Site,
			Source:       domain.SourceAlgorithm,
			Status:       domain.StatusProposed,
		})
	}

	for key, v := range b.Y {
		if cpmodel.SolutionBooleanValue(response, v) {
			result.FlexibleDays[key.SecretaryID] = append(result.FlexibleDays[key.SecretaryID], key.Date)
		}
	}

	for ni := 0; ni < b.AdminOffset; ni++ {
		need := b.Needs[ni]
		eligible := b.EligibleByNeed[ni]
		filled := 0
		for _, sid := range eligible {
			if v, ok := b.X[XKey{SecretaryID: sid, NeedIndex: ni}]; ok && cpmodel.SolutionBooleanValue(response, v) {
				filled++
			}
		}
		if filled >= need.Gap {
			continue
		}
		result.Unfilled = append(result.Unfilled, domain.UnfilledNeed{
			BlockID:       need.BlockID,
			Date:          need.Date,
			Period:        need.Period,
			Department:    need.Department,
			SkillName:     need.SkillName,
			RoleName:      need.RoleName,
			Gap:           need.Gap,
			Filled:        filled,
			Remaining:     need.Gap - filled,
			EligibleCount: len(eligible),
		})
	}

	return result, nil
}

func statusFrom(raw fmt.Stringer) Status {
	switch raw.String() {
	case "OPTIMAL":
		return StatusOptimal
	case "FEASIBLE":
		return StatusFeasible
	case "INFEASIBLE":
		return StatusInfeasible
	case "MODEL_INVALID":
		return StatusModelInvalid
	default:
		return StatusUnknown
	}
}
