// Package postprocess applies the solver-agnostic clean-up steps that run
// after a solve: linking surgery secretary placements to the doctor they
// assist, and bucketing unfilled needs by how starved of candidates they
// were.
package postprocess

import (
	"github.com/jakechorley/secretary-assign/internal/domain"
)

// LinkSurgerySecretaries sets LinkedDoctorAssignmentID on every SURGERY
// assignment to the doctor assignment in the same block whose activity
// requires the matching skill. When more than one doctor in a block shares
// that skill, the first one encountered wins, mirroring upstream ordering.
func LinkSurgerySecretaries(assignments []domain.Assignment, doctorActivities []domain.DoctorActivity) {
	if len(doctorActivities) == 0 {
		return
	}

	type blockSkill struct {
		BlockID int
		SkillID int
	}
	doctorByBlockSkill := map[blockSkill]int{}
	for _, da := range doctorActivities {
		k := blockSkill{BlockID: da.BlockID, SkillID: da.SkillID}
		if _, ok := doctorByBlockSkill[k]; !ok {
			doctorByBlockSkill[k] = da.AssignmentID
		}
	}

	for i := range assignments {
		a := &assignments[i]
		if a.BlockType != domain.BlockMedicalSurgery {
			continue
		}
		if a.SkillID == 0 {
			continue
		}
		doctorID, ok := doctorByBlockSkill[blockSkill{BlockID: a.BlockID, SkillID: a.SkillID}]
		if !ok {
			continue
		}
		id := doctorID
		a.LinkedDoctorAssignmentID = &id
	}
}

// EligibilityTier buckets an unfilled need by how many candidates could have
// filled it, the same triage order the diagnostics tool uses: needs with no
// eligible candidate at all are a staffing-data problem, not a solver one.
type EligibilityTier string

const (
	TierZeroEligible EligibilityTier = "ZERO_ELIGIBLE"
	TierFewEligible  EligibilityTier = "FEW_ELIGIBLE"  // 1-2 candidates
	TierManyEligible EligibilityTier = "MANY_ELIGIBLE" // 3+, a genuine scheduling conflict
)

// Tier classifies one unfilled need.
func Tier(u domain.UnfilledNeed) EligibilityTier {
	switch {
	case u.EligibleCount == 0:
		return TierZeroEligible
	case u.EligibleCount <= 2:
		return TierFewEligible
	default:
		return TierManyEligible
	}
}

// Diagnostics groups unfilled needs by eligibility tier for the verbose report.
func Diagnostics(unfilled []domain.UnfilledNeed) map[EligibilityTier][]domain.UnfilledNeed {
	groups := map[EligibilityTier][]domain.UnfilledNeed{}
	for _, u := range unfilled {
		t := Tier(u)
		groups[t] = append(groups[t], u)
	}
	return groups
}
