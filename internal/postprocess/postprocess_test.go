package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

func TestLinkSurgerySecretaries_MatchesByBlockAndSkill(t *testing.T) {
	assignments := []domain.Assignment{
		{BlockID: 1, SecretaryID: 10, SkillID: 5, BlockType: domain.BlockMedicalSurgery},
		{BlockID: 2, SecretaryID: 11, SkillID: 5, BlockType: domain.BlockMedicalClinic},
	}
	doctorActivities := []domain.DoctorActivity{
		{AssignmentID: 900, BlockID: 1, SkillID: 5},
	}

	LinkSurgerySecretaries(assignments, doctorActivities)

	if assert.NotNil(t, assignments[0].LinkedDoctorAssignmentID) {
		assert.Equal(t, 900, *assignments[0].LinkedDoctorAssignmentID)
	}
	assert.Nil(t, assignments[1].LinkedDoctorAssignmentID, "non-surgery blocks are never linked")
}

func TestLinkSurgerySecretaries_FirstDoctorWinsOnSkillCollision(t *testing.T) {
	assignments := []domain.Assignment{
		{BlockID: 1, SecretaryID: 10, SkillID: 5, BlockType: domain.BlockMedicalSurgery},
	}
	doctorActivities := []domain.DoctorActivity{
		{AssignmentID: 900, BlockID: 1, SkillID: 5},
		{AssignmentID: 901, BlockID: 1, SkillID: 5},
	}

	LinkSurgerySecretaries(assignments, doctorActivities)

	assert.Equal(t, 900, *assignments[0].LinkedDoctorAssignmentID)
}

func TestLinkSurgerySecretaries_NoDoctorActivitiesIsNoop(t *testing.T) {
	assignments := []domain.Assignment{
		{BlockID: 1, SecretaryID: 10, SkillID: 5, BlockType: domain.BlockMedicalSurgery},
	}

	LinkSurgerySecretaries(assignments, nil)

	assert.Nil(t, assignments[0].LinkedDoctorAssignmentID)
}

func TestTier_Buckets(t *testing.T) {
	assert.Equal(t, TierZeroEligible, Tier(domain.UnfilledNeed{EligibleCount: 0}))
	assert.Equal(t, TierFewEligible, Tier(domain.UnfilledNeed{EligibleCount: 1}))
	assert.Equal(t, TierFewEligible, Tier(domain.UnfilledNeed{EligibleCount: 2}))
	assert.Equal(t, TierManyEligible, Tier(domain.UnfilledNeed{EligibleCount: 3}))
}

func TestDiagnostics_GroupsByTier(t *testing.T) {
	unfilled := []domain.UnfilledNeed{
		{BlockID: 1, EligibleCount: 0},
		{BlockID: 2, EligibleCount: 1},
		{BlockID: 3, EligibleCount: 5},
	}

	groups := Diagnostics(unfilled)

	assert.Len(t, groups[TierZeroEligible], 1)
	assert.Len(t, groups[TierFewEligible], 1)
	assert.Len(t, groups[TierManyEligible], 1)
}
