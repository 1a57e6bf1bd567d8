package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/needindex"
	"github.com/jakechorley/secretary-assign/internal/store"
)

func mon(day int) time.Time {
	return time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC)
}

func buildIndex(data *store.WeekData) *needindex.Index {
	availability := map[int]map[needindex.Slot]bool{}
	for _, s := range data.Availability {
		if availability[s.SecretaryID] == nil {
			availability[s.SecretaryID] = map[needindex.Slot]bool{}
		}
		availability[s.SecretaryID][needindex.Slot{Date: s.Date, Period: s.Period}] = true
	}
	return needindex.Build(data.Needs, data.Eligibility, availability)
}

// One secretary, one need, matching availability and eligibility: the
// mandatory placement constraint must force the assignment.
func TestSolve_SimpleFeasibility(t *testing.T) {
	data := &store.WeekData{
		Secretaries: []domain.Secretary{
			{ID: 1, LastName: "Dupont", FirstName: "Marie"},
		},
		Needs: []domain.Need{
			{BlockID: 1, Date: mon(9), Period: domain.AM, DepartmentID: 1, Department: "Cardiologie",
				SiteID: 1, Site: "Site A", BlockType: domain.BlockMedicalClinic,
				SkillID: 5, SkillName: "ECG", RoleID: domain.StandardRoleID, RoleName: "Standard",
				Gap: 1, Type: domain.NeedMedical},
		},
		Eligibility: []domain.EligibilityRow{
			{SecretaryID: 1, BlockID: 1, SkillID: 5, RoleID: domain.StandardRoleID, SkillScore: 10},
		},
		Availability: []domain.AvailabilitySlot{
			{SecretaryID: 1, Date: mon(9), Period: domain.AM},
		},
		Roles:       []domain.RoleHardship{{RoleID: domain.StandardRoleID, RoleName: "Standard", HardshipWeight: 1}},
		Departments: []store.Department{{ID: 1, Name: "Cardiologie", SiteID: 1, Site: "Site A"}},
	}

	idx := buildIndex(data)
	built, err := Build(data, idx, Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	result, err := built.Solve(context.Background(), Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	assert.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Status)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, 1, result.Assignments[0].SecretaryID)
	assert.Equal(t, 1, result.Assignments[0].BlockID)
	assert.Empty(t, result.Unfilled)
}

// A flexible secretary's working-day count must equal round(available_days *
// FlexibilityPct) exactly, even with no medical needs to place her in.
func TestSolve_FlexibilityTargetRounding(t *testing.T) {
	data := &store.WeekData{
		Secretaries: []domain.Secretary{
			{ID: 2, LastName: "Martin", FirstName: "Alice", IsFlexible: true, FlexibilityPct: 0.5},
		},
		// Admin needs only: a worked day must carry a placement, and these are
		// the half-days she can be placed on.
		Needs: []domain.Need{
			{BlockID: 20, Date: mon(9), Period: domain.AM, DepartmentID: 2, Department: "Administration",
				RoleID: domain.StandardRoleID, RoleName: "Standard", Gap: 1 << 20, Type: domain.NeedAdmin},
			{BlockID: 21, Date: mon(10), Period: domain.AM, DepartmentID: 2, Department: "Administration",
				RoleID: domain.StandardRoleID, RoleName: "Standard", Gap: 1 << 20, Type: domain.NeedAdmin},
			{BlockID: 22, Date: mon(11), Period: domain.AM, DepartmentID: 2, Department: "Administration",
				RoleID: domain.StandardRoleID, RoleName: "Standard", Gap: 1 << 20, Type: domain.NeedAdmin},
		},
		Availability: []domain.AvailabilitySlot{
			{SecretaryID: 2, Date: mon(9), Period: domain.AM},
			{SecretaryID: 2, Date: mon(10), Period: domain.AM},
			{SecretaryID: 2, Date: mon(11), Period: domain.AM},
		},
	}

	idx := buildIndex(data)
	built, err := Build(data, idx, Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	result, err := built.Solve(context.Background(), Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	assert.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Status)
	assert.Len(t, result.FlexibleDays[2], 2) // round(3 * 0.5) = 2
}

// A gap of 2 with only one eligible, available secretary must surface an
// unfilled need rather than fail to solve.
func TestSolve_UnfilledWhenEligibleShortOfGap(t *testing.T) {
	data := &store.WeekData{
		Secretaries: []domain.Secretary{
			{ID: 3, LastName: "Petit", FirstName: "Paul"},
		},
		Needs: []domain.Need{
			{BlockID: 4, Date: mon(9), Period: domain.PM, DepartmentID: 1, Department: "Urgences",
				SiteID: 1, Site: "Site A", BlockType: domain.BlockMedicalReception,
				SkillID: 0, RoleID: domain.StandardRoleID, RoleName: "Standard",
				Gap: 2, Type: domain.NeedMedical},
		},
		Eligibility: []domain.EligibilityRow{
			{SecretaryID: 3, BlockID: 4, SkillID: 0, RoleID: domain.StandardRoleID},
		},
		Availability: []domain.AvailabilitySlot{
			{SecretaryID: 3, Date: mon(9), Period: domain.PM},
		},
		Roles:       []domain.RoleHardship{{RoleID: domain.StandardRoleID, RoleName: "Standard", HardshipWeight: 1}},
		Departments: []store.Department{{ID: 1, Name: "Urgences", SiteID: 1, Site: "Site A"}},
	}

	idx := buildIndex(data)
	built, err := Build(data, idx, Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	result, err := built.Solve(context.Background(), Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	assert.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Status)
	require.Len(t, result.Unfilled, 1)
	assert.Equal(t, 1, result.Unfilled[0].Remaining)
	assert.Equal(t, 1, result.Unfilled[0].EligibleCount)
}

// S3: reception continuity. Secretary A is eligible AM and PM for a
// reception-role need and must be assigned both halves together; secretary B
// is eligible AM only and must therefore be forced out of reception
// entirely, landing on whatever other work (here, admin) her AM availability
// allows instead.
func TestSolve_ReceptionContinuityForcesSamePersonBothHalves(t *testing.T) {
	data := &store.WeekData{
		Secretaries: []domain.Secretary{
			{ID: 1, LastName: "Abel", FirstName: "Anne"},
			{ID: 2, LastName: "Blanc", FirstName: "Bea"},
		},
		Needs: []domain.Need{
			{BlockID: 10, Date: mon(9), Period: domain.AM, DepartmentID: 1, Department: "Accueil",
				SiteID: 1, Site: "Site A", BlockType: domain.BlockMedicalReception,
				SkillID: 0, RoleID: domain.ReceptionRoleA, RoleName: "Reception",
				Gap: 1, Type: domain.NeedMedical},
			{BlockID: 11, Date: mon(9), Period: domain.PM, DepartmentID: 1, Department: "Accueil",
				SiteID: 1, Site: "Site A", BlockType: domain.BlockMedicalReception,
				SkillID: 0, RoleID: domain.ReceptionRoleA, RoleName: "Reception",
				Gap: 1, Type: domain.NeedMedical},
			// B's only alternative AM placement once reception continuity
			// excludes her: a system-created admin need on the same half-day.
			{BlockID: 12, Date: mon(9), Period: domain.AM, DepartmentID: 2, Department: "Administration",
				RoleID: domain.StandardRoleID, RoleName: "Standard", Gap: 1 << 20, Type: domain.NeedAdmin},
		},
		Eligibility: []domain.EligibilityRow{
			{SecretaryID: 1, BlockID: 10, SkillID: 0, RoleID: domain.ReceptionRoleA},
			{SecretaryID: 1, BlockID: 11, SkillID: 0, RoleID: domain.ReceptionRoleA},
			{SecretaryID: 2, BlockID: 10, SkillID: 0, RoleID: domain.ReceptionRoleA},
		},
		Availability: []domain.AvailabilitySlot{
			{SecretaryID: 1, Date: mon(9), Period: domain.AM},
			{SecretaryID: 1, Date: mon(9), Period: domain.PM},
			{SecretaryID: 2, Date: mon(9), Period: domain.AM},
		},
		Roles:       []domain.RoleHardship{{RoleID: domain.ReceptionRoleA, RoleName: "Reception", HardshipWeight: 1}},
		Departments: []store.Department{{ID: 1, Name: "Accueil", SiteID: 1, Site: "Site A"}},
	}

	idx := buildIndex(data)
	built, err := Build(data, idx, Config{TimeLimitSeconds: 5})
	require.NoError(t, err)

	result, err := built.Solve(context.Background(), Config{TimeLimitSeconds: 5})
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Status)

	var aAM, aPM, bReception bool
	for _, a := range result.Assignments {
		if a.SecretaryID == 1 && a.BlockID == 10 {
			aAM = true
		}
		if a.SecretaryID == 1 && a.BlockID == 11 {
			aPM = true
		}
		if a.SecretaryID == 2 && a.BlockID == 10 {
			bReception = true
		}
	}
	assert.True(t, aAM, "A must cover the AM reception need")
	assert.True(t, aPM, "A must cover the PM reception need too, since she is eligible both halves")
	assert.False(t, bReception, "B is AM-only eligible and must be forced out of reception for the whole day")
}
