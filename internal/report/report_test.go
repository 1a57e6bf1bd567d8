package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/solver"
	"github.com/jakechorley/secretary-assign/internal/store"
)

func mon(day int) time.Time {
	return time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC)
}

func TestConsole_ReportsCountsAndUnfilled(t *testing.T) {
	data := &store.WeekData{
		Secretaries: []domain.Secretary{
			{ID: 1, LastName: "Dupont", FirstName: "Marie"},
			{ID: 2, LastName: "Martin", FirstName: "Alice", IsFlexible: true},
		},
		Needs: []domain.Need{
			{BlockID: 1, Date: mon(9), Period: domain.AM, Type: domain.NeedMedical, Gap: 2,
				Department: "Cardiologie", SkillName: "ECG", RoleName: "Standard"},
		},
		Roles: []domain.RoleHardship{{RoleID: domain.StandardRoleID, RoleName: "Standard", HardshipWeight: 2}},
		Availability: []domain.AvailabilitySlot{
			{SecretaryID: 2, Date: mon(9), Period: domain.AM},
			{SecretaryID: 2, Date: mon(10), Period: domain.AM},
		},
	}
	obj := 123.0
	result := &solver.Result{
		Status:    solver.StatusOptimal,
		Objective: &obj,
		Assignments: []domain.Assignment{
			{BlockID: 1, SecretaryID: 1, RoleID: domain.StandardRoleID, Date: mon(9), Period: domain.AM, Type: domain.NeedMedical},
		},
		Unfilled: []domain.UnfilledNeed{
			{BlockID: 1, Date: mon(9), Period: domain.AM, Department: "Cardiologie", SkillName: "ECG", RoleName: "Standard", Gap: 2, Filled: 1, Remaining: 1, EligibleCount: 1},
		},
		FlexibleDays: map[int][]time.Time{2: {mon(9)}},
	}

	var buf bytes.Buffer
	Console(&buf, data, result)
	out := buf.String()

	assert.Contains(t, out, "OPTIMAL")
	assert.Contains(t, out, "Objectif: 123")
	assert.Contains(t, out, "Dupont Marie")
	assert.Contains(t, out, "Flex: 1/2j")
	assert.Contains(t, out, "Besoins non remplis (1)")
	assert.Contains(t, out, "reste=1")
}

func TestConsole_NoUnfilledSectionWhenFull(t *testing.T) {
	data := &store.WeekData{Secretaries: []domain.Secretary{{ID: 1, LastName: "Dupont", FirstName: "Marie"}}}
	result := &solver.Result{Status: solver.StatusOptimal, FlexibleDays: map[int][]time.Time{}}

	var buf bytes.Buffer
	Console(&buf, data, result)

	assert.NotContains(t, buf.String(), "Besoins non remplis")
}

func TestVerbose_BucketsByEligibilityTier(t *testing.T) {
	result := &solver.Result{
		Unfilled: []domain.UnfilledNeed{
			{BlockID: 1, Remaining: 1, EligibleCount: 0},
			{BlockID: 2, Remaining: 1, EligibleCount: 2},
			{BlockID: 3, Remaining: 1, EligibleCount: 10},
		},
	}

	var buf bytes.Buffer
	Verbose(&buf, result)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 4) // header + 3 tiers
	assert.Contains(t, out, "1 besoin(s)")
}

func TestSiteContinuityStats_SameVsCrossSite(t *testing.T) {
	medical := []domain.Assignment{
		{SecretaryID: 1, Date: mon(9), Period: domain.AM, SiteID: 1},
		{SecretaryID: 1, Date: mon(9), Period: domain.PM, SiteID: 1},
		{SecretaryID: 2, Date: mon(9), Period: domain.AM, SiteID: 1},
		{SecretaryID: 2, Date: mon(9), Period: domain.PM, SiteID: 2},
	}

	same, cross, _ := siteContinuityStats(medical, nil)
	assert.Equal(t, 1, same)
	assert.Equal(t, 1, cross)
}
