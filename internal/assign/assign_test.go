package assign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/store"
)

func mon(day int) time.Time {
	return time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC)
}

// fakeStore is an in-memory store.Store used to exercise AssignWeek without
// a real database, grounded on the same WeekData shape the Postgres loader
// produces.
type fakeStore struct {
	data             *store.WeekData
	adminBlocks      []domain.WorkBlock
	clearedCalls     int
	clearedReturn    int
	writeCalls       int
	writtenAssignments []domain.Assignment
}

func (f *fakeStore) LoadWeekData(ctx context.Context, weekStart time.Time) (*store.WeekData, error) {
	return f.data, nil
}

func (f *fakeStore) CreateAdminBlocks(ctx context.Context, weekStart time.Time, adminDepartmentID int) ([]domain.WorkBlock, error) {
	return f.adminBlocks, nil
}

func (f *fakeStore) ClearProposedAssignments(ctx context.Context, weekStart time.Time) (int, error) {
	f.clearedCalls++
	return f.clearedReturn, nil
}

func (f *fakeStore) WriteAssignments(ctx context.Context, assignments []domain.Assignment) (int, error) {
	f.writeCalls++
	f.writtenAssignments = assignments
	return len(assignments), nil
}

func feasibleWeekData() *store.WeekData {
	return &store.WeekData{
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
		Roles:             []domain.RoleHardship{{RoleID: domain.StandardRoleID, RoleName: "Standard", HardshipWeight: 1}},
		Departments:       []store.Department{{ID: 1, Name: "Cardiologie", SiteID: 1, Site: "Site A"}},
		AdminDepartmentID: 99,
	}
}

func TestAssignWeek_RejectsNonMonday(t *testing.T) {
	st := &fakeStore{data: feasibleWeekData()}

	_, err := AssignWeek(context.Background(), st, zap.NewNop(), Options{WeekStart: mon(10), TimeLimitSeconds: 5})
	assert.True(t, errors.Is(err, ErrNotMonday))
}

func TestAssignWeek_RejectsMissingAdminDepartment(t *testing.T) {
	data := feasibleWeekData()
	data.AdminDepartmentID = 0
	st := &fakeStore{data: data}

	_, err := AssignWeek(context.Background(), st, zap.NewNop(), Options{WeekStart: mon(9), TimeLimitSeconds: 5})
	assert.True(t, errors.Is(err, ErrAdminDepartmentMissing))
}

func TestAssignWeek_WritesAssignmentsWhenFeasible(t *testing.T) {
	st := &fakeStore{data: feasibleWeekData()}

	outcome, err := AssignWeek(context.Background(), st, zap.NewNop(), Options{
		WeekStart:        mon(9),
		TimeLimitSeconds: 5,
	})
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)

	assert.Equal(t, 1, st.writeCalls)
	assert.Equal(t, len(outcome.Result.Assignments), outcome.Written)
}

func TestAssignWeek_DryRunDoesNotWrite(t *testing.T) {
	st := &fakeStore{data: feasibleWeekData()}

	outcome, err := AssignWeek(context.Background(), st, zap.NewNop(), Options{
		WeekStart:        mon(9),
		DryRun:           true,
		TimeLimitSeconds: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, st.writeCalls)
	assert.Equal(t, 0, outcome.Written)
}

func TestAssignWeek_ClearProposedInvokesStore(t *testing.T) {
	st := &fakeStore{data: feasibleWeekData(), clearedReturn: 3}

	_, err := AssignWeek(context.Background(), st, zap.NewNop(), Options{
		WeekStart:        mon(9),
		ClearProposed:    true,
		TimeLimitSeconds: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, st.clearedCalls)
}
