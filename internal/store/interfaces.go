// Package store defines the boundary between the solver core and the
// relational database: the set of views and tables it reads, and the four
// write operations it performs.
package store

import (
	"context"
	"time"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

// WeekData is everything the Loader pulls for one week, per the boundary
// contract: availability, eligibility, needs, existing assignments, doctor
// activities, and reference data for reporting.
type WeekData struct {
	Availability        []domain.AvailabilitySlot
	Eligibility         []domain.EligibilityRow
	Needs               []domain.Need
	ExistingAssignments []domain.ExistingAssignment
	DoctorActivities    []domain.DoctorActivity

	Secretaries      []domain.Secretary
	AllSecretaries   []domain.Secretary // includes those with no availability this week
	Roles            []domain.RoleHardship
	Departments      []Department
	Sites            []Site
	Preferences      []domain.StaffPreference
	SecretariesWithSkills map[int]bool

	AdminDepartmentID int
	Holidays          map[time.Time]bool
}

// Department is reference data joined with its site, used only for reporting.
type Department struct {
	ID     int
	Name   string
	SiteID int
	Site   string
}

// Site is reference data, used only for reporting.
type Site struct {
	ID   int
	Name string
}

// Loader is the read side of the storage boundary: the views and tables
// enumerated in the data loader contract.
type Loader interface {
	LoadWeekData(ctx context.Context, weekStart time.Time) (*WeekData, error)
}

// AdminBlockWriter creates the system-owned ADMIN work blocks for a week.
type AdminBlockWriter interface {
	// CreateAdminBlocks inserts one ADMIN work_block per eligible half-day
	// that does not already exist, and returns every ADMIN block (existing
	// and newly created) for the week.
	CreateAdminBlocks(ctx context.Context, weekStart time.Time, adminDepartmentID int) ([]domain.WorkBlock, error)
}

// AssignmentWriter is the write side of the storage boundary for secretary
// assignments.
type AssignmentWriter interface {
	// ClearProposedAssignments deletes non-MANUAL secretary assignments for
	// the week, returning the number of rows removed. MANUAL assignments and
	// doctor assignments are never touched.
	ClearProposedAssignments(ctx context.Context, weekStart time.Time) (int, error)

	// WriteAssignments upserts the solved assignments in one batch, with
	// source=ALGORITHM and status=PROPOSED.
	WriteAssignments(ctx context.Context, assignments []domain.Assignment) (int, error)
}

// Store is the full storage boundary used by the orchestration service.
type Store interface {
	Loader
	AdminBlockWriter
	AssignmentWriter
}
