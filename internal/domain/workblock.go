package domain

import "time"

// BlockType distinguishes medical work blocks from system-created administrative ones.
type BlockType string

const (
	BlockMedicalClinic    BlockType = "CLINIC"
	BlockMedicalReception BlockType = "RECEPTION"
	BlockMedicalSurgery   BlockType = "SURGERY"
	BlockAdmin            BlockType = "ADMIN"
)

func (b BlockType) IsMedical() bool {
	return b != BlockAdmin
}

// WorkBlock is a (date, period, department, site, type) unit of staffing.
type WorkBlock struct {
	ID           int
	Date         time.Time
	Period       Period
	DepartmentID int
	Department   string
	SiteID       int
	Site         string
	Type         BlockType
}

// AvailabilitySlot is a half-day a secretary is free to be placed in.
type AvailabilitySlot struct {
	SecretaryID int
	Date        time.Time
	Period      Period
}

// ExistingAssignment is a non-cancelled assignment a human already persisted.
// It removes its (secretary, date, period) slot from the model entirely.
type ExistingAssignment struct {
	BlockID     int
	SecretaryID int
	RoleID      int
	Date        time.Time
	Period      Period
}

// DoctorActivity is a DOCTOR-type assignment consumed only by the surgery
// linkage post-processing step.
type DoctorActivity struct {
	AssignmentID int
	BlockID      int
	StaffID      int
	ActivityID   int
	SkillID      int
}

// PreferenceTarget identifies what a staff preference row applies to.
type PreferenceTarget string

const (
	TargetSite       PreferenceTarget = "SITE"
	TargetDepartment PreferenceTarget = "DEPARTMENT"
	TargetStaff      PreferenceTarget = "STAFF"
)

// PreferenceKind is whether the preference is positive or an avoidance.
type PreferenceKind string

const (
	Prefere PreferenceKind = "PREFERE"
	Eviter  PreferenceKind = "EVITER"
)

// StaffPreference is a raw preference row, carried through to reporting so
// EVITER violations can be named by what they violate.
type StaffPreference struct {
	SecretaryID    int
	TargetType     PreferenceTarget
	TargetSiteID   int
	TargetDeptID   int
	TargetStaffID  int
	Preference     PreferenceKind
}
