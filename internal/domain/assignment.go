package domain

import "time"

// AssignmentSource records who or what produced an assignment.
type AssignmentSource string

const (
	SourceManual    AssignmentSource = "MANUAL"
	SourceSchedule  AssignmentSource = "SCHEDULE"
	SourceAlgorithm AssignmentSource = "ALGORITHM"
)

// AssignmentStatus is the lifecycle state of a persisted assignment.
type AssignmentStatus string

const (
	StatusProposed    AssignmentStatus = "PROPOSED"
	StatusCancelled   AssignmentStatus = "CANCELLED"
	StatusInvalidated AssignmentStatus = "INVALIDATED"
)

// Assignment is a solved (secretary, need) placement, ready to persist or
// report. LinkedDoctorAssignmentID is populated only for surgery placements
// by the post-processor, never during the solve itself.
type Assignment struct {
	BlockID                   int
	SecretaryID               int
	RoleID                    int
	SkillID                   int
	Date                      time.Time
	Period                    Period
	Type                      NeedType
	BlockType                 BlockType
	DepartmentID              int
	Department                string
	SiteID                    int
	Site                      string
	LinkedDoctorAssignmentID  *int
	Source                    AssignmentSource
	Status                    AssignmentStatus
}

// UnfilledNeed is a need whose filled count fell short of its gap.
type UnfilledNeed struct {
	BlockID        int
	Date           time.Time
	Period         Period
	Department     string
	SkillName      string
	RoleName       string
	Gap            int
	Filled         int
	Remaining      int
	EligibleCount  int
}
