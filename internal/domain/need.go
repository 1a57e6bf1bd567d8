package domain

import "time"

// NeedType distinguishes a medical staffing gap from an administrative
// overflow slot.
type NeedType string

const (
	NeedMedical NeedType = "MEDICAL"
	NeedAdmin   NeedType = "ADMIN"
)

// Need is a request for secretary coverage within a block, keyed by
// (block, skill-or-null, role). Gap is the still-needed count after
// already-persisted assignments are discounted.
type Need struct {
	BlockID      int
	Date         time.Time
	Period       Period
	DepartmentID int
	Department   string
	SiteID       int
	Site         string
	BlockType    BlockType
	SkillID      int // zero means no skill required (admin needs)
	SkillName    string
	RoleID       int
	RoleName     string
	Gap          int
	Type         NeedType
}

// HasSkill reports whether this need carries a required skill.
func (n Need) HasSkill() bool {
	return n.SkillID != 0
}

// EligibilityRow is a precomputed (secretary, need) pair with additive,
// decomposed score components. The solver never recomputes these; it only
// sums them.
type EligibilityRow struct {
	SecretaryID int
	BlockID     int
	SkillID     int
	RoleID      int

	SkillScore int

	PrefereSiteScore  int
	PrefereDeptScore  int
	PrefereStaffScore int

	EviterSiteScore  int
	EviterDeptScore  int
	EviterStaffScore int
}

// PreferenceScore is the sum of the positive preference components.
func (e EligibilityRow) PreferenceScore() int {
	return e.PrefereSiteScore + e.PrefereDeptScore + e.PrefereStaffScore
}

// ViolatesAvoidance reports whether any eviter_* component is negative,
// meaning this placement would violate an expressed avoidance preference.
func (e EligibilityRow) ViolatesAvoidance() bool {
	return e.EviterSiteScore < 0 || e.EviterDeptScore < 0 || e.EviterStaffScore < 0
}
