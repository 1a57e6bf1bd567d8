// Package needindex canonicalizes medical and administrative needs into one
// indexed collection keyed by (block, skill, role), and tracks the eligible
// candidates for each.
package needindex

import (
	"time"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

// Key identifies a need by the same tuple the original eligibility and
// staffing-gap views key on.
type Key struct {
	BlockID int
	SkillID int
	RoleID  int
}

// Slot identifies a secretary's half-day, the unit availability is tracked in.
type Slot struct {
	Date   time.Time
	Period domain.Period
}

// Index is the canonical, ordered collection of needs for one week. Medical
// needs are inserted first; AdminOffset marks where administrative needs
// begin.
type Index struct {
	Needs       []domain.Need
	AdminOffset int
	byKey       map[Key]int // Key -> index into Needs
	Eligible    map[int][]int // need index -> eligible secretary ids
}

// Build indexes needs (medical first, admin after) and populates the
// eligible-candidate lists: from eligibility rows for medical needs, and
// from the availability map for admin needs (any secretary available on
// that half-day is an admin candidate).
func Build(needs []domain.Need, eligibility []domain.EligibilityRow, availability map[int]map[Slot]bool) *Index {
	idx := &Index{
		byKey:    map[Key]int{},
		Eligible: map[int][]int{},
	}

	var medical, admin []domain.Need
	for _, n := range needs {
		if n.Type == domain.NeedMedical {
			medical = append(medical, n)
		} else {
			admin = append(admin, n)
		}
	}

	for _, n := range medical {
		idx.add(n)
	}
	idx.AdminOffset = len(idx.Needs)
	for _, n := range admin {
		idx.add(n)
	}

	eligByNeed := map[Key][]int{}
	for _, e := range eligibility {
		k := Key{BlockID: e.BlockID, SkillID: e.SkillID, RoleID: e.RoleID}
		eligByNeed[k] = append(eligByNeed[k], e.SecretaryID)
	}

	for ni, n := range idx.Needs {
		k := Key{BlockID: n.BlockID, SkillID: n.SkillID, RoleID: n.RoleID}
		if n.Type == domain.NeedMedical {
			idx.Eligible[ni] = eligByNeed[k]
			continue
		}
		// Admin needs: every secretary available on that half-day is a candidate.
		for secretaryID, days := range availability {
			if days[Slot{Date: n.Date, Period: n.Period}] {
				idx.Eligible[ni] = append(idx.Eligible[ni], secretaryID)
			}
		}
	}

	return idx
}

func (idx *Index) add(n domain.Need) {
	k := Key{BlockID: n.BlockID, SkillID: n.SkillID, RoleID: n.RoleID}
	if existing, ok := idx.byKey[k]; ok {
		// Duplicate between the eligibility view and a raw staffing-gap row
		// for the same need: keep the first, larger gap wins defensively.
		if n.Gap > idx.Needs[existing].Gap {
			idx.Needs[existing].Gap = n.Gap
		}
		return
	}
	idx.byKey[k] = len(idx.Needs)
	idx.Needs = append(idx.Needs, n)
}

// Lookup returns the need index for a key, or -1 if absent.
func (idx *Index) Lookup(k Key) int {
	if ni, ok := idx.byKey[k]; ok {
		return ni
	}
	return -1
}

// IsMedical reports whether need index ni is in the medical partition.
func (idx *Index) IsMedical(ni int) bool {
	return ni < idx.AdminOffset
}
