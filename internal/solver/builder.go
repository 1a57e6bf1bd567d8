// Package solver builds and solves the weekly CP-SAT assignment model: one
// boolean variable per (secretary, need) candidate pair, one boolean
// variable per (flexible secretary, day) working-day choice, a hard
// constraint set covering slot exclusivity, flexibility targets and
// reception continuity, and a weighted objective balancing fill rate,
// skill/preference quality, site continuity, workload and hardship.
package solver

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/needindex"
	"github.com/jakechorley/secretary-assign/internal/store"
)

type staffSlotKey struct {
	SecretaryID int
	Date        time.Time
	Period      domain.Period
}

type existingSlotKey = staffSlotKey

func dayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// availabilityMap is secretary -> day -> period -> available.
type availabilityMap map[int]map[time.Time]map[domain.Period]bool

func buildAvailabilityMap(slots []domain.AvailabilitySlot) availabilityMap {
	m := availabilityMap{}
	for _, s := range slots {
		d := dayKey(s.Date)
		byDay, ok := m[s.SecretaryID]
		if !ok {
			byDay = map[time.Time]map[domain.Period]bool{}
			m[s.SecretaryID] = byDay
		}
		periods, ok := byDay[d]
		if !ok {
			periods = map[domain.Period]bool{}
			byDay[d] = periods
		}
		periods[s.Period] = true
	}
	return m
}

func weekDatesFrom(slots []domain.AvailabilitySlot) []time.Time {
	seen := map[time.Time]bool{}
	for _, s := range slots {
		seen[dayKey(s.Date)] = true
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// buildContext carries every derived index the builder stages need, so the
// constraint and objective passes don't each re-derive them.
type buildContext struct {
	cfg Config

	idx  *needindex.Index
	data *store.WeekData

	availability availabilityMap
	weekDates    []time.Time
	existing     map[existingSlotKey]bool
	roleWeight   map[int]int

	x map[XKey]cpmodel.BoolVar
	y map[YKey]cpmodel.BoolVar

	eligibleByNeed  map[int][]int
	needsByStaffSlot map[staffSlotKey][]int

	skillScore   map[XKey]int
	prefereScore map[XKey]int
	// eviterVars is deliberately not deduplicated: a candidate that violates
	// more than one avoidance preference at once contributes its x variable
	// to this slice once per violated preference, so it counts that many
	// times toward the secretary's penibilite load.
	eviterVars map[int][]XKey

	objective []weightedTerm
}

// Build stages the full CP-SAT model for one week and returns it together
// with every index needed to extract a solution.
func Build(data *store.WeekData, idx *needindex.Index, cfg Config) (*Built, error) {
	bc := &buildContext{
		cfg:              cfg,
		idx:              idx,
		data:             data,
		availability:     buildAvailabilityMap(data.Availability),
		weekDates:        weekDatesFrom(data.Availability),
		existing:         map[existingSlotKey]bool{},
		roleWeight:       map[int]int{},
		x:                map[XKey]cpmodel.BoolVar{},
		y:                map[YKey]cpmodel.BoolVar{},
		eligibleByNeed:   map[int][]int{},
		needsByStaffSlot: map[staffSlotKey][]int{},
		skillScore:       map[XKey]int{},
		prefereScore:     map[XKey]int{},
		eviterVars:       map[int][]XKey{},
	}

	for _, ea := range data.ExistingAssignments {
		bc.existing[existingSlotKey{ea.SecretaryID, dayKey(ea.Date), ea.Period}] = true
	}
	for _, r := range data.Roles {
		bc.roleWeight[r.RoleID] = r.HardshipWeight
	}

	model := cpmodel.NewCpModelBuilder()

	bc.createMedicalVars(model)
	bc.createAdminVars(model)
	bc.createFlexibilityVars(model)

	bc.addSlotExclusivity(model)
	bc.addGapCaps(model)
	bc.addFlexibleCoupling(model)
	bc.addFlexibilityTargets(model)
	bc.addNonFlexibleFullDayCoupling(model)
	bc.addMandatoryPlacement(model)
	bc.addReceptionContinuity(model)

	bc.addFillAndPreferenceObjective()
	bc.addSiteContinuityObjective(model)
	bc.addPenibiliteObjective(model)
	bc.addAdminObjective(model)
	bc.addWorkloadBalanceObjective(model)

	model.Maximize(weightedSumExpr(bc.objective))

	return &Built{
		model:          model,
		X:              bc.x,
		Y:              bc.y,
		Needs:          idx.Needs,
		AdminOffset:    idx.AdminOffset,
		EligibleByNeed: bc.eligibleByNeed,
	}, nil
}

func (bc *buildContext) registerCandidate(model *cpmodel.CpModelBuilder, secretaryID, ni int, date time.Time, period domain.Period) (XKey, bool) {
	key := XKey{SecretaryID: secretaryID, NeedIndex: ni}
	if _, ok := bc.x[key]; ok {
		return key, false
	}
	var_ := model.NewBoolVar().WithName(xVarName(secretaryID, ni))
	bc.x[key] = var_
	bc.eligibleByNeed[ni] = append(bc.eligibleByNeed[ni], secretaryID)
	slotKey := staffSlotKey{SecretaryID: secretaryID, Date: dayKey(date), Period: period}
	bc.needsByStaffSlot[slotKey] = append(bc.needsByStaffSlot[slotKey], ni)
	return key, true
}

func (bc *buildContext) createMedicalVars(model *cpmodel.CpModelBuilder) {
	for _, e := range bc.data.Eligibility {
		ni := bc.idx.Lookup(needindex.Key{BlockID: e.BlockID, SkillID: e.SkillID, RoleID: e.RoleID})
		if ni < 0 || ni >= bc.idx.AdminOffset {
			continue
		}
		need := bc.idx.Needs[ni]
		if bc.existing[existingSlotKey{e.SecretaryID, dayKey(need.Date), need.Period}] {
			continue
		}

		key, created := bc.registerCandidate(model, e.SecretaryID, ni, need.Date, need.Period)
		if !created {
			continue
		}

		bc.skillScore[key] = e.SkillScore
		bc.prefereScore[key] = e.PreferenceScore()

		if e.EviterSiteScore < 0 {
			bc.eviterVars[e.SecretaryID] = append(bc.eviterVars[e.SecretaryID], key)
		}
		if e.EviterDeptScore < 0 {
			bc.eviterVars[e.SecretaryID] = append(bc.eviterVars[e.SecretaryID], key)
		}
		if e.EviterStaffScore < 0 {
			bc.eviterVars[e.SecretaryID] = append(bc.eviterVars[e.SecretaryID], key)
		}
	}
}

func (bc *buildContext) createAdminVars(model *cpmodel.CpModelBuilder) {
	for ni := bc.idx.AdminOffset; ni < len(bc.idx.Needs); ni++ {
		need := bc.idx.Needs[ni]
		d := dayKey(need.Date)
		for secretaryID, byDay := range bc.availability {
			if !byDay[d][need.Period] {
				continue
			}
			if bc.existing[existingSlotKey{secretaryID, d, need.Period}] {
				continue
			}
			bc.registerCandidate(model, secretaryID, ni, need.Date, need.Period)
		}
	}
}

func (bc *buildContext) createFlexibilityVars(model *cpmodel.CpModelBuilder) {
	for _, sec := range bc.data.Secretaries {
		if !sec.IsFlexible {
			continue
		}
		for _, d := range bc.weekDates {
			periods := bc.availability[sec.ID][d]
			var eligible bool
			if sec.FullDayOnly {
				eligible = periods[domain.AM] && periods[domain.PM]
			} else {
				eligible = periods[domain.AM] || periods[domain.PM]
			}
			if !eligible {
				continue
			}
			bc.y[YKey{SecretaryID: sec.ID, Date: d}] = model.NewBoolVar().WithName(yVarName(sec.ID, d))
		}
	}
}

// --- Constraints ---

func (bc *buildContext) addSlotExclusivity(model *cpmodel.CpModelBuilder) {
	for slot, nis := range bc.needsByStaffSlot {
		if len(nis) < 2 {
			continue
		}
		vars := make([]cpmodel.BoolVar, 0, len(nis))
		for _, ni := range nis {
			vars = append(vars, bc.x[XKey{SecretaryID: slot.SecretaryID, NeedIndex: ni}])
		}
		model.AddAtMostOne(vars...)
	}
}

func (bc *buildContext) addGapCaps(model *cpmodel.CpModelBuilder) {
	for ni, need := range bc.idx.Needs {
		eligible := bc.eligibleByNeed[ni]
		if len(eligible) == 0 {
			continue
		}
		vars := bc.xVarsFor(eligible, ni)
		model.AddLessOrEqual(sumExpr(vars), cpmodel.NewConstant(int64(need.Gap)))
	}
}

func (bc *buildContext) xVarsFor(secretaryIDs []int, ni int) []cpmodel.BoolVar {
	vars := make([]cpmodel.BoolVar, 0, len(secretaryIDs))
	for _, sid := range secretaryIDs {
		vars = append(vars, bc.x[XKey{SecretaryID: sid, NeedIndex: ni}])
	}
	return vars
}

func (bc *buildContext) slotVars(secretaryID int, d time.Time, period domain.Period) []cpmodel.BoolVar {
	nis := bc.needsByStaffSlot[staffSlotKey{SecretaryID: secretaryID, Date: d, Period: period}]
	vars := make([]cpmodel.BoolVar, 0, len(nis))
	for _, ni := range nis {
		vars = append(vars, bc.x[XKey{SecretaryID: secretaryID, NeedIndex: ni}])
	}
	return vars
}

func (bc *buildContext) addFlexibleCoupling(model *cpmodel.CpModelBuilder) {
	for _, sec := range bc.data.Secretaries {
		if !sec.IsFlexible {
			continue
		}
		for _, d := range bc.weekDates {
			yVar, ok := bc.y[YKey{SecretaryID: sec.ID, Date: d}]
			if !ok {
				continue
			}
			am := bc.slotVars(sec.ID, d, domain.AM)
			pm := bc.slotVars(sec.ID, d, domain.PM)
			if sec.FullDayOnly {
				addEquality(model, sumExpr(am), yVar)
				addEquality(model, sumExpr(pm), yVar)
			} else {
				combined := weightedSumExpr(append(terms1(am), terms1(pm)...))
				addGreaterOrEqual(model, combined, yVar)
				twiceY := weightedSumExpr([]weightedTerm{{Var: yVar, Coeff: 2}})
				model.AddLessOrEqual(combined, twiceY)
			}
		}
	}
}

func (bc *buildContext) addFlexibilityTargets(model *cpmodel.CpModelBuilder) {
	for _, sec := range bc.data.Secretaries {
		if !sec.IsFlexible {
			continue
		}
		var availableDays []time.Time
		for _, d := range bc.weekDates {
			if _, ok := bc.y[YKey{SecretaryID: sec.ID, Date: d}]; ok {
				availableDays = append(availableDays, d)
			}
		}
		if len(availableDays) == 0 {
			continue
		}
		target := int(roundHalfAwayFromZero(float64(len(availableDays)) * sec.FlexibilityPct))
		yVars := make([]cpmodel.BoolVar, 0, len(availableDays))
		for _, d := range availableDays {
			yVars = append(yVars, bc.y[YKey{SecretaryID: sec.ID, Date: d}])
		}
		addEquality(model, sumExpr(yVars), cpmodel.NewConstant(int64(target)))
	}
}

func (bc *buildContext) addNonFlexibleFullDayCoupling(model *cpmodel.CpModelBuilder) {
	for _, sec := range bc.data.Secretaries {
		if sec.IsFlexible || !sec.FullDayOnly {
			continue
		}
		for _, d := range bc.weekDates {
			am := bc.slotVars(sec.ID, d, domain.AM)
			pm := bc.slotVars(sec.ID, d, domain.PM)
			switch {
			case len(am) > 0 && len(pm) > 0:
				addEquality(model, sumExpr(am), sumExpr(pm))
			case len(am) > 0:
				addEquality(model, sumExpr(am), cpmodel.NewConstant(0))
			case len(pm) > 0:
				addEquality(model, sumExpr(pm), cpmodel.NewConstant(0))
			}
		}
	}
}

func (bc *buildContext) addMandatoryPlacement(model *cpmodel.CpModelBuilder) {
	for _, sec := range bc.data.Secretaries {
		for _, d := range bc.weekDates {
			for _, period := range []domain.Period{domain.AM, domain.PM} {
				if !bc.availability[sec.ID][d][period] {
					continue
				}
				if bc.existing[existingSlotKey{sec.ID, d, period}] {
					continue
				}
				slotVars := bc.slotVars(sec.ID, d, period)
				if len(slotVars) == 0 {
					continue
				}
				if sec.IsFlexible {
					if yVar, ok := bc.y[YKey{SecretaryID: sec.ID, Date: d}]; ok {
						addEquality(model, sumExpr(slotVars), yVar)
					}
					continue
				}
				// Non-flexible, available, unoccupied half-day: exactly one
				// candidate fills it. AddExactlyOne is the direct CP-SAT
				// primitive for this over a plain bool-var list.
				model.AddExactlyOne(slotVars...)
			}
		}
	}
}

type deptRoleDayKey struct {
	Date   time.Time
	DeptID int
	RoleID int
}

func (bc *buildContext) addReceptionContinuity(model *cpmodel.CpModelBuilder) {
	byDeptRoleDay := map[deptRoleDayKey]map[domain.Period][]int{}
	for ni := 0; ni < bc.idx.AdminOffset; ni++ {
		need := bc.idx.Needs[ni]
		if !domain.IsReceptionRole(need.RoleID) {
			continue
		}
		k := deptRoleDayKey{Date: dayKey(need.Date), DeptID: need.DepartmentID, RoleID: need.RoleID}
		if byDeptRoleDay[k] == nil {
			byDeptRoleDay[k] = map[domain.Period][]int{}
		}
		byDeptRoleDay[k][need.Period] = append(byDeptRoleDay[k][need.Period], ni)
	}

	for _, periods := range byDeptRoleDay {
		amNeeds := periods[domain.AM]
		pmNeeds := periods[domain.PM]
		if len(amNeeds) == 0 || len(pmNeeds) == 0 {
			continue
		}

		amEligible := map[int]bool{}
		for _, ni := range amNeeds {
			for _, sid := range bc.eligibleByNeed[ni] {
				amEligible[sid] = true
			}
		}
		pmEligible := map[int]bool{}
		for _, ni := range pmNeeds {
			for _, sid := range bc.eligibleByNeed[ni] {
				pmEligible[sid] = true
			}
		}

		for sid := range amEligible {
			amVars := bc.xVarsForSubset(sid, amNeeds)
			if !pmEligible[sid] {
				if len(amVars) > 0 {
					addEquality(model, sumExpr(amVars), cpmodel.NewConstant(0))
				}
				continue
			}
			pmVars := bc.xVarsForSubset(sid, pmNeeds)
			if len(amVars) > 0 && len(pmVars) > 0 {
				addEquality(model, sumExpr(amVars), sumExpr(pmVars))
			}
		}
		for sid := range pmEligible {
			if amEligible[sid] {
				continue
			}
			pmVars := bc.xVarsForSubset(sid, pmNeeds)
			if len(pmVars) > 0 {
				addEquality(model, sumExpr(pmVars), cpmodel.NewConstant(0))
			}
		}
	}
}

func (bc *buildContext) xVarsForSubset(secretaryID int, nis []int) []cpmodel.BoolVar {
	var vars []cpmodel.BoolVar
	for _, ni := range nis {
		if v, ok := bc.x[XKey{SecretaryID: secretaryID, NeedIndex: ni}]; ok {
			vars = append(vars, v)
		}
	}
	return vars
}

func terms1(vars []cpmodel.BoolVar) []weightedTerm {
	terms := make([]weightedTerm, 0, len(vars))
	for _, v := range vars {
		terms = append(terms, weightedTerm{Var: v, Coeff: 1})
	}
	return terms
}

func roundHalfAwayFromZero(f float64) float64 {
	if f < 0 {
		return -roundHalfAwayFromZero(-f)
	}
	i := float64(int64(f))
	if f-i >= 0.5 {
		return i + 1
	}
	return i
}

func xVarName(secretaryID, ni int) string {
	return "x_" + strconv.Itoa(secretaryID) + "_" + strconv.Itoa(ni)
}

func yVarName(secretaryID int, d time.Time) string {
	return "y_" + strconv.Itoa(secretaryID) + "_" + d.Format("2006-01-02")
}
