package solver

import (
	"strconv"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

// addFillAndPreferenceObjective scores every medical placement by a flat
// fill bonus plus its decomposed skill and preference components (O1, O2, O6).
func (bc *buildContext) addFillAndPreferenceObjective() {
	for ni := 0; ni < bc.idx.AdminOffset; ni++ {
		for _, sid := range bc.eligibleByNeed[ni] {
			key := XKey{SecretaryID: sid, NeedIndex: ni}
			v, ok := bc.x[key]
			if !ok {
				continue
			}
			score := FillBonus + bc.skillScore[key]*SkillMult + bc.prefereScore[key]*PrefereMult
			bc.objective = append(bc.objective, weightedTerm{Var: v, Coeff: int64(score)})
		}
	}
}

type dateSitePeriodKey struct {
	Date   time.Time
	SiteID int
	Period domain.Period
}

// addSiteContinuityObjective rewards a secretary staying at one site across
// both halves of a day and penalizes crossing sites (O3). Each auxiliary
// boolean is linearized from the AND of the per-site AM/PM load sums via the
// standard three-inequality pattern: aux <= A, aux <= B, aux >= A+B-1.
func (bc *buildContext) addSiteContinuityObjective(model *cpmodel.CpModelBuilder) {
	needsBySlot := map[dateSitePeriodKey][]int{}
	for ni := 0; ni < bc.idx.AdminOffset; ni++ {
		need := bc.idx.Needs[ni]
		k := dateSitePeriodKey{Date: dayKey(need.Date), SiteID: need.SiteID, Period: need.Period}
		needsBySlot[k] = append(needsBySlot[k], ni)
	}

	for _, sec := range bc.data.Secretaries {
		for _, d := range bc.weekDates {
			amBySite := map[int][]cpmodel.BoolVar{}
			pmBySite := map[int][]cpmodel.BoolVar{}
			for _, site := range bc.data.Sites {
				amNis := needsBySlot[dateSitePeriodKey{Date: d, SiteID: site.ID, Period: domain.AM}]
				pmNis := needsBySlot[dateSitePeriodKey{Date: d, SiteID: site.ID, Period: domain.PM}]
				if vars := bc.xVarsForSubset(sec.ID, amNis); len(vars) > 0 {
					amBySite[site.ID] = vars
				}
				if vars := bc.xVarsForSubset(sec.ID, pmNis); len(vars) > 0 {
					pmBySite[site.ID] = vars
				}
			}
			if len(amBySite) == 0 || len(pmBySite) == 0 {
				continue
			}

			for siteID, amVars := range amBySite {
				pmVars, ok := pmBySite[siteID]
				if !ok {
					continue
				}
				both := model.NewBoolVar().WithName("same_" + yVarName(sec.ID, d))
				bc.linkAnd(model, both, amVars, pmVars)
				bc.objective = append(bc.objective, weightedTerm{Var: both, Coeff: SiteSameBonus})
			}

			for siteA, amVars := range amBySite {
				for siteB, pmVars := range pmBySite {
					if siteA == siteB {
						continue
					}
					cross := model.NewBoolVar().WithName("cross_" + yVarName(sec.ID, d))
					bc.linkAnd(model, cross, amVars, pmVars)
					bc.objective = append(bc.objective, weightedTerm{Var: cross, Coeff: SiteCrossPenalty})
				}
			}
		}
	}
}

// linkAnd posts aux <= sum(a), aux <= sum(b), aux >= sum(a)+sum(b)-1, the
// standard linearization of aux == (sum(a) >= 1) AND (sum(b) >= 1) for
// disjoint boolean sums.
func (bc *buildContext) linkAnd(model *cpmodel.CpModelBuilder, aux cpmodel.BoolVar, a, b []cpmodel.BoolVar) {
	aExpr := sumExpr(a)
	bExpr := sumExpr(b)
	model.AddLessOrEqual(aux, aExpr)
	model.AddLessOrEqual(aux, bExpr)

	combined := append(append([]weightedTerm{}, terms1(a)...), terms1(b)...)
	combined = append(combined, weightedTerm{Var: aux, Coeff: -1})
	model.AddLessOrEqual(weightedSumExpr(combined), cpmodel.NewConstant(1))
}

// addPenibiliteObjective minimizes each secretary's deviation from the
// average combined hardship load (role hardship weight plus EVITER
// violations, each weighted EviterWeight) (O4).
func (bc *buildContext) addPenibiliteObjective(model *cpmodel.CpModelBuilder) {
	loadTerms := map[int][]weightedTerm{}
	for _, sec := range bc.data.Secretaries {
		var terms []weightedTerm
		for ni := 0; ni < bc.idx.AdminOffset; ni++ {
			v, ok := bc.x[XKey{SecretaryID: sec.ID, NeedIndex: ni}]
			if !ok {
				continue
			}
			w := bc.roleWeight[bc.idx.Needs[ni].RoleID]
			if w > 0 {
				terms = append(terms, weightedTerm{Var: v, Coeff: int64(w)})
			}
		}
		for _, key := range bc.eviterVars[sec.ID] {
			terms = append(terms, weightedTerm{Var: bc.x[key], Coeff: EviterWeight})
		}
		if len(terms) > 0 {
			loadTerms[sec.ID] = terms
		}
	}
	if len(loadTerms) == 0 {
		return
	}

	totalHardship := 0
	for ni := 0; ni < bc.idx.AdminOffset; ni++ {
		need := bc.idx.Needs[ni]
		totalHardship += need.Gap * bc.roleWeight[need.RoleID]
	}
	avg := totalHardship / maxInt(len(loadTerms), 1)

	for sid, terms := range loadTerms {
		bc.addDeviationPenalty(model, "pen_dev_"+strconv.Itoa(sid), terms, avg, 0, 50, PenibiliteDevPenalty)
	}
}

// addDeviationPenalty creates a bounded integer deviation variable equal to
// |sum(terms) - target|, posts both half-constraints, and adds
// coeff*deviation to the objective.
func (bc *buildContext) addDeviationPenalty(model *cpmodel.CpModelBuilder, name string, terms []weightedTerm, target, lb, ub int, coeff int64) {
	deviation := model.NewIntVar(int64(lb), int64(ub)).WithName(name)

	lower := append(append([]weightedTerm{}, terms...), weightedTerm{Var: deviation, Coeff: -1})
	model.AddLessOrEqual(weightedSumExpr(lower), cpmodel.NewConstant(int64(target)))

	upper := append(append([]weightedTerm{}, terms...), weightedTerm{Var: deviation, Coeff: 1})
	model.AddLessOrEqual(cpmodel.NewConstant(int64(target)), weightedSumExpr(upper))

	bc.objective = append(bc.objective, weightedTerm{Var: deviation, Coeff: coeff})
}

// addAdminObjective rewards admin fill (O7) and penalizes falling short of a
// secretary's admin target (O8).
func (bc *buildContext) addAdminObjective(model *cpmodel.CpModelBuilder) {
	for ni := bc.idx.AdminOffset; ni < len(bc.idx.Needs); ni++ {
		for _, sid := range bc.eligibleByNeed[ni] {
			if v, ok := bc.x[XKey{SecretaryID: sid, NeedIndex: ni}]; ok {
				bc.objective = append(bc.objective, weightedTerm{Var: v, Coeff: AdminFillBonus})
			}
		}
	}

	for _, sec := range bc.data.Secretaries {
		if sec.AdminTarget <= 0 {
			continue
		}
		var terms []weightedTerm
		for ni := bc.idx.AdminOffset; ni < len(bc.idx.Needs); ni++ {
			if v, ok := bc.x[XKey{SecretaryID: sec.ID, NeedIndex: ni}]; ok {
				terms = append(terms, weightedTerm{Var: v, Coeff: 1})
			}
		}
		if len(terms) == 0 {
			continue
		}
		// Deficit only: clamp the lower half at zero by giving it range
		// [0, target] instead of a symmetric band, matching the one-sided
		// admin_deficit variable it mirrors.
		deviation := model.NewIntVar(0, int64(sec.AdminTarget)).WithName("admin_def_" + strconv.Itoa(sec.ID))
		upper := append(append([]weightedTerm{}, terms...), weightedTerm{Var: deviation, Coeff: 1})
		model.AddLessOrEqual(cpmodel.NewConstant(int64(sec.AdminTarget)), weightedSumExpr(upper))
		bc.objective = append(bc.objective, weightedTerm{Var: deviation, Coeff: AdminTargetPenalty})
	}
}

// addWorkloadBalanceObjective minimizes each secretary's deviation from the
// average medical workload (O9). Admin placements are included only when
// configured to, per the workload-balance scope decision.
func (bc *buildContext) addWorkloadBalanceObjective(model *cpmodel.CpModelBuilder) {
	loadTerms := map[int][]weightedTerm{}
	upperBound := bc.idx.AdminOffset
	if bc.cfg.IncludeAdminInWorkloadBalance {
		upperBound = len(bc.idx.Needs)
	}

	for _, sec := range bc.data.Secretaries {
		var terms []weightedTerm
		for ni := 0; ni < upperBound; ni++ {
			if v, ok := bc.x[XKey{SecretaryID: sec.ID, NeedIndex: ni}]; ok {
				terms = append(terms, weightedTerm{Var: v, Coeff: 1})
			}
		}
		if len(terms) > 0 {
			loadTerms[sec.ID] = terms
		}
	}
	if len(loadTerms) == 0 {
		return
	}

	total := 0
	for ni := 0; ni < upperBound; ni++ {
		total += bc.idx.Needs[ni].Gap
	}
	avg := total / maxInt(len(loadTerms), 1)

	for sid, terms := range loadTerms {
		bc.addDeviationPenalty(model, "wl_dev_"+strconv.Itoa(sid), terms, avg, 0, 20, WorkloadDevPenalty)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
