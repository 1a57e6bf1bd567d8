// Package report renders the console summary and HTML week view produced
// after a solve: per-secretary counts, pénibilité, preference violations,
// site-continuity stats and unfilled needs. Neither output affects
// correctness; both are read-only views over a solver.Result.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/postprocess"
	"github.com/jakechorley/secretary-assign/internal/solver"
	"github.com/jakechorley/secretary-assign/internal/store"
)

// secretaryRow is the per-secretary line of the "Par secrétaire" table.
type secretaryRow struct {
	Name        string
	Medical     int
	Admin       int
	Target      int
	Total       int
	Penibilite  int
	StatusParts []string
}

// eviterViolation names one EVITER preference an assignment ran afoul of.
type eviterViolation struct {
	Name   string
	Target string
	Date   string
	Period domain.Period
}

// Console writes the plain-text summary report to w, mirroring the fields
// and section order of the original assignment tool's console report.
func Console(w io.Writer, data *store.WeekData, result *solver.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "  Assignation Secrétaires")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Solver: %s en %.1fs\n", result.Status, result.WallTime.Seconds())
	if result.Objective != nil {
		fmt.Fprintf(w, "Objectif: %.0f\n", *result.Objective)
	}

	medical, admin := splitByType(result.Assignments)

	totalMedicalNeeds := 0
	for _, n := range data.Needs {
		if n.Type == domain.NeedMedical {
			totalMedicalNeeds += n.Gap
		}
	}
	unfilledCount := 0
	for _, u := range result.Unfilled {
		unfilledCount += u.Remaining
	}

	fmt.Fprintf(w, "\nBesoins médicaux: %d total | %d remplis | %d non remplis\n",
		totalMedicalNeeds, len(medical), unfilledCount)
	fmt.Fprintf(w, "Assignations admin: %d\n", len(admin))
	fmt.Fprintf(w, "Total assignations: %d\n", len(medical)+len(admin))

	roleWeight := map[int]int{}
	for _, r := range data.Roles {
		roleWeight[r.RoleID] = r.HardshipWeight
	}

	rows, eviterViolations := buildSecretaryRows(data, result, medical, admin, roleWeight)

	fmt.Fprintln(w, "\n--- Par secrétaire ---")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Nom\tMéd\tAdmin\tCible\tTotal\tPénib\tStatus")
	for _, r := range rows {
		target := "-"
		if r.Target > 0 {
			target = fmt.Sprintf("%d", r.Target)
		}
		status := ""
		for i, p := range r.StatusParts {
			if i > 0 {
				status += ", "
			}
			status += p
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%d\t%s\n", r.Name, r.Medical, r.Admin, target, r.Total, r.Penibilite, status)
	}
	tw.Flush()

	sameSite, crossSite, medicalPlusAdmin := siteContinuityStats(medical, admin)
	fmt.Fprintln(w, "\n--- Continuité site ---")
	fmt.Fprintf(w, "  Même site AM/PM: %d jours\n", sameSite)
	fmt.Fprintf(w, "  Changement site: %d jours\n", crossSite)
	fmt.Fprintf(w, "  Médical + admin: %d jours\n", medicalPlusAdmin)

	if len(result.Unfilled) > 0 {
		fmt.Fprintf(w, "\n--- Besoins non remplis (%d) ---\n", len(result.Unfilled))
		unfilled := append([]domain.UnfilledNeed{}, result.Unfilled...)
		sort.Slice(unfilled, func(i, j int) bool {
			if !unfilled[i].Date.Equal(unfilled[j].Date) {
				return unfilled[i].Date.Before(unfilled[j].Date)
			}
			return unfilled[i].Period < unfilled[j].Period
		})
		for _, u := range unfilled {
			role := u.RoleName
			if role == "" {
				role = "-"
			}
			fmt.Fprintf(w, "  Block %5d  %s %s  %-20s %-15s %-10s reste=%d  (%d éligibles)\n",
				u.BlockID, u.Date.Format("2006-01-02"), u.Period, u.Department, u.SkillName, role,
				u.Remaining, u.EligibleCount)
		}
	}

	if len(eviterViolations) > 0 {
		fmt.Fprintf(w, "\n--- Violations EVITER (%d) ---\n", len(eviterViolations))
		sort.Slice(eviterViolations, func(i, j int) bool {
			if eviterViolations[i].Date != eviterViolations[j].Date {
				return eviterViolations[i].Date < eviterViolations[j].Date
			}
			return eviterViolations[i].Period < eviterViolations[j].Period
		})
		for _, v := range eviterViolations {
			fmt.Fprintf(w, "  %s -> %s (%s %s)\n", v.Name, v.Target, v.Date, v.Period)
		}
	}

	var noSkills []domain.Secretary
	for _, s := range data.Secretaries {
		if !data.SecretariesWithSkills[s.ID] {
			noSkills = append(noSkills, s)
		}
	}
	if len(noSkills) > 0 {
		fmt.Fprintf(w, "\n--- Secrétaires sans skills (%d) ---\n", len(noSkills))
		for _, s := range noSkills {
			fmt.Fprintf(w, "  %s (id=%d)\n", s.FullName(), s.ID)
		}
	}

	fmt.Fprintln(w)
}

// Verbose additionally prints the eligibility-tier breakdown of unfilled
// needs, the diagnostic this tool's debug-unfilled companion produced.
func Verbose(w io.Writer, result *solver.Result) {
	groups := postprocess.Diagnostics(result.Unfilled)
	fmt.Fprintln(w, "--- Diagnostic besoins non remplis ---")
	for _, tier := range []postprocess.EligibilityTier{
		postprocess.TierZeroEligible,
		postprocess.TierFewEligible,
		postprocess.TierManyEligible,
	} {
		needs := groups[tier]
		if len(needs) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s: %d besoin(s)\n", tier, len(needs))
	}
}

func splitByType(assignments []domain.Assignment) (medical, admin []domain.Assignment) {
	for _, a := range assignments {
		if a.Type == domain.NeedMedical {
			medical = append(medical, a)
		} else {
			admin = append(admin, a)
		}
	}
	return medical, admin
}

func buildSecretaryRows(data *store.WeekData, result *solver.Result, medical, admin []domain.Assignment, roleWeight map[int]int) ([]secretaryRow, []eviterViolation) {
	const eviterWeight = 3 // must match solver.EviterWeight

	medicalByStaff := map[int]int{}
	adminByStaff := map[int]int{}
	hardshipByStaff := map[int]int{}
	for _, a := range medical {
		medicalByStaff[a.SecretaryID]++
		hardshipByStaff[a.SecretaryID] += roleWeight[a.RoleID]
	}
	for _, a := range admin {
		adminByStaff[a.SecretaryID]++
	}

	siteNames := map[int]string{}
	for _, s := range data.Sites {
		siteNames[s.ID] = s.Name
	}
	deptNames := map[int]string{}
	for _, d := range data.Departments {
		deptNames[d.ID] = d.Name
	}
	needByBlock := map[int]domain.Need{}
	for _, n := range data.Needs {
		needByBlock[n.BlockID] = n
	}

	eviterPrefs := map[int][]domain.StaffPreference{}
	for _, p := range data.Preferences {
		if p.Preference == domain.Eviter {
			eviterPrefs[p.SecretaryID] = append(eviterPrefs[p.SecretaryID], p)
		}
	}

	secretaries := map[int]domain.Secretary{}
	for _, s := range data.Secretaries {
		secretaries[s.ID] = s
	}

	eviterByStaff := map[int]int{}
	var violations []eviterViolation
	for _, a := range medical {
		need := needByBlock[a.BlockID]
		for _, p := range eviterPrefs[a.SecretaryID] {
			violated := false
			targetName := ""
			switch {
			case p.TargetType == domain.TargetSite && p.TargetSiteID != 0 && p.TargetSiteID == need.SiteID:
				violated = true
				targetName = siteNames[p.TargetSiteID]
			case p.TargetType == domain.TargetDepartment && p.TargetDeptID != 0 && p.TargetDeptID == need.DepartmentID:
				violated = true
				targetName = deptNames[p.TargetDeptID]
			}
			if violated {
				eviterByStaff[a.SecretaryID]++
				violations = append(violations, eviterViolation{
					Name:   secretaries[a.SecretaryID].FullName(),
					Target: targetName,
					Date:   a.Date.Format("2006-01-02"),
					Period: a.Period,
				})
			}
		}
	}

	availDays := availableDaysBySecretary(data)

	sorted := append([]domain.Secretary{}, data.Secretaries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LastName < sorted[j].LastName })

	var rows []secretaryRow
	for _, sec := range sorted {
		med := medicalByStaff[sec.ID]
		adm := adminByStaff[sec.ID]
		penibilite := hardshipByStaff[sec.ID] + eviterByStaff[sec.ID]*eviterWeight

		var statusParts []string
		if sec.IsFlexible {
			statusParts = append(statusParts, fmt.Sprintf("Flex: %d/%dj", len(result.FlexibleDays[sec.ID]), availDays[sec.ID]))
		}
		if sec.AdminTarget > 0 {
			if adm >= sec.AdminTarget {
				statusParts = append(statusParts, "Admin OK")
			} else {
				statusParts = append(statusParts, fmt.Sprintf("Admin %d/%d !", adm, sec.AdminTarget))
			}
		}
		if eviterByStaff[sec.ID] > 0 {
			statusParts = append(statusParts, fmt.Sprintf("EVITER x%d", eviterByStaff[sec.ID]))
		}

		rows = append(rows, secretaryRow{
			Name:        sec.FullName(),
			Medical:     med,
			Admin:       adm,
			Target:      sec.AdminTarget,
			Total:       med + adm,
			Penibilite:  penibilite,
			StatusParts: statusParts,
		})
	}
	return rows, violations
}

func availableDaysBySecretary(data *store.WeekData) map[int]int {
	seen := map[int]map[string]bool{}
	for _, a := range data.Availability {
		if seen[a.SecretaryID] == nil {
			seen[a.SecretaryID] = map[string]bool{}
		}
		seen[a.SecretaryID][a.Date.Format("2006-01-02")] = true
	}
	counts := map[int]int{}
	for sid, days := range seen {
		counts[sid] = len(days)
	}
	return counts
}

func siteContinuityStats(medical, admin []domain.Assignment) (same, cross, medicalPlusAdmin int) {
	type daySites struct {
		sites   map[int]bool
		periods map[domain.Period]bool
	}
	bySecDay := map[int]map[string]*daySites{}
	adminDay := map[int]map[string]bool{}

	for _, a := range medical {
		d := a.Date.Format("2006-01-02")
		if bySecDay[a.SecretaryID] == nil {
			bySecDay[a.SecretaryID] = map[string]*daySites{}
		}
		ds, ok := bySecDay[a.SecretaryID][d]
		if !ok {
			ds = &daySites{sites: map[int]bool{}, periods: map[domain.Period]bool{}}
			bySecDay[a.SecretaryID][d] = ds
		}
		ds.sites[a.SiteID] = true
		ds.periods[a.Period] = true
	}
	for _, a := range admin {
		d := a.Date.Format("2006-01-02")
		if adminDay[a.SecretaryID] == nil {
			adminDay[a.SecretaryID] = map[string]bool{}
		}
		adminDay[a.SecretaryID][d] = true
	}

	for sid, days := range bySecDay {
		for d, ds := range days {
			if ds.periods[domain.AM] && ds.periods[domain.PM] {
				if len(ds.sites) == 1 {
					same++
				} else {
					cross++
				}
			}
			if adminDay[sid][d] {
				medicalPlusAdmin++
			}
		}
	}
	return same, cross, medicalPlusAdmin
}
