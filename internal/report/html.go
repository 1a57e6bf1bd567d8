package report

import (
	"html/template"
	"io"
	"sort"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/store"
)

// weekCell is one secretary placement shown in the HTML week view.
type weekCell struct {
	SecretaryName string
	RoleName      string
	RoleBadge     string // CSS class selecting the role's badge color
	SkillName     string
}

type halfDayGroup struct {
	Date   string
	Period domain.Period
	Cells  []weekCell
}

type deptGroup struct {
	Department string
	HalfDays   []halfDayGroup
}

type siteGroup struct {
	Site  string
	Depts []deptGroup
}

var weekViewTemplate = template.Must(template.New("week").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Semaine du {{.WeekStart}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.2rem; margin-top: 2rem; border-bottom: 1px solid #ccc; }
h3 { font-size: 1rem; margin-top: 1rem; }
.half-day { margin-bottom: 0.5rem; }
.half-day-label { font-weight: bold; }
.badge { display: inline-block; padding: 0.1rem 0.5rem; border-radius: 0.3rem; margin-right: 0.3rem; color: #fff; font-size: 0.85rem; }
.badge-standard { background: #6c757d; }
.badge-reception { background: #0d6efd; }
.badge-closure { background: #dc3545; }
.badge-other { background: #20c997; }
</style>
</head>
<body>
<h1>Semaine du {{.WeekStart}} au {{.WeekEnd}}</h1>
{{range .Sites}}
<h2>{{.Site}}</h2>
{{range .Depts}}
<h3>{{.Department}}</h3>
{{range .HalfDays}}
<div class="half-day">
<span class="half-day-label">{{.Date}} {{.Period}}</span>:
{{range .Cells}}<span class="badge {{.RoleBadge}}">{{.SecretaryName}}{{if .SkillName}} ({{.SkillName}}){{end}}</span>{{end}}
</div>
{{end}}
{{end}}
{{end}}
</body>
</html>
`))

type weekViewData struct {
	WeekStart string
	WeekEnd   string
	Sites     []siteGroup
}

// WriteHTMLWeekView renders the week's assignments grouped site ->
// department -> half-day, with color-coded role badges, mirroring the
// original tool's weekly visual report.
func WriteHTMLWeekView(w io.Writer, data *store.WeekData, assignments []domain.Assignment, weekStart, weekEnd string) error {
	secretaries := map[int]domain.Secretary{}
	for _, s := range data.Secretaries {
		secretaries[s.ID] = s
	}
	roleNames := map[int]string{}
	for _, r := range data.Roles {
		roleNames[r.RoleID] = r.RoleName
	}
	needByBlock := map[int]domain.Need{}
	for _, n := range data.Needs {
		needByBlock[n.BlockID] = n
	}

	type key struct {
		Site   string
		Dept   string
		Date   string
		Period domain.Period
	}
	cellsByKey := map[key][]weekCell{}
	var keys []key

	for _, a := range assignments {
		need := needByBlock[a.BlockID]
		site := a.Site
		if site == "" {
			site = need.Site
		}
		dept := a.Department
		if dept == "" {
			dept = need.Department
		}
		k := key{Site: site, Dept: dept, Date: a.Date.Format("2006-01-02"), Period: a.Period}
		if _, ok := cellsByKey[k]; !ok {
			keys = append(keys, k)
		}
		cellsByKey[k] = append(cellsByKey[k], weekCell{
			SecretaryName: secretaries[a.SecretaryID].FullName(),
			RoleName:      roleNames[a.RoleID],
			RoleBadge:     roleBadgeClass(a.RoleID),
			SkillName:     need.SkillName,
		})
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Site != keys[j].Site {
			return keys[i].Site < keys[j].Site
		}
		if keys[i].Dept != keys[j].Dept {
			return keys[i].Dept < keys[j].Dept
		}
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].Period < keys[j].Period
	})

	sitesOrder := []string{}
	siteIdx := map[string]int{}
	deptIdx := map[string]int{}
	var sites []siteGroup

	for _, k := range keys {
		si, ok := siteIdx[k.Site]
		if !ok {
			sites = append(sites, siteGroup{Site: k.Site})
			si = len(sites) - 1
			siteIdx[k.Site] = si
			sitesOrder = append(sitesOrder, k.Site)
		}
		dk := k.Site + "\x00" + k.Dept
		di, ok := deptIdx[dk]
		if !ok {
			sites[si].Depts = append(sites[si].Depts, deptGroup{Department: k.Dept})
			di = len(sites[si].Depts) - 1
			deptIdx[dk] = di
		}
		sites[si].Depts[di].HalfDays = append(sites[si].Depts[di].HalfDays, halfDayGroup{
			Date:   k.Date,
			Period: k.Period,
			Cells:  cellsByKey[k],
		})
	}

	return weekViewTemplate.Execute(w, weekViewData{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Sites:     sites,
	})
}

func roleBadgeClass(roleID int) string {
	switch {
	case roleID == domain.StandardRoleID:
		return "badge-standard"
	case domain.IsReceptionRole(roleID):
		return "badge-reception"
	case roleID == 0:
		return "badge-other"
	default:
		return "badge-closure"
	}
}
