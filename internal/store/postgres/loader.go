package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/store"
)

// LoadWeekData pulls every row the boundary contract names for one Monday-to-Sunday week.
func (db *DB) LoadWeekData(ctx context.Context, weekStart time.Time) (*store.WeekData, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	data := &store.WeekData{SecretariesWithSkills: map[int]bool{}, Holidays: map[time.Time]bool{}}

	if err := db.loadAvailability(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}
	if err := db.loadEligibility(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}
	if err := db.loadSecretaries(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}
	if err := db.loadNeeds(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}
	if err := db.loadExistingAssignments(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}
	if err := db.loadReferenceData(ctx, data); err != nil {
		return nil, err
	}
	if err := db.loadPreferences(ctx, data); err != nil {
		return nil, err
	}
	if err := db.loadDoctorActivities(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}
	if err := db.loadAdminDepartment(ctx, data); err != nil {
		return nil, err
	}
	if err := db.loadAllSecretaries(ctx, data); err != nil {
		return nil, err
	}
	if err := db.loadSkills(ctx, data); err != nil {
		return nil, err
	}
	if err := db.loadHolidays(ctx, weekStart, weekEnd, data); err != nil {
		return nil, err
	}

	return data, nil
}

func (db *DB) loadAvailability(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT id_staff, date, period
		FROM v_secretary_availability
		WHERE date BETWEEN $1 AND $2
		ORDER BY id_staff, date, period`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query v_secretary_availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.AvailabilitySlot
		var period string
		if err := rows.Scan(&s.SecretaryID, &s.Date, &period); err != nil {
			return fmt.Errorf("failed to scan availability row: %w", err)
		}
		s.Period = domain.Period(period)
		data.Availability = append(data.Availability, s)
	}
	return rows.Err()
}

func (db *DB) loadEligibility(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT id_staff, id_block, id_skill, id_role,
		       skill_score, prefere_site_score, prefere_dept_score, prefere_staff_score,
		       eviter_site_score, eviter_dept_score, eviter_staff_score
		FROM v_secretary_eligibility
		WHERE date BETWEEN $1 AND $2
		ORDER BY id_staff, date, period`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query v_secretary_eligibility: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.EligibilityRow
		var skillID, roleID *int
		if err := rows.Scan(&e.SecretaryID, &e.BlockID, &skillID, &roleID,
			&e.SkillScore, &e.PrefereSiteScore, &e.PrefereDeptScore, &e.PrefereStaffScore,
			&e.EviterSiteScore, &e.EviterDeptScore, &e.EviterStaffScore); err != nil {
			return fmt.Errorf("failed to scan eligibility row: %w", err)
		}
		if skillID != nil {
			e.SkillID = *skillID
		}
		if roleID != nil {
			e.RoleID = *roleID
		}
		data.Eligibility = append(data.Eligibility, e)
	}
	return rows.Err()
}

func (db *DB) loadSecretaries(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT DISTINCT id_staff, lastname, firstname,
		       is_flexible, flexibility_pct, full_day_only, admin_target
		FROM v_secretary_availability
		WHERE date BETWEEN $1 AND $2
		ORDER BY lastname`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query distinct secretaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Secretary
		if err := rows.Scan(&s.ID, &s.LastName, &s.FirstName,
			&s.IsFlexible, &s.FlexibilityPct, &s.FullDayOnly, &s.AdminTarget); err != nil {
			return fmt.Errorf("failed to scan secretary row: %w", err)
		}
		data.Secretaries = append(data.Secretaries, s)
	}
	return rows.Err()
}

func (db *DB) loadNeeds(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT sn.id_block, sn.date, sn.period, sn.block_type,
		       sn.department, sn.site, sn.skill_name, sn.role_name,
		       sn.id_skill, sn.id_role, sn.gap,
		       wb.id_department, d.id_site
		FROM v_staffing_needs sn
		JOIN work_blocks wb ON sn.id_block = wb.id_block
		JOIN departments d ON wb.id_department = d.id_department
		WHERE sn.date BETWEEN $1 AND $2 AND sn.gap > 0`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query v_staffing_needs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n domain.Need
		var period, blockType string
		var skillID, roleID *int
		var skillName, roleName *string
		if err := rows.Scan(&n.BlockID, &n.Date, &period, &blockType,
			&n.Department, &n.Site, &skillName, &roleName,
			&skillID, &roleID, &n.Gap, &n.DepartmentID, &n.SiteID); err != nil {
			return fmt.Errorf("failed to scan need row: %w", err)
		}
		n.Period = domain.Period(period)
		n.BlockType = domain.BlockType(blockType)
		if skillID != nil {
			n.SkillID = *skillID
		}
		if skillName != nil {
			n.SkillName = *skillName
		}
		if roleID != nil {
			n.RoleID = *roleID
		} else {
			n.RoleID = domain.StandardRoleID
		}
		if roleName != nil {
			n.RoleName = *roleName
		}
		n.Type = domain.NeedMedical
		if n.SkillID == 0 {
			n.Type = domain.NeedAdmin
		}
		data.Needs = append(data.Needs, n)
	}
	return rows.Err()
}

func (db *DB) loadExistingAssignments(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT a.id_block, a.id_staff, a.id_role, wb.date, wb.period
		FROM assignments a
		JOIN work_blocks wb ON a.id_block = wb.id_block
		WHERE a.assignment_type = 'SECRETARY'
		  AND a.source = 'MANUAL'
		  AND a.status NOT IN ('CANCELLED', 'INVALIDATED')
		  AND wb.date BETWEEN $1 AND $2`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query existing manual assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.ExistingAssignment
		var period string
		var roleID *int
		if err := rows.Scan(&a.BlockID, &a.SecretaryID, &roleID, &a.Date, &period); err != nil {
			return fmt.Errorf("failed to scan existing assignment row: %w", err)
		}
		if roleID != nil {
			a.RoleID = *roleID
		}
		a.Period = domain.Period(period)
		data.ExistingAssignments = append(data.ExistingAssignments, a)
	}
	return rows.Err()
}

func (db *DB) loadReferenceData(ctx context.Context, data *store.WeekData) error {
	deptRows, err := db.pool.Query(ctx, `
		SELECT d.id_department, d.name, d.id_site, si.name
		FROM departments d JOIN sites si ON d.id_site = si.id_site`)
	if err != nil {
		return fmt.Errorf("failed to query departments: %w", err)
	}
	defer deptRows.Close()
	for deptRows.Next() {
		var d store.Department
		if err := deptRows.Scan(&d.ID, &d.Name, &d.SiteID, &d.Site); err != nil {
			return fmt.Errorf("failed to scan department row: %w", err)
		}
		data.Departments = append(data.Departments, d)
	}
	if err := deptRows.Err(); err != nil {
		return err
	}

	siteRows, err := db.pool.Query(ctx, `SELECT id_site, name FROM sites ORDER BY id_site`)
	if err != nil {
		return fmt.Errorf("failed to query sites: %w", err)
	}
	defer siteRows.Close()
	for siteRows.Next() {
		var s store.Site
		if err := siteRows.Scan(&s.ID, &s.Name); err != nil {
			return fmt.Errorf("failed to scan site row: %w", err)
		}
		data.Sites = append(data.Sites, s)
	}
	if err := siteRows.Err(); err != nil {
		return err
	}

	roleRows, err := db.pool.Query(ctx, `SELECT id_role, name, hardship_weight FROM secretary_roles ORDER BY id_role`)
	if err != nil {
		return fmt.Errorf("failed to query secretary_roles: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var r domain.RoleHardship
		if err := roleRows.Scan(&r.RoleID, &r.RoleName, &r.HardshipWeight); err != nil {
			return fmt.Errorf("failed to scan role row: %w", err)
		}
		data.Roles = append(data.Roles, r)
	}
	return roleRows.Err()
}

func (db *DB) loadPreferences(ctx context.Context, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT sp.id_staff, sp.target_type, sp.id_site, sp.id_department, sp.id_target_staff, sp.preference
		FROM staff_preferences sp
		JOIN staff s ON sp.id_staff = s.id_staff
		WHERE s.id_primary_position = 2 AND s.is_active = true`)
	if err != nil {
		return fmt.Errorf("failed to query staff_preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.StaffPreference
		var targetType, preference string
		var siteID, deptID, targetStaffID *int
		if err := rows.Scan(&p.SecretaryID, &targetType, &siteID, &deptID, &targetStaffID, &preference); err != nil {
			return fmt.Errorf("failed to scan preference row: %w", err)
		}
		p.TargetType = domain.PreferenceTarget(targetType)
		p.Preference = domain.PreferenceKind(preference)
		if siteID != nil {
			p.TargetSiteID = *siteID
		}
		if deptID != nil {
			p.TargetDeptID = *deptID
		}
		if targetStaffID != nil {
			p.TargetStaffID = *targetStaffID
		}
		data.Preferences = append(data.Preferences, p)
	}
	return rows.Err()
}

func (db *DB) loadDoctorActivities(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT a.id_assignment, a.id_block, a.id_staff, a.id_activity, ar.id_skill
		FROM assignments a
		JOIN activity_requirements ar ON ar.id_activity = a.id_activity
		JOIN work_blocks wb ON a.id_block = wb.id_block
		WHERE a.assignment_type = 'DOCTOR'
		  AND a.status NOT IN ('CANCELLED', 'INVALIDATED')
		  AND a.id_activity IS NOT NULL
		  AND wb.date BETWEEN $1 AND $2`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query doctor activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.DoctorActivity
		if err := rows.Scan(&d.AssignmentID, &d.BlockID, &d.StaffID, &d.ActivityID, &d.SkillID); err != nil {
			return fmt.Errorf("failed to scan doctor activity row: %w", err)
		}
		data.DoctorActivities = append(data.DoctorActivities, d)
	}
	return rows.Err()
}

func (db *DB) loadAdminDepartment(ctx context.Context, data *store.WeekData) error {
	row := db.pool.QueryRow(ctx, `SELECT id_department FROM departments WHERE name = 'Administration' LIMIT 1`)
	var id int
	if err := row.Scan(&id); err != nil {
		data.AdminDepartmentID = 0
		return nil
	}
	data.AdminDepartmentID = id
	return nil
}

func (db *DB) loadAllSecretaries(ctx context.Context, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT id_staff, lastname, firstname
		FROM staff
		WHERE id_primary_position = 2 AND is_active = true
		ORDER BY lastname`)
	if err != nil {
		return fmt.Errorf("failed to query all secretaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Secretary
		if err := rows.Scan(&s.ID, &s.LastName, &s.FirstName); err != nil {
			return fmt.Errorf("failed to scan all-secretaries row: %w", err)
		}
		data.AllSecretaries = append(data.AllSecretaries, s)
	}
	return rows.Err()
}

func (db *DB) loadSkills(ctx context.Context, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT ss.id_staff
		FROM staff_skills ss
		JOIN staff s ON ss.id_staff = s.id_staff
		WHERE s.id_primary_position = 2 AND s.is_active = true`)
	if err != nil {
		return fmt.Errorf("failed to query staff_skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan staff_skills row: %w", err)
		}
		data.SecretariesWithSkills[id] = true
	}
	return rows.Err()
}

func (db *DB) loadHolidays(ctx context.Context, weekStart, weekEnd time.Time, data *store.WeekData) error {
	rows, err := db.pool.Query(ctx, `
		SELECT date FROM calendar WHERE date BETWEEN $1 AND $2 AND is_holiday`, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to query calendar holidays: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return fmt.Errorf("failed to scan holiday row: %w", err)
		}
		data.Holidays[d] = true
	}
	return rows.Err()
}
