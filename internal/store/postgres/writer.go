package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

// ClearProposedAssignments deletes SCHEDULE and ALGORITHM secretary
// assignments for the week, preserving MANUAL and never touching doctor
// assignments.
func (db *DB) ClearProposedAssignments(ctx context.Context, weekStart time.Time) (int, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	tag, err := db.pool.Exec(ctx, `
		DELETE FROM assignments
		WHERE assignment_type = 'SECRETARY'
		  AND source IN ('SCHEDULE', 'ALGORITHM')
		  AND id_block IN (
		    SELECT id_block FROM work_blocks WHERE date BETWEEN $1 AND $2
		  )`, weekStart, weekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to clear proposed assignments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// WriteAssignments batch-upserts the solved assignments with
// source=ALGORITHM, status=PROPOSED, using (id_block, id_staff) as the
// conflict target (see migrations/0001_assignment_upsert_target.sql).
func (db *DB) WriteAssignments(ctx context.Context, assignments []domain.Assignment) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	var placeholders []string
	args := make([]any, 0, len(assignments)*5)
	for i, a := range assignments {
		base := i*5 + 1
		placeholders = append(placeholders, fmt.Sprintf(
			"($%d, $%d, 'SECRETARY', $%d, $%d, $%d, 'ALGORITHM', 'PROPOSED')",
			base, base+1, base+2, base+3, base+4))

		roleID := a.RoleID
		if roleID == 0 {
			roleID = domain.StandardRoleID
		}
		var skillID *int
		if a.SkillID != 0 {
			v := a.SkillID
			skillID = &v
		}
		args = append(args, a.BlockID, a.SecretaryID, roleID, skillID, a.LinkedDoctorAssignmentID)
	}

	sql := "INSERT INTO assignments (id_block, id_staff, assignment_type, id_role, id_skill, id_linked_doctor, source, status) " +
		"VALUES " + strings.Join(placeholders, ", ") + " " +
		"ON CONFLICT (id_block, id_staff) DO UPDATE SET " +
		"id_role = EXCLUDED.id_role, id_skill = EXCLUDED.id_skill, " +
		"id_linked_doctor = EXCLUDED.id_linked_doctor, " +
		"source = EXCLUDED.source, status = EXCLUDED.status"

	tag, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to write assignments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
