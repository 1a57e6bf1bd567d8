package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/secretary-assign/internal/calendar"
	"github.com/jakechorley/secretary-assign/internal/domain"
)

// CreateAdminBlocks inserts one ADMIN work_block per (weekday, period) of the
// week that does not already exist, skipping Sundays and holidays, then
// returns every ADMIN block for the week (existing and newly created).
// Idempotent: a second call for the same week inserts nothing new.
func (db *DB) CreateAdminBlocks(ctx context.Context, weekStart time.Time, adminDepartmentID int) ([]domain.WorkBlock, error) {
	holidays, err := db.holidaysForWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	slots, err := calendar.AdminHalfDays(weekStart, holidays)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate admin half-days: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin admin block transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, slot := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO work_blocks (id_department, date, period, block_type)
			SELECT $1, $2, $3, 'ADMIN'
			WHERE NOT EXISTS (
				SELECT 1 FROM work_blocks wb
				WHERE wb.block_type = 'ADMIN' AND wb.date = $2 AND wb.period = $3
			)`, adminDepartmentID, slot.Date, string(slot.Period))
		if err != nil {
			return nil, fmt.Errorf("failed to insert admin block for %s %s: %w", slot.Date.Format("2006-01-02"), slot.Period, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit admin block transaction: %w", err)
	}

	return db.loadAdminBlocks(ctx, weekStart)
}

func (db *DB) loadAdminBlocks(ctx context.Context, weekStart time.Time) ([]domain.WorkBlock, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	rows, err := db.pool.Query(ctx, `
		SELECT id_block, date, period, id_department
		FROM work_blocks
		WHERE block_type = 'ADMIN' AND date BETWEEN $1 AND $2`, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.WorkBlock
	for rows.Next() {
		var b domain.WorkBlock
		var period string
		if err := rows.Scan(&b.ID, &b.Date, &period, &b.DepartmentID); err != nil {
			return nil, fmt.Errorf("failed to scan admin block row: %w", err)
		}
		b.Period = domain.Period(period)
		b.Type = domain.BlockAdmin
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (db *DB) holidaysForWeek(ctx context.Context, weekStart time.Time) (map[time.Time]bool, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	rows, err := db.pool.Query(ctx, `
		SELECT date FROM calendar WHERE date BETWEEN $1 AND $2 AND is_holiday`, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := map[time.Time]bool{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan holiday date: %w", err)
		}
		holidays[d] = true
	}
	return holidays, rows.Err()
}
