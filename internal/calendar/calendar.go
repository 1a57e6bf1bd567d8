// Package calendar enumerates the half-days eligible for system-created
// ADMIN work blocks within a week.
package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

// AdminWeekdays returns every date in [weekStart, weekStart+6] that is not a
// Sunday, as a recurrence rule rather than a hand-rolled weekday loop.
// Holiday dates must be subtracted by the caller, since holidays are an
// external calendar concept this package has no knowledge of.
func AdminWeekdays(weekStart time.Time) ([]time.Time, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA},
		Dtstart:   weekStart,
		Until:     weekEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build admin weekday rule: %w", err)
	}

	return rule.Between(weekStart, weekEnd, true), nil
}

// AdminHalfDays expands each admin weekday into its AM and PM slots, skipping
// any date present in holidays.
func AdminHalfDays(weekStart time.Time, holidays map[time.Time]bool) ([]struct {
	Date   time.Time
	Period domain.Period
}, error) {
	days, err := AdminWeekdays(weekStart)
	if err != nil {
		return nil, err
	}

	var slots []struct {
		Date   time.Time
		Period domain.Period
	}
	for _, d := range days {
		if holidays[d] {
			continue
		}
		slots = append(slots,
			struct {
				Date   time.Time
				Period domain.Period
			}{d, domain.AM},
			struct {
				Date   time.Time
				Period domain.Period
			}{d, domain.PM},
		)
	}
	return slots, nil
}

// IsMonday reports whether t falls on a Monday, ignoring time-of-day.
func IsMonday(t time.Time) bool {
	return t.Weekday() == time.Monday
}
