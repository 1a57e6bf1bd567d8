package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/secretary-assign/internal/domain"
)

func monday(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAdminWeekdays_ExcludesSunday(t *testing.T) {
	weekStart := monday(2026, 2, 9) // Monday

	days, err := AdminWeekdays(weekStart)
	assert.NoError(t, err)
	assert.Len(t, days, 6) // Mon-Sat

	for _, d := range days {
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestAdminHalfDays_SkipsHolidays(t *testing.T) {
	weekStart := monday(2026, 2, 9)
	holiday := monday(2026, 2, 11) // Wednesday

	slots, err := AdminHalfDays(weekStart, map[time.Time]bool{holiday: true})
	assert.NoError(t, err)

	// 6 admin weekdays * 2 periods - 1 holiday day * 2 periods = 10
	assert.Len(t, slots, 10)

	for _, s := range slots {
		assert.False(t, s.Date.Equal(holiday), "holiday date should be excluded")
		assert.True(t, s.Period == domain.AM || s.Period == domain.PM)
	}
}

func TestAdminHalfDays_NoHolidays(t *testing.T) {
	weekStart := monday(2026, 2, 9)

	slots, err := AdminHalfDays(weekStart, nil)
	assert.NoError(t, err)
	assert.Len(t, slots, 12) // 6 days * 2 periods
}

func TestIsMonday(t *testing.T) {
	assert.True(t, IsMonday(monday(2026, 2, 9)))
	assert.False(t, IsMonday(monday(2026, 2, 9).AddDate(0, 0, 1)))
}
