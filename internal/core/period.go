package core

import (
	"fmt"
	"time"
)

const periodLayout = "2006-01"

// PeriodKey returns the "YYYY-MM" key of t's calendar year and month.
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// MonthStart is the first day of the month that is offset months away from
// the month of t. Offset may be negative.
func MonthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}

// PreviousPeriodKey is the key of the first day of the month before now.
func PreviousPeriodKey(now time.Time) string {
	return PeriodKey(MonthStart(now, -1))
}

// ParsePeriod validates a "YYYY-MM" key and returns the first day of that month.
func ParsePeriod(key string) (time.Time, error) {
	t, err := time.Parse(periodLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, key)
	}
	return t, nil
}

// RecentPeriods lists n period keys ending at the month of now, newest first.
func RecentPeriods(now time.Time, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, PeriodKey(MonthStart(now, -i)))
	}
	return out
}
