package planner

import (
	"fmt"
	"time"
)

// WeekLayout is the format of week identifiers: the date of the week's Monday.
const WeekLayout = "2006-01-02"

// WeekStart returns midnight UTC of the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// GetNextMonday returns the Monday of the week following t.
func GetNextMonday(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7)
}

// ParseWeek parses a week identifier and normalizes it to the Monday of
// that week.
func ParseWeek(s string) (time.Time, error) {
	t, err := time.Parse(WeekLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q, expected YYYY-MM-DD: %w", s, err)
	}
	return WeekStart(t), nil
}

// FormatWeek returns the identifier of the week containing t.
func FormatWeek(t time.Time) string {
	return WeekStart(t).Format(WeekLayout)
}
