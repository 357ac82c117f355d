package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/fieldplan/internal/constants"
)

// Dates in fieldplan are calendar days without a time-of-day component. They
// are normalized to midnight UTC so that day arithmetic never crosses a DST
// boundary.

// Civil strips the time-of-day and location from t, keeping its calendar date.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return Civil(t), nil
}

// ParseMonth parses a month string (YYYY-MM) and returns the first day of that month.
func ParseMonth(monthStr string) (time.Time, error) {
	t, err := time.Parse(constants.MonthFormat, monthStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", monthStr, err)
	}
	return Civil(t), nil
}

// DateKey formats a date as its stable comparison key (YYYY-MM-DD).
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// FirstOfMonth returns the first day of the month containing t.
func FirstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// LastOfMonth returns the last day of the month containing t.
func LastOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	// Day 0 of the following month normalizes to the last day of this one
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return LastOfMonth(t).Day()
}

// AddDays adds n calendar days to t.
func AddDays(t time.Time, n int) time.Time {
	return Civil(t).AddDate(0, 0, n)
}

// AddMonths shifts t by n calendar months, keeping the day of month when the
// target month has it and clamping to the target month's last day otherwise.
// time.AddDate would instead overflow Jan 31 + 1 month into March.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Civil(b).Sub(Civil(a)).Hours() / 24)
}

// ValidateDateFormat checks if the string matches the standard date format.
func ValidateDateFormat(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}
