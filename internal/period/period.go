// Package period handles calendar-month bucket math and pt-BR period naming.
package period

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthKey returns the "2026-03" style key for the month containing date.
func MonthKey(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}

// ParseMonthKey parses a "2026-03" key into the first day of that month.
// Returns ok=false for malformed keys.
func ParseMonthKey(key string) (time.Time, bool) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
}

// Name returns the localized display name for the month, e.g. "Março/2026".
func Name(date time.Time) string {
	return fmt.Sprintf("%s/%d", monthNames[date.Month()-1], date.Year())
}

// StartOfMonth returns the first day of date's month.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of date's month.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// AddMonths moves the cursor by delta calendar months, pinned to day 1 so
// month-length differences cannot skip a month.
func AddMonths(date time.Time, delta int) time.Time {
	return StartOfMonth(date).AddDate(0, delta, 0)
}
