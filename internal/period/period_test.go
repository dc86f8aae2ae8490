package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(date(2026, time.March, 15)); got != "2026-03" {
		t.Errorf("MonthKey = %q, want 2026-03", got)
	}
}

func TestParseMonthKey(t *testing.T) {
	got, ok := ParseMonthKey("2026-03")
	if !ok {
		t.Fatal("ParseMonthKey(2026-03) not ok")
	}
	if want := date(2026, time.March, 1); !got.Equal(want) {
		t.Errorf("ParseMonthKey = %v, want %v", got, want)
	}

	if _, ok := ParseMonthKey("março"); ok {
		t.Error("ParseMonthKey(março) should fail")
	}
	if _, ok := ParseMonthKey(""); ok {
		t.Error("ParseMonthKey(empty) should fail")
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2026, time.March, 10), "Março/2026"},
		{date(2025, time.January, 1), "Janeiro/2025"},
		{date(2025, time.December, 31), "Dezembro/2025"},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStartAndEndOfMonth(t *testing.T) {
	if got := StartOfMonth(date(2026, time.February, 20)); !got.Equal(date(2026, time.February, 1)) {
		t.Errorf("StartOfMonth = %v", got)
	}
	if got := EndOfMonth(date(2026, time.February, 20)); !got.Equal(date(2026, time.February, 28)) {
		t.Errorf("EndOfMonth = %v", got)
	}
	if got := EndOfMonth(date(2024, time.February, 1)); !got.Equal(date(2024, time.February, 29)) {
		t.Errorf("EndOfMonth leap = %v", got)
	}
}

func TestAddMonths(t *testing.T) {
	// Day-of-month must not leak into the arithmetic: moving from Jan 31
	// lands on Feb 1, not Mar 2.
	if got := AddMonths(date(2026, time.January, 31), 1); !got.Equal(date(2026, time.February, 1)) {
		t.Errorf("AddMonths(+1) = %v", got)
	}
	if got := AddMonths(date(2026, time.January, 15), -1); !got.Equal(date(2025, time.December, 1)) {
		t.Errorf("AddMonths(-1) = %v", got)
	}
	if got := AddMonths(date(2025, time.December, 1), 1); !got.Equal(date(2026, time.January, 1)) {
		t.Errorf("AddMonths(year wrap) = %v", got)
	}
}
