package timeutil_test

import (
	"testing"
	"time"

	"timesheet-backend/internal/timeutil"
)

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year        int
		month       time.Month
		first, last string
	}{
		{2025, time.February, "2025-02-01", "2025-02-28"},
		{2024, time.February, "2024-02-01", "2024-02-29"},
		{2025, time.December, "2025-12-01", "2025-12-31"},
	}
	for _, tt := range tests {
		first, last := timeutil.MonthBounds(tt.year, tt.month)
		if first != tt.first || last != tt.last {
			t.Errorf("MonthBounds(%d, %s) = %s..%s, want %s..%s", tt.year, tt.month, first, last, tt.first, tt.last)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := timeutil.DaysInMonth(2025, time.July); got != 31 {
		t.Errorf("DaysInMonth(July) = %d", got)
	}
	if got := timeutil.DaysInMonth(2024, time.February); got != 29 {
		t.Errorf("DaysInMonth(Feb 2024) = %d", got)
	}
}

func TestStartEndOfDay(t *testing.T) {
	ts := time.Date(2026, 2, 27, 10, 15, 0, 0, timeutil.Location)
	if got := timeutil.StartOfDay(ts); got.Hour() != 0 || got.Day() != 27 {
		t.Errorf("StartOfDay = %v", got)
	}
	if got := timeutil.EndOfDay(ts); got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("EndOfDay = %v", got)
	}
}

func TestParseFormatDate(t *testing.T) {
	d, err := timeutil.ParseDate("2025-07-15")
	if err != nil {
		t.Fatal(err)
	}
	if got := timeutil.FormatDate(d); got != "2025-07-15" {
		t.Errorf("FormatDate = %q", got)
	}
	if _, err := timeutil.ParseDate("15/07/2025"); err == nil {
		t.Error("ParseDate accepted a malformed date")
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		day, start, end string
	}{
		{"2025-07-15", "2025-07-14", "2025-07-20"}, // Tuesday
		{"2025-07-14", "2025-07-14", "2025-07-20"}, // Monday
		{"2025-07-20", "2025-07-14", "2025-07-20"}, // Sunday
		{"2025-08-01", "2025-07-28", "2025-08-03"},
	}
	for _, tt := range tests {
		d, err := timeutil.ParseDate(tt.day)
		if err != nil {
			t.Fatal(err)
		}
		start, end := timeutil.WeekBounds(d.Add(10 * time.Hour))
		if start != tt.start || end != tt.end {
			t.Errorf("WeekBounds(%s) = %s..%s, want %s..%s", tt.day, start, end, tt.start, tt.end)
		}
	}
}
