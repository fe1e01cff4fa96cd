package timeutil

import (
	"log"
	"time"
)

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
	MonthLayout    = "January 2006"
)

// Location is the business timezone. Defaults to Indian Standard Time.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		Location = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// SetLocation switches the business timezone; an unknown name keeps the current one
func SetLocation(name string) {
	if name == "" {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[Time] Unknown timezone %q, keeping %s", name, Location)
		return
	}
	Location = loc
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns today's date as YYYY-MM-DD
func Today() string {
	return Now().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight in the business timezone
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Location)
}

// FormatDate formats t as YYYY-MM-DD in the business timezone
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// StartOfDay returns 00:00:00 of t's day
func StartOfDay(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Location)
}

// EndOfDay returns the last nanosecond of t's day
func EndOfDay(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, 999999999, Location)
}

// MonthBounds returns the first and last day of the month as YYYY-MM-DD
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, Location)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

// DaysInMonth returns the number of calendar days in the month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekBounds returns Monday and Sunday of t's week as YYYY-MM-DD
func WeekBounds(t time.Time) (string, string) {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday.Format(DateLayout), monday.AddDate(0, 0, 6).Format(DateLayout)
}
