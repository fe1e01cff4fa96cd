package timesheet

import "time"

// Direction moves a Range backwards or forwards
type Direction int

const (
	Previous Direction = iota
	Next
)

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateRange returns every calendar day from start to end inclusive.
// It returns nil when either bound is missing or malformed, or end < start.
func DateRange(start, end string) []string {
	s, ok := parseDate(start)
	if !ok {
		return nil
	}
	e, ok := parseDate(end)
	if !ok || e.Before(s) {
		return nil
	}
	days := make([]string, 0, int(e.Sub(s).Hours()/24)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}

// Days returns the materialised day sequence of r
func (r Range) Days() []string {
	return DateRange(r.Start, r.End)
}

// Contains reports whether date falls inside r
func (r Range) Contains(date string) bool {
	d, ok := parseDate(date)
	if !ok {
		return false
	}
	s, ok1 := parseDate(r.Start)
	e, ok2 := parseDate(r.End)
	if !ok1 || !ok2 {
		return false
	}
	return !d.Before(s) && !d.After(e)
}

// Span is the number of days covered by r, or 0 if r is malformed
func (r Range) Span() int {
	return len(r.Days())
}

// IsPastDate reports whether date is before today's calendar day.
// Days in the current month and year are never past, even when earlier
// than today, so the whole running month stays editable.
func IsPastDate(date string, now time.Time) bool {
	d, ok := parseDate(date)
	if !ok {
		return false
	}
	if d.Year() == now.Year() && d.Month() == now.Month() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

// NavigateRange shifts r by its own span. A malformed range is returned unchanged.
func NavigateRange(dir Direction, r Range) Range {
	s, ok1 := parseDate(r.Start)
	e, ok2 := parseDate(r.End)
	if !ok1 || !ok2 || e.Before(s) {
		return r
	}
	span := int(e.Sub(s).Hours()/24) + 1
	if dir == Previous {
		span = -span
	}
	return Range{
		Start: s.AddDate(0, 0, span).Format(dateLayout),
		End:   e.AddDate(0, 0, span).Format(dateLayout),
	}
}

// Clock supplies the current time; tests substitute a fixed one
type Clock func() time.Time

// IsPast applies IsPastDate against the clock's current time
func (c Clock) IsPast(date string) bool {
	return IsPastDate(date, c())
}
