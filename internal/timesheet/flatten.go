package timesheet

import "time"

const dateLayout = "2006-01-02"

// Flatten walks package → task → record and emits one Entry per record,
// carrying package and task identifiers and titles down to every entry.
// Order follows the input; nothing is dropped or merged.
func Flatten(groups []PackageGroup) []Entry {
	var out []Entry
	for _, pkg := range groups {
		for _, task := range pkg.Tasks {
			for _, rec := range task.Timesheet {
				e := Entry{
					Date:        NormalizeDate(rec.Date),
					ProjectID:   pkg.PackageID.ID,
					TaskID:      task.TaskID.ID,
					ProjectName: pkg.PackageID.Title,
					TaskName:    task.TaskID.Title,
					LeaveReason: rec.LeaveReason,
					IsHoliday:   rec.IsHoliday,
					IsVacation:  rec.IsVacation,
					IsWeekOff:   rec.IsWeekOff,
					ID:          rec.ID,
					Status:      rec.Status,
				}
				if rec.Hours != nil {
					e.Hours = *rec.Hours
				}
				if rec.Comments != nil {
					e.Comments = *rec.Comments
				}
				out = append(out, e)
			}
		}
	}
	return out
}

// NormalizeDate reduces a date or timestamp string to YYYY-MM-DD.
// Timestamps keep their own calendar day; unparseable input is returned as is.
func NormalizeDate(s string) string {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}
