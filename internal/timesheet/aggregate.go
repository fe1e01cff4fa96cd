package timesheet

import "strings"

// ProjectTotalHours sums hours for projectID over the tasks in taskIDs whose
// date lies within r.
func ProjectTotalHours(projectID string, entries []Entry, r Range, taskIDs []string) float64 {
	days := make(map[string]struct{})
	for _, d := range r.Days() {
		days[d] = struct{}{}
	}
	included := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		included[id] = struct{}{}
	}

	var total float64
	for _, e := range entries {
		if e.ProjectID != projectID {
			continue
		}
		if _, ok := included[e.TaskID]; !ok {
			continue
		}
		if _, ok := days[e.Date]; !ok {
			continue
		}
		total += e.Hours
	}
	return total
}

// DailyTotalHours sums hours per day of r across all entries
func DailyTotalHours(entries []Entry, r Range) map[string]float64 {
	totals := make(map[string]float64)
	for _, d := range r.Days() {
		totals[d] = 0
	}
	for _, e := range entries {
		if _, ok := totals[e.Date]; ok {
			totals[e.Date] += e.Hours
		}
	}
	return totals
}

// DateStatus returns the marker for the entry at (projectID, taskID, date),
// or nil when there is no entry or it is a plain working day.
// Week-off wins over leave, leave over holiday.
func DateStatus(date, taskID, projectID string, entries []Entry) *Marker {
	i, ok := findByKey(entries, Key{ProjectID: projectID, TaskID: taskID, Date: date})
	if !ok {
		return nil
	}
	e := entries[i]
	switch {
	case e.IsWeekOff:
		return &Marker{Label: LabelWeekOff, Comment: e.Comments}
	case e.IsVacation:
		return &Marker{Label: LabelLeave, Comment: e.LeaveReason}
	case e.IsHoliday:
		return &Marker{Label: LabelHoliday, Comment: e.Comments}
	}
	return nil
}

// TasksByProject lists the distinct tasks of projectID whose project or task
// name contains query, case-insensitively. First occurrence wins.
func TasksByProject(projectID string, entries []Entry, query string) []TaskRef {
	q := strings.ToLower(query)
	seen := make(map[string]bool)
	var out []TaskRef
	for _, e := range entries {
		if e.ProjectID != projectID || seen[e.TaskID] {
			continue
		}
		if !strings.Contains(strings.ToLower(e.ProjectName), q) &&
			!strings.Contains(strings.ToLower(e.TaskName), q) {
			continue
		}
		seen[e.TaskID] = true
		out = append(out, TaskRef{ID: e.TaskID, Title: e.TaskName})
	}
	return out
}

// Projects lists the distinct projects in entries, first seen first
func Projects(entries []Entry) []TaskRef {
	seen := make(map[string]bool)
	var out []TaskRef
	for _, e := range entries {
		if seen[e.ProjectID] {
			continue
		}
		seen[e.ProjectID] = true
		out = append(out, TaskRef{ID: e.ProjectID, Title: e.ProjectName})
	}
	return out
}

// TaskIDs extracts the ids of refs
func TaskIDs(refs []TaskRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}
