package timesheet

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload wraps every validation failure returned by Validate
var ErrInvalidPayload = errors.New("invalid timesheet payload")

// Validate rejects malformed nested payloads at the API boundary.
// A (package, task, date) key may appear at most once per payload.
func Validate(groups []PackageGroup) error {
	var errs []error
	seen := make(map[Key]string)
	for pi, pkg := range groups {
		if pkg.PackageID.ID == "" {
			errs = append(errs, fmt.Errorf("packages[%d]: missing _id", pi))
		}
		for ti, task := range pkg.Tasks {
			if task.TaskID.ID == "" {
				errs = append(errs, fmt.Errorf("packages[%d].tasks[%d]: missing _id", pi, ti))
			}
			for ri, rec := range task.Timesheet {
				path := fmt.Sprintf("packages[%d].tasks[%d].timesheet[%d]", pi, ti, ri)
				date := NormalizeDate(rec.Date)
				if _, ok := parseDate(date); !ok {
					errs = append(errs, fmt.Errorf("%s: invalid date %q", path, rec.Date))
				} else {
					key := Key{ProjectID: pkg.PackageID.ID, TaskID: task.TaskID.ID, Date: date}
					if first, dup := seen[key]; dup {
						errs = append(errs, fmt.Errorf("%s: duplicate of %s", path, first))
					} else {
						seen[key] = path
					}
				}
				if rec.Hours != nil && (*rec.Hours < 0 || *rec.Hours > 24) {
					errs = append(errs, fmt.Errorf("%s: hours %v out of range", path, *rec.Hours))
				}
				if rec.Status != "" && !rec.Status.Valid() {
					errs = append(errs, fmt.Errorf("%s: unknown status %q", path, rec.Status))
				}
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidPayload, errors.Join(errs...))
}
