package timesheet

// ResolveSubmitStatus maps the requested status onto the one persisted.
// Submissions can never store Not Submitted; an empty request means
// Waiting For Approval.
func ResolveSubmitStatus(s Status) Status {
	if s == "" || s == StatusNotSubmitted {
		return StatusWaitingForApproval
	}
	return s
}

// PrepareSubmitData re-nests changed entries into the package → task →
// record shape expected by the backend. Groups appear in first-seen order.
// Special-day markers are cleared on every emitted record.
func PrepareSubmitData(changes []Entry, status Status) []PackageGroup {
	st := ResolveSubmitStatus(status)

	var out []PackageGroup
	pkgIdx := make(map[string]int)
	taskIdx := make(map[[2]string]int)

	for _, e := range changes {
		pi, ok := pkgIdx[e.ProjectID]
		if !ok {
			pi = len(out)
			pkgIdx[e.ProjectID] = pi
			out = append(out, PackageGroup{PackageID: Ref{ID: e.ProjectID, Title: e.ProjectName}})
		}

		tk := [2]string{e.ProjectID, e.TaskID}
		ti, ok := taskIdx[tk]
		if !ok {
			ti = len(out[pi].Tasks)
			taskIdx[tk] = ti
			out[pi].Tasks = append(out[pi].Tasks, TaskGroup{TaskID: Ref{ID: e.TaskID, Title: e.TaskName}})
		}

		hours := e.Hours
		comments := e.Comments
		out[pi].Tasks[ti].Timesheet = append(out[pi].Tasks[ti].Timesheet, Record{
			ID:       e.ID,
			Date:     e.Date,
			Hours:    &hours,
			Comments: &comments,
			Status:   st,
		})
	}
	return out
}
