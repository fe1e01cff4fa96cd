package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/cache"
	"timesheet-backend/internal/metrics"
	"timesheet-backend/internal/models"
	"timesheet-backend/internal/timesheet"
	"timesheet-backend/internal/timeutil"
)

// maxRangeDays bounds a single fetch
const maxRangeDays = 366

type TimesheetService struct {
	Repo          TimesheetStore
	Projects      ProjectStore
	Employees     EmployeeStore
	Cache         *cache.Cache
	Notify        *NotificationService
	Clock         timesheet.Clock
	MaxDailyHours float64
}

func NewTimesheetService(repo TimesheetStore, projects ProjectStore, employees EmployeeStore,
	c *cache.Cache, notify *NotificationService, maxDailyHours float64) *TimesheetService {
	return &TimesheetService{
		Repo:          repo,
		Projects:      projects,
		Employees:     employees,
		Cache:         c,
		Notify:        notify,
		Clock:         timeutil.Now,
		MaxDailyHours: maxDailyHours,
	}
}

// Authorize checks that actor may read (or, with write, modify) employeeID's timesheet.
// Employees access their own; admins access anyone in their organisation;
// mentors may read their mentees.
func (s *TimesheetService) Authorize(ctx context.Context, actor *auth.Claims, employeeID int, write bool) error {
	if actor.EmployeeID == employeeID {
		return nil
	}
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.OrganizationID != actor.OrganizationID {
		return ErrNotFound
	}
	if actor.IsAdmin() {
		return nil
	}
	if !write && emp.MentorID != nil && *emp.MentorID == actor.EmployeeID {
		return nil
	}
	return ErrForbidden
}

// ParseRange validates an inclusive YYYY-MM-DD range
func ParseRange(start, end string) (timesheet.Range, error) {
	s, err := timeutil.ParseDate(start)
	if err != nil {
		return timesheet.Range{}, fmt.Errorf("%w: invalid start date %q", ErrInvalidInput, start)
	}
	e, err := timeutil.ParseDate(end)
	if err != nil {
		return timesheet.Range{}, fmt.Errorf("%w: invalid end date %q", ErrInvalidInput, end)
	}
	if e.Before(s) {
		return timesheet.Range{}, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if e.Sub(s) > maxRangeDays*24*time.Hour {
		return timesheet.Range{}, fmt.Errorf("%w: range longer than %d days", ErrInvalidInput, maxRangeDays)
	}
	return timesheet.Range{Start: start, End: end}, nil
}

// Fetch returns an employee's timesheet for the range in the nested wire shape.
// Every assigned package and task is listed, including tasks with no records.
func (s *TimesheetService) Fetch(ctx context.Context, employeeID int, start, end string) ([]timesheet.PackageGroup, error) {
	rng, err := ParseRange(start, end)
	if err != nil {
		return nil, err
	}

	key := cache.TimesheetKey(employeeID, rng.Start, rng.End)
	if data, ok := s.Cache.Get(ctx, key); ok {
		var groups []timesheet.PackageGroup
		if err := json.Unmarshal(data, &groups); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return groups, nil
		}
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	packages, err := s.Projects.ListAssigned(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.listRange(ctx, employeeID, rng)
	if err != nil {
		return nil, err
	}
	groups := GroupRecords(packages, rows)

	if data, err := json.Marshal(groups); err == nil {
		s.Cache.Set(ctx, key, data, cache.TimesheetTTL)
	}
	return groups, nil
}

func (s *TimesheetService) listRange(ctx context.Context, employeeID int, rng timesheet.Range) ([]*models.TimesheetRow, error) {
	start, _ := timeutil.ParseDate(rng.Start)
	end, _ := timeutil.ParseDate(rng.End)
	return s.Repo.ListRange(ctx, employeeID, start, end)
}

// GroupRecords nests persisted rows under their package and task. Packages
// and tasks come first in assignment order; rows for tasks that are no longer
// assigned are appended after them.
func GroupRecords(packages []*models.Package, rows []*models.TimesheetRow) []timesheet.PackageGroup {
	groups := make([]timesheet.PackageGroup, 0, len(packages))
	pkgIdx := make(map[int]int)
	taskIdx := make(map[int][2]int)

	addPackage := func(id int, title string) int {
		if i, ok := pkgIdx[id]; ok {
			return i
		}
		groups = append(groups, timesheet.PackageGroup{
			PackageID: timesheet.Ref{ID: strconv.Itoa(id), Title: title},
			Tasks:     []timesheet.TaskGroup{},
		})
		pkgIdx[id] = len(groups) - 1
		return len(groups) - 1
	}
	addTask := func(pi, id int, title string) [2]int {
		if loc, ok := taskIdx[id]; ok {
			return loc
		}
		groups[pi].Tasks = append(groups[pi].Tasks, timesheet.TaskGroup{
			TaskID:    timesheet.Ref{ID: strconv.Itoa(id), Title: title},
			Timesheet: []timesheet.Record{},
		})
		loc := [2]int{pi, len(groups[pi].Tasks) - 1}
		taskIdx[id] = loc
		return loc
	}

	for _, p := range packages {
		pi := addPackage(p.ID, p.Title)
		for _, t := range p.Tasks {
			addTask(pi, t.ID, t.Title)
		}
	}

	for _, row := range rows {
		pi := addPackage(row.PackageID, row.PackageTitle)
		loc := addTask(pi, row.TaskID, row.TaskTitle)
		task := &groups[loc[0]].Tasks[loc[1]]
		task.Timesheet = append(task.Timesheet, toRecord(row))
	}
	return groups
}

func toRecord(row *models.TimesheetRow) timesheet.Record {
	hours := row.Hours
	comments := row.Comments
	return timesheet.Record{
		ID:          strconv.Itoa(row.ID),
		Date:        row.WorkDate.Format(timeutil.DateLayout),
		Hours:       &hours,
		Comments:    &comments,
		LeaveReason: row.LeaveReason,
		IsHoliday:   row.IsHoliday,
		IsVacation:  row.IsVacation,
		IsWeekOff:   row.IsWeekOff,
		Status:      timesheet.Status(row.Status),
	}
}

// Submit upserts the records of a submission for employeeID and returns how many were written.
func (s *TimesheetService) Submit(ctx context.Context, actor *auth.Claims, employeeID int, groups []timesheet.PackageGroup) (int, error) {
	if err := timesheet.Validate(groups); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.Authorize(ctx, actor, employeeID, true); err != nil {
		return 0, err
	}

	assigned, err := s.Projects.ListAssigned(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	taskPackage := make(map[int]int)
	for _, p := range assigned {
		for _, t := range p.Tasks {
			taskPackage[t.ID] = p.ID
		}
	}

	records, err := s.toUpserts(actor, employeeID, groups, taskPackage)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := s.checkStored(ctx, employeeID, records); err != nil {
		return 0, err
	}
	if err := s.checkDailyCap(ctx, employeeID, records); err != nil {
		return 0, err
	}

	if err := s.Repo.UpsertBatch(ctx, records); err != nil {
		return 0, err
	}
	s.Cache.InvalidateTimesheetCaches(ctx, employeeID)

	for _, r := range records {
		metrics.TimesheetRecordsSubmitted.WithLabelValues(r.Status).Inc()
	}
	log.Printf("[Timesheet] Employee %d: %d record(s) submitted by %d", employeeID, len(records), actor.EmployeeID)
	return len(records), nil
}

func (s *TimesheetService) toUpserts(actor *auth.Claims, employeeID int, groups []timesheet.PackageGroup, taskPackage map[int]int) ([]models.TimesheetUpsert, error) {
	var records []models.TimesheetUpsert
	for _, pkg := range groups {
		packageID, err := strconv.Atoi(pkg.PackageID.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: package id %q", ErrInvalidInput, pkg.PackageID.ID)
		}
		for _, task := range pkg.Tasks {
			taskID, err := strconv.Atoi(task.TaskID.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: task id %q", ErrInvalidInput, task.TaskID.ID)
			}
			if owner, ok := taskPackage[taskID]; !ok || owner != packageID {
				return nil, fmt.Errorf("%w: task %d of package %d is not assigned", ErrForbidden, taskID, packageID)
			}

			for _, rec := range task.Timesheet {
				up, err := s.toUpsert(actor, employeeID, taskID, rec)
				if err != nil {
					return nil, err
				}
				records = append(records, up)
			}
		}
	}
	return records, nil
}

// checkStored verifies that records addressed by id exist and keep their task
// and date. A record's (task, date) key never changes once stored, so the
// closed-month check on the submitted date also covers the stored one.
func (s *TimesheetService) checkStored(ctx context.Context, employeeID int, records []models.TimesheetUpsert) error {
	var ids []int
	for _, r := range records {
		if r.ID > 0 {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	rows, err := s.Repo.ListByIDs(ctx, employeeID, ids)
	if err != nil {
		return err
	}
	stored := make(map[int]*models.TimesheetRow, len(rows))
	for _, row := range rows {
		stored[row.ID] = row
	}

	for _, r := range records {
		if r.ID == 0 {
			continue
		}
		row, ok := stored[r.ID]
		if !ok {
			return fmt.Errorf("%w: record %d", ErrNotFound, r.ID)
		}
		from := row.WorkDate.Format(timeutil.DateLayout)
		if row.TaskID != r.TaskID || from != r.WorkDate.Format(timeutil.DateLayout) {
			return fmt.Errorf("%w: record %d belongs to task %d on %s", ErrInvalidInput, r.ID, row.TaskID, from)
		}
	}
	return nil
}

type dayTask struct {
	taskID int
	date   string
}

// checkDailyCap rejects the batch if any of its days would end up with more
// than MaxDailyHours across all tasks, counting stored records the batch
// does not replace.
func (s *TimesheetService) checkDailyCap(ctx context.Context, employeeID int, records []models.TimesheetUpsert) error {
	if s.MaxDailyHours <= 0 {
		return nil
	}
	first, last := records[0].WorkDate, records[0].WorkDate
	for _, r := range records[1:] {
		if r.WorkDate.Before(first) {
			first = r.WorkDate
		}
		if r.WorkDate.After(last) {
			last = r.WorkDate
		}
	}
	rows, err := s.Repo.ListRange(ctx, employeeID, first, last)
	if err != nil {
		return err
	}

	hours := make(map[dayTask]float64)
	for _, row := range rows {
		hours[dayTask{row.TaskID, row.WorkDate.Format(timeutil.DateLayout)}] = row.Hours
	}
	touched := make(map[string]bool)
	for _, r := range records {
		date := r.WorkDate.Format(timeutil.DateLayout)
		hours[dayTask{r.TaskID, date}] = r.Hours
		touched[date] = true
	}

	daily := make(map[string]float64)
	for k, h := range hours {
		daily[k.date] += h
	}
	for date := range touched {
		if daily[date] > s.MaxDailyHours {
			return fmt.Errorf("%w: more than %g hours logged on %s", ErrInvalidInput, s.MaxDailyHours, date)
		}
	}
	return nil
}

func (s *TimesheetService) toUpsert(actor *auth.Claims, employeeID, taskID int, rec timesheet.Record) (models.TimesheetUpsert, error) {
	date := timesheet.NormalizeDate(rec.Date)
	workDate, err := timeutil.ParseDate(date)
	if err != nil {
		return models.TimesheetUpsert{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, rec.Date)
	}

	status := timesheet.ResolveSubmitStatus(rec.Status)
	if !actor.IsAdmin() {
		if status == timesheet.StatusApproved || status == timesheet.StatusRejected {
			return models.TimesheetUpsert{}, fmt.Errorf("%w: only admins can set %s", ErrForbidden, status)
		}
		if s.Clock.IsPast(date) {
			return models.TimesheetUpsert{}, fmt.Errorf("%w: %s is in a closed month", ErrForbidden, date)
		}
	}

	up := models.TimesheetUpsert{
		EmployeeID:  employeeID,
		TaskID:      taskID,
		WorkDate:    workDate,
		LeaveReason: rec.LeaveReason,
		IsHoliday:   rec.IsHoliday,
		IsVacation:  rec.IsVacation,
		IsWeekOff:   rec.IsWeekOff,
		Status:      string(status),
	}
	if rec.ID != "" {
		if up.ID, err = strconv.Atoi(rec.ID); err != nil {
			return models.TimesheetUpsert{}, fmt.Errorf("%w: record id %q", ErrInvalidInput, rec.ID)
		}
	}
	if rec.Hours != nil {
		up.Hours = *rec.Hours
	}
	if rec.Comments != nil {
		up.Comments = *rec.Comments
	}
	return up, nil
}

// Review approves or rejects submitted records of one employee
func (s *TimesheetService) Review(ctx context.Context, actor *auth.Claims, req *models.ReviewRequest) (int64, error) {
	if !actor.IsAdmin() {
		return 0, ErrForbidden
	}
	status := timesheet.Status(req.Status)
	if status != timesheet.StatusApproved && status != timesheet.StatusRejected {
		return 0, fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, timesheet.StatusApproved, timesheet.StatusRejected)
	}
	if len(req.IDs) == 0 {
		return 0, fmt.Errorf("%w: no records selected", ErrInvalidInput)
	}
	if err := s.Authorize(ctx, actor, req.EmployeeID, true); err != nil {
		return 0, err
	}

	n, err := s.Repo.UpdateStatus(ctx, req.EmployeeID, req.IDs, string(status), actor.EmployeeID)
	if err != nil {
		return 0, err
	}
	s.Cache.InvalidateTimesheetCaches(ctx, req.EmployeeID)
	metrics.TimesheetReviews.WithLabelValues(string(status)).Add(float64(n))

	if n > 0 {
		msg := fmt.Sprintf("%d timesheet record(s) were marked %s.", n, status)
		if req.Note != "" {
			msg += " Note: " + req.Note
		}
		s.Notify.Notify(ctx, req.EmployeeID, models.NotificationTimesheetReviewed, "Timesheet "+string(status), msg)
	}
	return n, nil
}

// Pending lists records waiting for approval across the organisation
func (s *TimesheetService) Pending(ctx context.Context, orgID int) ([]*models.TimesheetRow, error) {
	return s.Repo.ListByStatus(ctx, orgID, string(timesheet.StatusWaitingForApproval))
}

// Entries returns the flattened records of the range
func (s *TimesheetService) Entries(ctx context.Context, employeeID int, start, end string) ([]timesheet.Entry, timesheet.Range, error) {
	rng, err := ParseRange(start, end)
	if err != nil {
		return nil, rng, err
	}
	groups, err := s.Fetch(ctx, employeeID, start, end)
	if err != nil {
		return nil, rng, err
	}
	return timesheet.Flatten(groups), rng, nil
}

// Summary aggregates hours per project and per day for the range
func (s *TimesheetService) Summary(ctx context.Context, employeeID int, start, end string) (*models.TimesheetSummary, error) {
	key := cache.SummaryKey(employeeID, start, end)
	if data, ok := s.Cache.Get(ctx, key); ok {
		var sum models.TimesheetSummary
		if err := json.Unmarshal(data, &sum); err == nil {
			return &sum, nil
		}
	}

	entries, rng, err := s.Entries(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	sum := &models.TimesheetSummary{
		EmployeeID: employeeID,
		Start:      rng.Start,
		End:        rng.End,
		Projects:   []models.ProjectTotal{},
		Daily:      timesheet.DailyTotalHours(entries, rng),
	}
	for _, p := range timesheet.Projects(entries) {
		tasks := timesheet.TasksByProject(p.ID, entries, "")
		sum.Projects = append(sum.Projects, models.ProjectTotal{
			PackageID: p.ID,
			Title:     p.Title,
			Hours:     timesheet.ProjectTotalHours(p.ID, entries, rng, timesheet.TaskIDs(tasks)),
		})
	}
	for _, h := range sum.Daily {
		sum.TotalHours += h
	}

	if data, err := json.Marshal(sum); err == nil {
		s.Cache.Set(ctx, key, data, cache.TimesheetTTL)
	}
	return sum, nil
}

// LeaveDays counts the distinct dates marked as vacation in the range
func (s *TimesheetService) LeaveDays(ctx context.Context, employeeID int, start, end string) (int, error) {
	rng, err := ParseRange(start, end)
	if err != nil {
		return 0, err
	}
	rows, err := s.listRange(ctx, employeeID, rng)
	if err != nil {
		return 0, err
	}
	return CountLeaveDays(timesheet.Flatten(GroupRecords(nil, rows))), nil
}

// CountLeaveDays counts distinct vacation dates
func CountLeaveDays(entries []timesheet.Entry) int {
	days := make(map[string]bool)
	for _, e := range entries {
		if e.IsVacation {
			days[e.Date] = true
		}
	}
	return len(days)
}

// IsClientError reports whether err should be surfaced to the caller as-is
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrLocked)
}
