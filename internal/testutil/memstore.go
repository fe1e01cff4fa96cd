// Package testutil provides in-memory stores for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/repositories"
	"timesheet-backend/internal/timeutil"
)

type Employees struct {
	mu   sync.Mutex
	ByID map[int]*models.Employee
	next int
}

func NewEmployees(emps ...*models.Employee) *Employees {
	f := &Employees{ByID: make(map[int]*models.Employee), next: 100}
	for _, e := range emps {
		f.ByID[e.ID] = e
	}
	return f
}

func (f *Employees) Create(ctx context.Context, e *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	e.ID = f.next
	e.IsActive = true
	cp := *e
	f.ByID[e.ID] = &cp
	return nil
}

func (f *Employees) Get(ctx context.Context, id int) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.ByID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *Employees) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.ByID {
		if strings.EqualFold(e.Email, email) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Employees) List(ctx context.Context, orgID int) ([]*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Employee
	for _, e := range f.ByID {
		if e.OrganizationID == orgID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Employees) ListMentees(ctx context.Context, mentorID int) ([]*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Employee
	for _, e := range f.ByID {
		if e.MentorID != nil && *e.MentorID == mentorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *Employees) Update(ctx context.Context, e *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.ByID[e.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	cp := *e
	if cp.PasswordHash == "" {
		cp.PasswordHash = cur.PasswordHash
	}
	f.ByID[e.ID] = &cp
	return nil
}

func (f *Employees) UpdateProfile(ctx context.Context, id int, name, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.ByID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	e.Name, e.Phone = name, phone
	return nil
}

func (f *Employees) SetActive(ctx context.Context, orgID, id int, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.ByID[id]
	if !ok || e.OrganizationID != orgID {
		return repositories.ErrNotFound
	}
	e.IsActive = active
	return nil
}

type Projects struct {
	Packages []*models.Package
	Assigned map[int][]int
}

func (f *Projects) CreatePackage(ctx context.Context, p *models.Package) error {
	p.ID = len(f.Packages) + 1
	f.Packages = append(f.Packages, p)
	return nil
}

func (f *Projects) GetPackage(ctx context.Context, orgID, id int) (*models.Package, error) {
	for _, p := range f.Packages {
		if p.ID == id && p.OrganizationID == orgID {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Projects) CreateTask(ctx context.Context, t *models.Task) error {
	for _, p := range f.Packages {
		if p.ID == t.PackageID {
			t.ID = 1000 + len(p.Tasks)
			p.Tasks = append(p.Tasks, t)
		}
	}
	return nil
}

func (f *Projects) ListPackages(ctx context.Context, orgID int) ([]*models.Package, error) {
	return f.Packages, nil
}

func (f *Projects) ListAssigned(ctx context.Context, employeeID int) ([]*models.Package, error) {
	var out []*models.Package
	for _, id := range f.Assigned[employeeID] {
		for _, p := range f.Packages {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *Projects) Assign(ctx context.Context, packageID, employeeID int) error {
	if f.Assigned == nil {
		f.Assigned = make(map[int][]int)
	}
	for _, id := range f.Assigned[employeeID] {
		if id == packageID {
			return nil
		}
	}
	f.Assigned[employeeID] = append(f.Assigned[employeeID], packageID)
	return nil
}

func (f *Projects) Unassign(ctx context.Context, packageID, employeeID int) error {
	ids := f.Assigned[employeeID]
	for i, id := range ids {
		if id == packageID {
			f.Assigned[employeeID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *Projects) ListAssignees(ctx context.Context, packageID int) ([]int, error) {
	var out []int
	for emp, ids := range f.Assigned {
		for _, id := range ids {
			if id == packageID {
				out = append(out, emp)
			}
		}
	}
	sort.Ints(out)
	return out, nil
}

// Invalidations records the employees whose timesheet caches were dropped
type Invalidations struct {
	Employees []int
}

func (c *Invalidations) InvalidateTimesheetCaches(ctx context.Context, employeeID int) {
	c.Employees = append(c.Employees, employeeID)
}

type StatusUpdate struct {
	EmployeeID int
	IDs        []int
	Status     string
	Reviewer   int
}

type Timesheets struct {
	Rows      []*models.TimesheetRow
	Batches   [][]models.TimesheetUpsert
	UpsertErr error
	Updates   []StatusUpdate
}

func (f *Timesheets) ListRange(ctx context.Context, employeeID int, start, end time.Time) ([]*models.TimesheetRow, error) {
	from, to := start.Format(timeutil.DateLayout), end.Format(timeutil.DateLayout)
	var out []*models.TimesheetRow
	for _, r := range f.Rows {
		d := r.WorkDate.Format(timeutil.DateLayout)
		if r.EmployeeID == employeeID && d >= from && d <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Timesheets) ListByIDs(ctx context.Context, employeeID int, ids []int) ([]*models.TimesheetRow, error) {
	var out []*models.TimesheetRow
	for _, r := range f.Rows {
		if r.EmployeeID != employeeID {
			continue
		}
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *Timesheets) ListByStatus(ctx context.Context, orgID int, status string) ([]*models.TimesheetRow, error) {
	var out []*models.TimesheetRow
	for _, r := range f.Rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Timesheets) UpsertBatch(ctx context.Context, records []models.TimesheetUpsert) error {
	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	f.Batches = append(f.Batches, records)
	return nil
}

func (f *Timesheets) UpdateStatus(ctx context.Context, employeeID int, ids []int, status string, reviewerID int) (int64, error) {
	f.Updates = append(f.Updates, StatusUpdate{employeeID, ids, status, reviewerID})
	return int64(len(ids)), nil
}

type Notifications struct {
	mu    sync.Mutex
	Items []*models.Notification
}

func (f *Notifications) Create(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = len(f.Items) + 1
	f.Items = append(f.Items, n)
	return nil
}

func (f *Notifications) List(ctx context.Context, employeeID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.Items {
		if n.EmployeeID == employeeID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *Notifications) MarkRead(ctx context.Context, employeeID, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.Items {
		if n.ID == id && n.EmployeeID == employeeID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *Notifications) MarkAllRead(ctx context.Context, employeeID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.Items {
		if item.EmployeeID == employeeID && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

type Hub struct {
	Pushed map[int]int
}

func (h *Hub) Publish(employeeID int, n *models.Notification) {
	if h.Pushed == nil {
		h.Pushed = make(map[int]int)
	}
	h.Pushed[employeeID]++
}

type Slips struct {
	Saved []*models.SalarySlip
}

func (f *Slips) Save(ctx context.Context, s *models.SalarySlip) error {
	s.ID = len(f.Saved) + 1
	f.Saved = append(f.Saved, s)
	return nil
}

func (f *Slips) Get(ctx context.Context, id int) (*models.SalarySlip, error) {
	for _, s := range f.Saved {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Slips) ListByEmployee(ctx context.Context, employeeID int) ([]*models.SalarySlip, error) {
	var out []*models.SalarySlip
	for _, s := range f.Saved {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Slips) SetArchiveKey(ctx context.Context, id int, key string) error {
	for _, s := range f.Saved {
		if s.ID == id {
			s.ArchiveKey = key
			return nil
		}
	}
	return repositories.ErrNotFound
}

type Archive struct {
	Objects map[string][]byte
}

func (a *Archive) Enabled() bool { return true }

func (a *Archive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if a.Objects == nil {
		a.Objects = make(map[string][]byte)
	}
	a.Objects[key] = body
	return nil
}

func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	b, ok := a.Objects[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return b, nil
}
