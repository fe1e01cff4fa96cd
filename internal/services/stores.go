package services

import (
	"context"
	"time"

	"timesheet-backend/internal/models"
)

// Storage interfaces implemented by the repositories package.

type EmployeeStore interface {
	Create(ctx context.Context, e *models.Employee) error
	Get(ctx context.Context, id int) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context, orgID int) ([]*models.Employee, error)
	ListMentees(ctx context.Context, mentorID int) ([]*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	UpdateProfile(ctx context.Context, id int, name, phone string) error
	SetActive(ctx context.Context, orgID, id int, active bool) error
}

type ProjectStore interface {
	CreatePackage(ctx context.Context, p *models.Package) error
	GetPackage(ctx context.Context, orgID, id int) (*models.Package, error)
	CreateTask(ctx context.Context, t *models.Task) error
	ListPackages(ctx context.Context, orgID int) ([]*models.Package, error)
	ListAssigned(ctx context.Context, employeeID int) ([]*models.Package, error)
	Assign(ctx context.Context, packageID, employeeID int) error
	Unassign(ctx context.Context, packageID, employeeID int) error
	ListAssignees(ctx context.Context, packageID int) ([]int, error)
}

type TimesheetStore interface {
	ListRange(ctx context.Context, employeeID int, start, end time.Time) ([]*models.TimesheetRow, error)
	ListByIDs(ctx context.Context, employeeID int, ids []int) ([]*models.TimesheetRow, error)
	ListByStatus(ctx context.Context, orgID int, status string) ([]*models.TimesheetRow, error)
	UpsertBatch(ctx context.Context, records []models.TimesheetUpsert) error
	UpdateStatus(ctx context.Context, employeeID int, ids []int, status string, reviewerID int) (int64, error)
}

type SalarySlipStore interface {
	Save(ctx context.Context, s *models.SalarySlip) error
	Get(ctx context.Context, id int) (*models.SalarySlip, error)
	ListByEmployee(ctx context.Context, employeeID int) ([]*models.SalarySlip, error)
	SetArchiveKey(ctx context.Context, id int, key string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, employeeID int, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, employeeID, id int) error
	MarkAllRead(ctx context.Context, employeeID int) (int64, error)
}

// CacheInvalidator drops an employee's cached timesheet reads
type CacheInvalidator interface {
	InvalidateTimesheetCaches(ctx context.Context, employeeID int)
}

// Publisher pushes a notification to live clients
type Publisher interface {
	Publish(employeeID int, n *models.Notification)
}

// Archiver stores generated documents
type Archiver interface {
	Enabled() bool
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
