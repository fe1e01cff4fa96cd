package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"timesheet-backend/internal/models"
)

// ProjectService manages packages, tasks and assignments. Fetches list every
// assigned task, so any change here drops the affected employees' cached timesheets.
type ProjectService struct {
	Repo      ProjectStore
	Employees EmployeeStore
	Cache     CacheInvalidator
	Notify    *NotificationService
}

func NewProjectService(repo ProjectStore, employees EmployeeStore, c CacheInvalidator, notify *NotificationService) *ProjectService {
	return &ProjectService{Repo: repo, Employees: employees, Cache: c, Notify: notify}
}

func (s *ProjectService) CreatePackage(ctx context.Context, orgID int, req *models.CreatePackageRequest) (*models.Package, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	p := &models.Package{OrganizationID: orgID, Title: title, Description: req.Description}
	if err := s.Repo.CreatePackage(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) ListPackages(ctx context.Context, orgID int) ([]*models.Package, error) {
	return s.Repo.ListPackages(ctx, orgID)
}

// CreateTask adds a task to a package of the organisation
func (s *ProjectService) CreateTask(ctx context.Context, orgID, packageID int, req *models.CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := s.Repo.GetPackage(ctx, orgID, packageID); err != nil {
		return nil, err
	}
	t := &models.Task{PackageID: packageID, Title: title}
	if err := s.Repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	assignees, err := s.Repo.ListAssignees(ctx, packageID)
	if err != nil {
		log.Printf("[Projects] Task %d created but assignees of package %d unknown, caches kept: %v", t.ID, packageID, err)
		return t, nil
	}
	for _, id := range assignees {
		s.Cache.InvalidateTimesheetCaches(ctx, id)
	}
	return t, nil
}

// Assign gives an employee access to log time against a package
func (s *ProjectService) Assign(ctx context.Context, orgID, packageID, employeeID int) error {
	pkg, err := s.Repo.GetPackage(ctx, orgID, packageID)
	if err != nil {
		return err
	}
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.OrganizationID != orgID {
		return ErrNotFound
	}
	if err := s.Repo.Assign(ctx, packageID, employeeID); err != nil {
		return err
	}
	s.Cache.InvalidateTimesheetCaches(ctx, employeeID)
	s.Notify.Notify(ctx, employeeID, models.NotificationPackageAssigned,
		"New package assigned", fmt.Sprintf("You can now log time against %s.", pkg.Title))
	return nil
}

func (s *ProjectService) Unassign(ctx context.Context, orgID, packageID, employeeID int) error {
	if _, err := s.Repo.GetPackage(ctx, orgID, packageID); err != nil {
		return err
	}
	if err := s.Repo.Unassign(ctx, packageID, employeeID); err != nil {
		return err
	}
	s.Cache.InvalidateTimesheetCaches(ctx, employeeID)
	return nil
}

// Assigned returns the packages (with tasks) an employee may log time against
func (s *ProjectService) Assigned(ctx context.Context, employeeID int) ([]*models.Package, error) {
	return s.Repo.ListAssigned(ctx, employeeID)
}
