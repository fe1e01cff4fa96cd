package testutil

import (
	"time"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/cache"
	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/internal/timeutil"
)

// Callers of organisation 1 as seen by the services
var (
	Admin    = &auth.Claims{EmployeeID: 1, OrganizationID: 1, Email: "admin@example.com", Role: models.RoleAdmin}
	Employee = &auth.Claims{EmployeeID: 2, OrganizationID: 1, Email: "ravi@example.com", Role: models.RoleEmployee}
	Mentor   = &auth.Claims{EmployeeID: 3, OrganizationID: 1, Email: "meera@example.com", Role: models.RoleEmployee}
)

// Now is the fixed clock of the fixture: mid July 2025
func Now() time.Time {
	return time.Date(2025, 7, 15, 10, 0, 0, 0, timeutil.Location)
}

func Intp(v int) *int { return &v }

// Day parses a YYYY-MM-DD date as stored in a DATE column
func Day(s string) time.Time {
	t, err := time.Parse(timeutil.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

type Fixture struct {
	Employees     *Employees
	Projects      *Projects
	Timesheets    *Timesheets
	Notifications *Notifications
	Hub           *Hub
	Notify        *services.NotificationService
	Service       *services.TimesheetService
}

// NewFixture builds organisation 1 with admin 1, employee 2 mentored by 3,
// and employee 4 in organisation 2. Employee 2 is assigned Payroll (Design,
// Build) and Portal (Review) and has four records in the first week of July 2025.
func NewFixture() *Fixture {
	f := &Fixture{
		Employees: NewEmployees(
			&models.Employee{ID: 1, OrganizationID: 1, Name: "Asha", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true},
			&models.Employee{ID: 2, OrganizationID: 1, Name: "Ravi", Email: "ravi@example.com", Role: models.RoleEmployee, MentorID: Intp(3), IsActive: true},
			&models.Employee{ID: 3, OrganizationID: 1, Name: "Meera", Email: "meera@example.com", Role: models.RoleEmployee, IsActive: true},
			&models.Employee{ID: 4, OrganizationID: 2, Name: "Other", Email: "other@example.com", Role: models.RoleEmployee, IsActive: true},
		),
		Projects: &Projects{
			Packages: []*models.Package{
				{ID: 10, OrganizationID: 1, Title: "Payroll", Tasks: []*models.Task{
					{ID: 11, PackageID: 10, Title: "Design"},
					{ID: 12, PackageID: 10, Title: "Build"},
				}},
				{ID: 20, OrganizationID: 1, Title: "Portal", Tasks: []*models.Task{
					{ID: 21, PackageID: 20, Title: "Review"},
				}},
			},
			Assigned: map[int][]int{2: {10, 20}},
		},
		Timesheets: &Timesheets{Rows: []*models.TimesheetRow{
			{ID: 1, EmployeeID: 2, PackageID: 10, PackageTitle: "Payroll", TaskID: 11, TaskTitle: "Design", WorkDate: Day("2025-07-01"), Hours: 4, Status: "Approved"},
			{ID: 2, EmployeeID: 2, PackageID: 10, PackageTitle: "Payroll", TaskID: 11, TaskTitle: "Design", WorkDate: Day("2025-07-02"), Hours: 2.5, Status: "Waiting For Approval"},
			{ID: 3, EmployeeID: 2, PackageID: 20, PackageTitle: "Portal", TaskID: 21, TaskTitle: "Review", WorkDate: Day("2025-07-03"), IsVacation: true, LeaveReason: "trip", Status: "Waiting For Approval"},
			{ID: 4, EmployeeID: 2, PackageID: 20, PackageTitle: "Portal", TaskID: 21, TaskTitle: "Review", WorkDate: Day("2025-07-04"), IsVacation: true, Status: "Waiting For Approval"},
		}},
		Notifications: &Notifications{},
		Hub:           &Hub{},
	}
	f.Notify = services.NewNotificationService(f.Notifications, f.Hub)
	f.Service = services.NewTimesheetService(f.Timesheets, f.Projects, f.Employees, cache.Disabled(), f.Notify, 24)
	f.Service.Clock = Now
	return f
}
