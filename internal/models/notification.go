package models

import "time"

const (
	NotificationTimesheetReviewed = "timesheet_reviewed"
	NotificationSalarySlipIssued  = "salary_slip_issued"
	NotificationPackageAssigned   = "package_assigned"
)

type Notification struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employee_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
