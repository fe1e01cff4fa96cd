package models

import "time"

// TimesheetRow is one persisted timesheet record joined with its package and task
type TimesheetRow struct {
	ID           int       `json:"id"`
	EmployeeID   int       `json:"employee_id"`
	PackageID    int       `json:"package_id"`
	PackageTitle string    `json:"package_title"`
	TaskID       int       `json:"task_id"`
	TaskTitle    string    `json:"task_title"`
	WorkDate     time.Time `json:"work_date"`
	Hours        float64   `json:"hours"`
	Comments     string    `json:"comments"`
	LeaveReason  string    `json:"leave_reason"`
	IsHoliday    bool      `json:"is_holiday"`
	IsVacation   bool      `json:"is_vacation"`
	IsWeekOff    bool      `json:"is_week_off"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TimesheetUpsert is one record to insert or update for an employee
type TimesheetUpsert struct {
	ID          int // 0 when new
	EmployeeID  int
	TaskID      int
	WorkDate    time.Time
	Hours       float64
	Comments    string
	LeaveReason string
	IsHoliday   bool
	IsVacation  bool
	IsWeekOff   bool
	Status      string
}

// ReviewRequest approves or rejects submitted records
type ReviewRequest struct {
	EmployeeID int    `json:"employee_id"`
	IDs        []int  `json:"ids"`
	Status     string `json:"status"` // Approved or Rejected
	Note       string `json:"note"`
}

// ProjectTotal is the hours logged against one package in a range
type ProjectTotal struct {
	PackageID string  `json:"package_id"`
	Title     string  `json:"title"`
	Hours     float64 `json:"hours"`
}

// TimesheetSummary aggregates an employee's hours over a range
type TimesheetSummary struct {
	EmployeeID int                `json:"employee_id"`
	Start      string             `json:"start"`
	End        string             `json:"end"`
	Projects   []ProjectTotal     `json:"projects"`
	Daily      map[string]float64 `json:"daily"`
	TotalHours float64            `json:"total_hours"`
}
