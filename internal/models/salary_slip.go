package models

import "time"

type SalarySlip struct {
	ID              int       `json:"id"`
	EmployeeID      int       `json:"employee_id"`
	EmployeeName    string    `json:"employee_name,omitempty"`
	Designation     string    `json:"designation,omitempty"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Basic           float64   `json:"basic"`
	HRA             float64   `json:"hra"`
	Allowances      float64   `json:"allowances"`
	PF              float64   `json:"pf"`
	Tax             float64   `json:"tax"`
	OtherDeductions float64   `json:"other_deductions"`
	WorkingDays     int       `json:"working_days"`
	LeaveDays       int       `json:"leave_days"`
	LOPDays         int       `json:"lop_days"`
	LOPDeduction    float64   `json:"lop_deduction"`
	Gross           float64   `json:"gross"`
	Net             float64   `json:"net"`
	ArchiveKey      string    `json:"archive_key,omitempty"`
	CreatedBy       *int      `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SalarySlipRequest carries the salary components for a month
type SalarySlipRequest struct {
	EmployeeID      int     `json:"employee_id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Basic           float64 `json:"basic"`
	HRA             float64 `json:"hra"`
	Allowances      float64 `json:"allowances"`
	PF              float64 `json:"pf"`
	Tax             float64 `json:"tax"`
	OtherDeductions float64 `json:"other_deductions"`
}
