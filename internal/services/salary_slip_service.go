package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/metrics"
	"timesheet-backend/internal/models"
	"timesheet-backend/internal/storage"
	"timesheet-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

type SalarySlipService struct {
	Repo          SalarySlipStore
	Employees     EmployeeStore
	Timesheets    *TimesheetService
	Archive       Archiver
	Notify        *NotificationService
	CompanyName   string
	PaidLeaveDays int
}

func NewSalarySlipService(repo SalarySlipStore, employees EmployeeStore, timesheets *TimesheetService,
	archive Archiver, notify *NotificationService, companyName string, paidLeaveDays int) *SalarySlipService {
	return &SalarySlipService{
		Repo:          repo,
		Employees:     employees,
		Timesheets:    timesheets,
		Archive:       archive,
		Notify:        notify,
		CompanyName:   companyName,
		PaidLeaveDays: paidLeaveDays,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateSlipRequest checks the period and that no component is negative
func ValidateSlipRequest(req *models.SalarySlipRequest) error {
	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be 1-12", ErrInvalidInput)
	}
	if req.Year < 2000 || req.Year > 2100 {
		return fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	for name, v := range map[string]float64{
		"basic": req.Basic, "hra": req.HRA, "allowances": req.Allowances,
		"pf": req.PF, "tax": req.Tax, "other_deductions": req.OtherDeductions,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, name)
		}
	}
	return nil
}

// CalculateSlip computes a slip from the salary components and the month's leave.
// Leave beyond paidLeaveDays is loss of pay, charged at gross / days in month.
func CalculateSlip(req *models.SalarySlipRequest, leaveDays, paidLeaveDays int) *models.SalarySlip {
	working := timeutil.DaysInMonth(req.Year, time.Month(req.Month))
	gross := round2(req.Basic + req.HRA + req.Allowances)

	lopDays := leaveDays - paidLeaveDays
	if lopDays < 0 {
		lopDays = 0
	}
	lop := round2(gross / float64(working) * float64(lopDays))

	net := round2(gross - req.PF - req.Tax - req.OtherDeductions - lop)
	if net < 0 {
		net = 0
	}

	return &models.SalarySlip{
		EmployeeID:      req.EmployeeID,
		Year:            req.Year,
		Month:           req.Month,
		Basic:           req.Basic,
		HRA:             req.HRA,
		Allowances:      req.Allowances,
		PF:              req.PF,
		Tax:             req.Tax,
		OtherDeductions: req.OtherDeductions,
		WorkingDays:     working,
		LeaveDays:       leaveDays,
		LOPDays:         lopDays,
		LOPDeduction:    lop,
		Gross:           gross,
		Net:             net,
	}
}

// Preview calculates the slip for an employee of the organisation without storing it
func (s *SalarySlipService) Preview(ctx context.Context, orgID int, req *models.SalarySlipRequest) (*models.SalarySlip, error) {
	if err := ValidateSlipRequest(req); err != nil {
		return nil, err
	}
	emp, err := s.Employees.Get(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp.OrganizationID != orgID {
		return nil, ErrNotFound
	}

	start, end := timeutil.MonthBounds(req.Year, time.Month(req.Month))
	leave, err := s.Timesheets.LeaveDays(ctx, emp.ID, start, end)
	if err != nil {
		return nil, err
	}

	slip := CalculateSlip(req, leave, s.PaidLeaveDays)
	slip.EmployeeName = emp.Name
	slip.Designation = emp.Designation
	return slip, nil
}

// Issue calculates, archives and stores the slip, then notifies the employee
func (s *SalarySlipService) Issue(ctx context.Context, actor *auth.Claims, req *models.SalarySlipRequest) (*models.SalarySlip, error) {
	slip, err := s.Preview(ctx, actor.OrganizationID, req)
	if err != nil {
		return nil, err
	}
	createdBy := actor.EmployeeID
	slip.CreatedBy = &createdBy

	if s.Archive != nil && s.Archive.Enabled() {
		pdf, err := s.RenderPDF(slip)
		if err != nil {
			return nil, err
		}
		key := storage.SalarySlipKey(slip.EmployeeID, slip.Year, slip.Month)
		if err := s.Archive.Put(ctx, key, pdf, "application/pdf"); err != nil {
			log.Printf("[SalarySlip] Archive failed for employee %d: %v", slip.EmployeeID, err)
		} else {
			slip.ArchiveKey = key
		}
	}

	if err := s.Repo.Save(ctx, slip); err != nil {
		return nil, err
	}
	metrics.SalarySlipsIssued.Inc()

	period := time.Date(slip.Year, time.Month(slip.Month), 1, 0, 0, 0, 0, time.UTC).Format(timeutil.MonthLayout)
	s.Notify.Notify(ctx, slip.EmployeeID, models.NotificationSalarySlipIssued,
		"Salary slip issued", fmt.Sprintf("Your salary slip for %s is available.", period))
	return slip, nil
}

// List returns the slips of an employee the actor may see
func (s *SalarySlipService) List(ctx context.Context, actor *auth.Claims, employeeID int) ([]*models.SalarySlip, error) {
	if err := s.authorize(ctx, actor, employeeID); err != nil {
		return nil, err
	}
	return s.Repo.ListByEmployee(ctx, employeeID)
}

func (s *SalarySlipService) Get(ctx context.Context, actor *auth.Claims, id int) (*models.SalarySlip, error) {
	slip, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, slip.EmployeeID); err != nil {
		return nil, err
	}
	return slip, nil
}

// PDF returns the archived document when available and renders it otherwise
func (s *SalarySlipService) PDF(ctx context.Context, actor *auth.Claims, id int) (*models.SalarySlip, []byte, error) {
	slip, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if slip.ArchiveKey != "" && s.Archive != nil && s.Archive.Enabled() {
		data, err := s.Archive.Get(ctx, slip.ArchiveKey)
		if err == nil {
			return slip, data, nil
		}
		log.Printf("[SalarySlip] Archived copy %s unavailable, re-rendering: %v", slip.ArchiveKey, err)
	}
	data, err := s.RenderPDF(slip)
	return slip, data, err
}

// Slips are private: only the employee and admins see them
func (s *SalarySlipService) authorize(ctx context.Context, actor *auth.Claims, employeeID int) error {
	if actor.EmployeeID == employeeID {
		return nil
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.OrganizationID != actor.OrganizationID {
		return ErrNotFound
	}
	return nil
}

// RenderPDF draws a one-page slip
func (s *SalarySlipService) RenderPDF(slip *models.SalarySlip) ([]byte, error) {
	period := time.Date(slip.Year, time.Month(slip.Month), 1, 0, 0, 0, 0, time.UTC).Format(timeutil.MonthLayout)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 6, "Salary Slip - "+period, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Employee", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, "Name: "+slip.EmployeeName, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Designation: "+slip.Designation, "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Days in month: %d", slip.WorkingDays), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Leave: %d (LOP %d)", slip.LeaveDays, slip.LOPDays), "RB", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(65, 8, "Earnings", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(65, 8, "Deductions", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

	earnings := [][2]string{
		{"Basic", money(slip.Basic)},
		{"HRA", money(slip.HRA)},
		{"Allowances", money(slip.Allowances)},
		{"", ""},
	}
	deductions := [][2]string{
		{"Provident Fund", money(slip.PF)},
		{"Tax", money(slip.Tax)},
		{"Other", money(slip.OtherDeductions)},
		{"Loss of Pay", money(slip.LOPDeduction)},
	}
	pdf.SetFont("Arial", "", 10)
	for i := range earnings {
		pdf.CellFormat(65, 7, earnings[i][0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, earnings[i][1], "1", 0, "R", false, 0, "")
		pdf.CellFormat(65, 7, deductions[i][0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, deductions[i][1], "1", 1, "R", false, 0, "")
	}

	totalDeductions := slip.PF + slip.Tax + slip.OtherDeductions + slip.LOPDeduction
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(65, 8, "Gross", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, money(slip.Gross), "1", 0, "R", true, 0, "")
	pdf.CellFormat(65, 8, "Total Deductions", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, money(totalDeductions), "1", 1, "R", true, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 10, "Net Pay: "+money(slip.Net), "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 8)
	pdf.Ln(6)
	pdf.CellFormat(190, 5, "Generated "+timeutil.Now().Format(timeutil.DisplayLayout), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
