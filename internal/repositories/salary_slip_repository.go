package repositories

import (
	"context"

	"timesheet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SalarySlipRepository struct {
	DB *pgxpool.Pool
}

func NewSalarySlipRepository(db *pgxpool.Pool) *SalarySlipRepository {
	return &SalarySlipRepository{DB: db}
}

const salarySlipSelect = `
	SELECT s.id, s.employee_id, e.name, e.designation, s.year, s.month,
	       s.basic::float8, s.hra::float8, s.allowances::float8, s.pf::float8, s.tax::float8,
	       s.other_deductions::float8, s.working_days, s.leave_days, s.lop_days,
	       s.lop_deduction::float8, s.gross::float8, s.net::float8,
	       s.archive_key, s.created_by, s.created_at
	FROM salary_slips s
	JOIN employees e ON e.id = s.employee_id`

func scanSlip(row interface{ Scan(...any) error }) (*models.SalarySlip, error) {
	var s models.SalarySlip
	err := row.Scan(&s.ID, &s.EmployeeID, &s.EmployeeName, &s.Designation, &s.Year, &s.Month,
		&s.Basic, &s.HRA, &s.Allowances, &s.PF, &s.Tax,
		&s.OtherDeductions, &s.WorkingDays, &s.LeaveDays, &s.LOPDays,
		&s.LOPDeduction, &s.Gross, &s.Net,
		&s.ArchiveKey, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Save stores a slip; issuing the same month again replaces the earlier slip
func (r *SalarySlipRepository) Save(ctx context.Context, s *models.SalarySlip) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO salary_slips(employee_id, year, month, basic, hra, allowances, pf, tax,
		    other_deductions, working_days, leave_days, lop_days, lop_deduction, gross, net,
		    archive_key, created_by)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (employee_id, year, month) DO UPDATE SET
		    basic=EXCLUDED.basic, hra=EXCLUDED.hra, allowances=EXCLUDED.allowances,
		    pf=EXCLUDED.pf, tax=EXCLUDED.tax, other_deductions=EXCLUDED.other_deductions,
		    working_days=EXCLUDED.working_days, leave_days=EXCLUDED.leave_days,
		    lop_days=EXCLUDED.lop_days, lop_deduction=EXCLUDED.lop_deduction,
		    gross=EXCLUDED.gross, net=EXCLUDED.net, archive_key=EXCLUDED.archive_key,
		    created_by=EXCLUDED.created_by, created_at=NOW()
		 RETURNING id, created_at`,
		s.EmployeeID, s.Year, s.Month, s.Basic, s.HRA, s.Allowances, s.PF, s.Tax,
		s.OtherDeductions, s.WorkingDays, s.LeaveDays, s.LOPDays, s.LOPDeduction, s.Gross, s.Net,
		s.ArchiveKey, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *SalarySlipRepository) Get(ctx context.Context, id int) (*models.SalarySlip, error) {
	return scanSlip(r.DB.QueryRow(ctx, salarySlipSelect+` WHERE s.id=$1`, id))
}

// ListByEmployee returns an employee's slips, newest month first
func (r *SalarySlipRepository) ListByEmployee(ctx context.Context, employeeID int) ([]*models.SalarySlip, error) {
	rows, err := r.DB.Query(ctx, salarySlipSelect+`
		WHERE s.employee_id=$1 ORDER BY s.year DESC, s.month DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []*models.SalarySlip
	for rows.Next() {
		s, err := scanSlip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, s)
	}
	return slips, rows.Err()
}

func (r *SalarySlipRepository) SetArchiveKey(ctx context.Context, id int, key string) error {
	_, err := r.DB.Exec(ctx, `UPDATE salary_slips SET archive_key=$1 WHERE id=$2`, key, id)
	return err
}
