package repositories

import (
	"context"
	"time"

	"timesheet-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimesheetRepository struct {
	DB *pgxpool.Pool
}

func NewTimesheetRepository(db *pgxpool.Pool) *TimesheetRepository {
	return &TimesheetRepository{DB: db}
}

const timesheetSelect = `
	SELECT ts.id, ts.employee_id, p.id, p.title, t.id, t.title, ts.work_date, ts.hours::float8,
	       ts.comments, ts.leave_reason, ts.is_holiday, ts.is_vacation, ts.is_week_off,
	       ts.status, ts.updated_at
	FROM timesheets ts
	JOIN tasks t ON t.id = ts.task_id
	JOIN packages p ON p.id = t.package_id`

func (r *TimesheetRepository) query(ctx context.Context, sql string, args ...any) ([]*models.TimesheetRow, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.TimesheetRow
	for rows.Next() {
		var row models.TimesheetRow
		if err := rows.Scan(&row.ID, &row.EmployeeID, &row.PackageID, &row.PackageTitle,
			&row.TaskID, &row.TaskTitle, &row.WorkDate, &row.Hours,
			&row.Comments, &row.LeaveReason, &row.IsHoliday, &row.IsVacation, &row.IsWeekOff,
			&row.Status, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// ListRange returns an employee's records with work_date in [start, end]
func (r *TimesheetRepository) ListRange(ctx context.Context, employeeID int, start, end time.Time) ([]*models.TimesheetRow, error) {
	return r.query(ctx, timesheetSelect+`
		WHERE ts.employee_id = $1 AND ts.work_date BETWEEN $2 AND $3
		ORDER BY p.id, t.id, ts.work_date`, employeeID, start, end)
}

// ListByIDs returns the employee's records with the given ids; unknown ids are skipped
func (r *TimesheetRepository) ListByIDs(ctx context.Context, employeeID int, ids []int) ([]*models.TimesheetRow, error) {
	return r.query(ctx, timesheetSelect+`
		WHERE ts.employee_id = $1 AND ts.id = ANY($2)`, employeeID, ids)
}

// ListByStatus returns the records of an organisation in a given status, oldest first
func (r *TimesheetRepository) ListByStatus(ctx context.Context, orgID int, status string) ([]*models.TimesheetRow, error) {
	return r.query(ctx, timesheetSelect+`
		JOIN employees e ON e.id = ts.employee_id
		WHERE e.organization_id = $1 AND ts.status = $2
		ORDER BY ts.employee_id, ts.work_date`, orgID, status)
}

// UpsertBatch writes all records in a single transaction.
// Records that are already Approved are never overwritten: if any record in the
// batch hits one, the whole batch is rolled back and ErrLocked is returned.
func (r *TimesheetRepository) UpsertBatch(ctx context.Context, records []models.TimesheetUpsert) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if err := upsertOne(ctx, tx, rec); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func upsertOne(ctx context.Context, tx pgx.Tx, rec models.TimesheetUpsert) error {
	if rec.ID > 0 {
		tag, err := tx.Exec(ctx,
			`UPDATE timesheets SET hours=$1, comments=$2, leave_reason=$3,
			 is_holiday=$4, is_vacation=$5, is_week_off=$6, status=$7, updated_at=NOW()
			 WHERE id=$8 AND employee_id=$9 AND task_id=$10 AND work_date=$11 AND status <> 'Approved'`,
			rec.Hours, rec.Comments, rec.LeaveReason, rec.IsHoliday, rec.IsVacation, rec.IsWeekOff,
			rec.Status, rec.ID, rec.EmployeeID, rec.TaskID, rec.WorkDate)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return lockedOrMissing(ctx, tx, rec)
		}
		return nil
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO timesheets(employee_id, task_id, work_date, hours, comments, leave_reason,
		                        is_holiday, is_vacation, is_week_off, status)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (employee_id, task_id, work_date) DO UPDATE SET
		   hours=EXCLUDED.hours, comments=EXCLUDED.comments, leave_reason=EXCLUDED.leave_reason,
		   is_holiday=EXCLUDED.is_holiday, is_vacation=EXCLUDED.is_vacation,
		   is_week_off=EXCLUDED.is_week_off, status=EXCLUDED.status, updated_at=NOW()
		 WHERE timesheets.status <> 'Approved'`,
		rec.EmployeeID, rec.TaskID, rec.WorkDate, rec.Hours, rec.Comments, rec.LeaveReason,
		rec.IsHoliday, rec.IsVacation, rec.IsWeekOff, rec.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLocked
	}
	return nil
}

// lockedOrMissing explains why an update by id touched nothing. The id must
// still point at the same task and date; the natural key is never rewritten.
func lockedOrMissing(ctx context.Context, tx pgx.Tx, rec models.TimesheetUpsert) error {
	var status string
	err := tx.QueryRow(ctx,
		`SELECT status FROM timesheets WHERE id=$1 AND employee_id=$2 AND task_id=$3 AND work_date=$4`,
		rec.ID, rec.EmployeeID, rec.TaskID, rec.WorkDate).Scan(&status)
	if err != nil {
		return notFound(err)
	}
	return ErrLocked
}

// UpdateStatus sets the review status of submitted records of one employee.
// Records still in Not Submitted are left alone. Returns the number of records changed.
func (r *TimesheetRepository) UpdateStatus(ctx context.Context, employeeID int, ids []int, status string, reviewerID int) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE timesheets SET status=$1, reviewed_by=$2, reviewed_at=NOW(), updated_at=NOW()
		 WHERE employee_id=$3 AND id = ANY($4) AND status <> 'Not Submitted'`,
		status, reviewerID, employeeID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
