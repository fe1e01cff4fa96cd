package repositories

import (
	"context"

	"timesheet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepository struct {
	DB *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

const employeeColumns = `id, organization_id, name, email, phone, designation, password_hash, role, mentor_id, is_active, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Email, &e.Phone, &e.Designation,
		&e.PasswordHash, &e.Role, &e.MentorID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	if e.Role == "" {
		e.Role = models.RoleEmployee // Default role
	}
	e.IsActive = true
	return r.DB.QueryRow(ctx,
		`INSERT INTO employees(organization_id, name, email, phone, designation, password_hash, role, mentor_id, is_active)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id, created_at, updated_at`,
		e.OrganizationID, e.Name, e.Email, e.Phone, e.Designation, e.PasswordHash, e.Role, e.MentorID, e.IsActive,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EmployeeRepository) Get(ctx context.Context, id int) (*models.Employee, error) {
	return scanEmployee(r.DB.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id))
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return scanEmployee(r.DB.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE lower(email)=lower($1)`, email))
}

// List returns all employees of an organisation
func (r *EmployeeRepository) List(ctx context.Context, orgID int) ([]*models.Employee, error) {
	return r.query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE organization_id=$1 ORDER BY name`, orgID)
}

// ListMentees returns the employees mentored by mentorID
func (r *EmployeeRepository) ListMentees(ctx context.Context, mentorID int) ([]*models.Employee, error) {
	return r.query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE mentor_id=$1 AND is_active ORDER BY name`, mentorID)
}

func (r *EmployeeRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Employee, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Update updates an existing employee; an empty PasswordHash keeps the current password
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE employees SET name=$1, email=$2, phone=$3, designation=$4, role=$5, mentor_id=$6,
		 password_hash=COALESCE(NULLIF($7, ''), password_hash), updated_at=NOW()
		 WHERE id=$8 AND organization_id=$9`,
		e.Name, e.Email, e.Phone, e.Designation, e.Role, e.MentorID, e.PasswordHash, e.ID, e.OrganizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile changes the self-service fields of an employee
func (r *EmployeeRepository) UpdateProfile(ctx context.Context, id int, name, phone string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE employees SET name=$1, phone=$2, updated_at=NOW() WHERE id=$3`, name, phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive pauses or resumes an employee account
func (r *EmployeeRepository) SetActive(ctx context.Context, orgID, id int, active bool) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE employees SET is_active=$1, updated_at=NOW() WHERE id=$2 AND organization_id=$3`,
		active, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
