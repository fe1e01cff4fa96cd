package repositories

import (
	"context"

	"timesheet-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	DB *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) CreatePackage(ctx context.Context, p *models.Package) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO packages(organization_id, title, description) VALUES($1, $2, $3)
		 RETURNING id, created_at`,
		p.OrganizationID, p.Title, p.Description,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *ProjectRepository) GetPackage(ctx context.Context, orgID, id int) (*models.Package, error) {
	var p models.Package
	err := r.DB.QueryRow(ctx,
		`SELECT id, organization_id, title, description, created_at FROM packages
		 WHERE id=$1 AND organization_id=$2`, id, orgID,
	).Scan(&p.ID, &p.OrganizationID, &p.Title, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProjectRepository) CreateTask(ctx context.Context, t *models.Task) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO tasks(package_id, title) VALUES($1, $2) RETURNING id, created_at`,
		t.PackageID, t.Title,
	).Scan(&t.ID, &t.CreatedAt)
}

// ListPackages returns every package of an organisation with its tasks
func (r *ProjectRepository) ListPackages(ctx context.Context, orgID int) ([]*models.Package, error) {
	return r.packagesWithTasks(ctx,
		`SELECT p.id, p.organization_id, p.title, p.description, p.created_at,
		        t.id, t.title, t.created_at
		 FROM packages p
		 LEFT JOIN tasks t ON t.package_id = p.id
		 WHERE p.organization_id = $1
		 ORDER BY p.id, t.id`, orgID)
}

// ListAssigned returns the packages assigned to an employee with their tasks
func (r *ProjectRepository) ListAssigned(ctx context.Context, employeeID int) ([]*models.Package, error) {
	return r.packagesWithTasks(ctx,
		`SELECT p.id, p.organization_id, p.title, p.description, p.created_at,
		        t.id, t.title, t.created_at
		 FROM package_assignments pa
		 JOIN packages p ON p.id = pa.package_id
		 LEFT JOIN tasks t ON t.package_id = p.id
		 WHERE pa.employee_id = $1
		 ORDER BY p.id, t.id`, employeeID)
}

func (r *ProjectRepository) packagesWithTasks(ctx context.Context, sql string, args ...any) ([]*models.Package, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []*models.Package
	byID := make(map[int]*models.Package)
	for rows.Next() {
		var p models.Package
		var taskID *int
		var taskTitle *string
		var task models.Task
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Title, &p.Description, &p.CreatedAt,
			&taskID, &taskTitle, &task.CreatedAt); err != nil {
			return nil, err
		}
		pkg, ok := byID[p.ID]
		if !ok {
			pkg = &p
			byID[p.ID] = pkg
			packages = append(packages, pkg)
		}
		if taskID != nil {
			task.ID = *taskID
			task.PackageID = p.ID
			if taskTitle != nil {
				task.Title = *taskTitle
			}
			pkg.Tasks = append(pkg.Tasks, &task)
		}
	}
	return packages, rows.Err()
}

// Assign links an employee to a package; assigning twice is a no-op
func (r *ProjectRepository) Assign(ctx context.Context, packageID, employeeID int) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO package_assignments(package_id, employee_id) VALUES($1, $2)
		 ON CONFLICT DO NOTHING`, packageID, employeeID)
	return err
}

// ListAssignees returns the ids of the employees assigned to a package
func (r *ProjectRepository) ListAssignees(ctx context.Context, packageID int) ([]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT employee_id FROM package_assignments WHERE package_id=$1 ORDER BY employee_id`, packageID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// Unassign removes an employee from a package
func (r *ProjectRepository) Unassign(ctx context.Context, packageID, employeeID int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM package_assignments WHERE package_id=$1 AND employee_id=$2`, packageID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
