package repositories

import (
	"context"

	"timesheet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO notifications(employee_id, kind, title, message) VALUES($1, $2, $3, $4)
		 RETURNING id, is_read, created_at`,
		n.EmployeeID, n.Kind, n.Title, n.Message,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

// List returns the latest notifications of an employee
func (r *NotificationRepository) List(ctx context.Context, employeeID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, employee_id, kind, title, message, is_read, created_at
		 FROM notifications
		 WHERE employee_id=$1 AND (NOT $2 OR NOT is_read)
		 ORDER BY created_at DESC LIMIT $3`, employeeID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Kind, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, employeeID, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE id=$1 AND employee_id=$2`, id, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, employeeID int) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE employee_id=$1 AND NOT is_read`, employeeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
