package services

import (
	"context"
	"log"

	"timesheet-backend/internal/models"
)

const defaultNotificationLimit = 50

type NotificationService struct {
	Repo NotificationStore
	Hub  Publisher
}

func NewNotificationService(repo NotificationStore, hub Publisher) *NotificationService {
	return &NotificationService{Repo: repo, Hub: hub}
}

// Notify persists a notification and pushes it to the employee's open sockets.
// Failures are logged; notifying never fails the operation that triggered it.
func (s *NotificationService) Notify(ctx context.Context, employeeID int, kind, title, message string) {
	if s == nil {
		return
	}
	n := &models.Notification{
		EmployeeID: employeeID,
		Kind:       kind,
		Title:      title,
		Message:    message,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		log.Printf("[Notify] Failed to store %s for employee %d: %v", kind, employeeID, err)
		return
	}
	if s.Hub != nil {
		s.Hub.Publish(employeeID, n)
	}
}

func (s *NotificationService) List(ctx context.Context, employeeID int, unreadOnly bool) ([]*models.Notification, error) {
	return s.Repo.List(ctx, employeeID, unreadOnly, defaultNotificationLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, employeeID, id int) error {
	return s.Repo.MarkRead(ctx, employeeID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, employeeID int) (int64, error) {
	return s.Repo.MarkAllRead(ctx, employeeID)
}
