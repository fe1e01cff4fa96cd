package services

import (
	"errors"

	"timesheet-backend/internal/repositories"
)

var (
	ErrNotFound        = repositories.ErrNotFound
	ErrLocked          = repositories.ErrLocked
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidLogin    = errors.New("invalid email or password")
	ErrAccountInactive = errors.New("account is paused")
	ErrDuplicateEmail  = errors.New("an employee with this email already exists")
)
