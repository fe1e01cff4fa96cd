package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNotFound is returned when a row does not exist (or is outside the caller's organisation)
	ErrNotFound = errors.New("record not found")
	// ErrLocked is returned when a write targets an approved timesheet record
	ErrLocked = errors.New("record is approved and locked")
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
