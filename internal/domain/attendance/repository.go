package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// LockEmployee serialises clock-in and clock-out for one employee until
	// the surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error

	// FindOpenSession returns nil when the employee has no open session.
	FindOpenSession(ctx context.Context, employeeID string) (*Record, error)

	// FindByEmployeeAndDate returns nil when there is no record for the date.
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*Record, error)

	// Create returns ErrDuplicateSession when a record for the same date or
	// a second open session would be stored.
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Record, int64, error)
	Delete(ctx context.Context, id string) error

	CountByStatus(ctx context.Context, date string) (map[Status]int64, error)
	CountOpenSessions(ctx context.Context) (int64, error)
	// ListStaleOpenSessions returns open sessions checked in before the cutoff.
	ListStaleOpenSessions(ctx context.Context, checkedInBefore time.Time) ([]Record, error)
}
