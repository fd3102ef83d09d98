package performance

import "context"

type PerformanceRepository interface {
	// FindByEmployeeAndDate returns nil when there is no record.
	FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// Create returns ErrRecordExists for a second record on the same date.
	Create(ctx context.Context, r Record) (Record, error)
	Update(ctx context.Context, r Record) (Record, error)
	List(ctx context.Context, filter PerformanceFilter) ([]Record, int64, error)
}
