package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when no employee has the id.
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	UpdateShift(ctx context.Context, id string, req UpdateShiftRequest) (Employee, error)
	CountActive(ctx context.Context) (int64, error)
}
