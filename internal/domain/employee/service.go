package employee

import (
	"context"
)

// EmployeeService defines admin record management for employees
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpdateShift sets or clears the employee's own shift times
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (EmployeeResponse, error)
}
