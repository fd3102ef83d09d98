package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		EmployeeCode: req.EmployeeCode,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         employee.Role(req.Role),
		Department:   req.Department,
		Phone:        req.Phone,
		Status:       employee.Status(req.Status),
		WorkType:     employee.WorkType(req.WorkType),
	}
	if req.JoiningDate != nil {
		joined, err := time.Parse(time.DateOnly, *req.JoiningDate)
		if err == nil {
			newEmployee.JoiningDate = &joined
		}
	}
	if req.ShiftStartTime != nil && req.ShiftEndTime != nil {
		start := shift.MustParseClock(*req.ShiftStartTime)
		end := shift.MustParseClock(*req.ShiftEndTime)
		newEmployee.ShiftStartTime = &start
		newEmployee.ShiftEndTime = &end
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return employee.NewEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// UpdateShift implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateShift(ctx context.Context, req employee.UpdateShiftRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.UpdateShift(ctx, req.EmployeeID, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee shift updated", "employee_id", updated.ID)
	return employee.NewEmployeeResponse(updated), nil
}
