package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var found employee.Employee
	err := r.store.view(ctx, func(t *tables) error {
		e, ok := t.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		found = e
		return nil
	})
	return found, err
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.store.view(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if e.EmployeeCode == newEmployee.EmployeeCode {
				return employee.ErrEmployeeCodeExists
			}
			if strings.EqualFold(e.Email, newEmployee.Email) {
				return employee.ErrEmailExists
			}
		}
		now := r.store.now()
		if newEmployee.ID == "" {
			newEmployee.ID = newID()
		}
		newEmployee.CreatedAt = now
		newEmployee.UpdatedAt = now
		t.employees[newEmployee.ID] = newEmployee
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return newEmployee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var matched []employee.Employee
	err := r.store.view(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if matchesEmployee(e, filter) {
				matched = append(matched, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b employee.Employee) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func matchesEmployee(e employee.Employee, f employee.EmployeeFilter) bool {
	if f.Search != nil && *f.Search != "" {
		q := strings.ToLower(*f.Search)
		if !strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Email), q) &&
			!strings.Contains(strings.ToLower(e.EmployeeCode), q) {
			return false
		}
	}
	if f.Department != nil && *f.Department != "" && e.Department != *f.Department {
		return false
	}
	if f.Status != nil && string(e.Status) != *f.Status {
		return false
	}
	return true
}

func (r *employeeRepository) UpdateShift(ctx context.Context, id string, req employee.UpdateShiftRequest) (employee.Employee, error) {
	var updated employee.Employee
	err := r.store.view(ctx, func(t *tables) error {
		e, ok := t.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		e.ShiftStartTime, e.ShiftEndTime = req.Clocks()
		e.UpdatedAt = r.store.now()
		t.employees[id] = e
		updated = e
		return nil
	})
	return updated, err
}

func (r *employeeRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if e.Status == employee.StatusActive {
				n++
			}
		}
		return nil
	})
	return n, err
}
