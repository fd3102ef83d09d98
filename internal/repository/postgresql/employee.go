package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	id, employee_code, name, email, role, department, phone, status, work_type,
	joining_date, to_char(shift_start_time, 'HH24:MI'), to_char(shift_end_time, 'HH24:MI'),
	created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var start, end *string
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.Name, &e.Email, &e.Role, &e.Department, &e.Phone, &e.Status, &e.WorkType,
		&e.JoiningDate, &start, &end,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if start != nil && end != nil {
		s, err := shift.ParseClock(*start)
		if err != nil {
			return employee.Employee{}, err
		}
		en, err := shift.ParseClock(*end)
		if err != nil {
			return employee.Employee{}, err
		}
		e.ShiftStartTime, e.ShiftEndTime = &s, &en
	}
	return e, nil
}

func clockString(c *shift.Clock) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			employee_code, name, email, role, department, phone, status, work_type,
			joining_date, shift_start_time, shift_end_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10::time, $11::time
		) RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		newEmployee.EmployeeCode,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.Role,
		newEmployee.Department,
		newEmployee.Phone,
		newEmployee.Status,
		newEmployee.WorkType,
		newEmployee.JoiningDate,
		clockString(newEmployee.ShiftStartTime),
		clockString(newEmployee.ShiftEndTime),
	).Scan(&newEmployee.ID, &newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		switch {
		case uniqueViolationOn(err, "employees_code_key"):
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		case uniqueViolationOn(err, "employees_email_key"):
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR employee_code ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM employees %s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		employeeColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// UpdateShift implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateShift(ctx context.Context, id string, req employee.UpdateShiftRequest) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	start, end := req.Clocks()
	query := `
		UPDATE employees
		SET shift_start_time = $2::time,
			shift_end_time = $3::time,
			updated_at = NOW()
		WHERE id = $1
		RETURNING` + employeeColumns
	e, err := scanEmployee(q.QueryRow(ctx, query, id, clockString(start), clockString(end)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee shift: %w", err)
	}
	return e, nil
}

// CountActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE status = $1`, employee.StatusActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return n, nil
}
