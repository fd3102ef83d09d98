package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, employee_name, date::text,
	check_in_time, check_out_time, check_in_timestamp, check_out_timestamp,
	total_hours::float8, status, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date,
		&rec.CheckInTime, &rec.CheckOutTime, &rec.CheckInTimestamp, &rec.CheckOutTimestamp,
		&rec.TotalHours, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// LockEmployee implements attendance.AttendanceRepository. The advisory
// lock is released when the surrounding transaction ends.
func (a *attendanceRepository) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, a.db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee %s: %w", employeeID, err)
	}
	return nil
}

// FindOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOpenSession(ctx context.Context, employeeID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND check_out_timestamp IS NULL
		ORDER BY check_in_timestamp DESC
		LIMIT 1
	`
	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return &rec, nil
}

// FindByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2::date
		LIMIT 1
	`
	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, employee_name, date,
			check_in_time, check_out_time, check_in_timestamp, check_out_timestamp,
			total_hours, status
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.EmployeeName,
		record.Date,
		record.CheckInTime,
		record.CheckOutTime,
		record.CheckInTimestamp,
		record.CheckOutTimestamp,
		record.TotalHours,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if uniqueViolationOn(err) {
			return attendance.Record{}, attendance.ErrDuplicateSession
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return record, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_time = $2,
			check_out_timestamp = $3,
			total_hours = $4,
			status = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		record.ID,
		record.CheckOutTime,
		record.CheckOutTimestamp,
		record.TotalHours,
		record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		if uniqueViolationOn(err) {
			return attendance.Record{}, attendance.ErrDuplicateSession
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE id = $1
	`
	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return rec, nil
}

var attendanceSortColumns = map[string]string{
	"date":          "date",
	"employee_name": "employee_name",
	"check_in":      "check_in_timestamp",
	"status":        "status",
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		conditions = append(conditions, fmt.Sprintf("employee_name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d::date", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
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
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	sortColumn, ok := attendanceSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "date"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records
		%s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d`,
		attendanceColumns, where, sortColumn, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)
	commandTag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, date string) (map[attendance.Status]int64, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `
		SELECT status, COUNT(*)
		FROM attendance_records
		WHERE date = $1::date
		GROUP BY status
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	defer rows.Close()

	counts := map[attendance.Status]int64{}
	for rows.Next() {
		var status attendance.Status
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountOpenSessions(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, a.db)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records WHERE check_out_timestamp IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open sessions: %w", err)
	}
	return n, nil
}

// ListStaleOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListStaleOpenSessions(ctx context.Context, checkedInBefore time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE check_out_timestamp IS NULL
		  AND check_in_timestamp < $1
		ORDER BY check_in_timestamp
	`
	rows, err := q.Query(ctx, query, checkedInBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
