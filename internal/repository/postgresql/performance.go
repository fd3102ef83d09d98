package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const performanceColumns = `
	id, employee_id, employee_name, date::text, leads_assigned, prospects_contacted, conversions,
	remarks, country, created_at, updated_at`

type performanceRepository struct {
	db *database.DB
}

func NewPerformanceRepository(db *database.DB) performance.PerformanceRepository {
	return &performanceRepository{db: db}
}

func scanPerformance(row pgx.Row) (performance.Record, error) {
	var rec performance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.LeadsAssigned, &rec.ProspectsContacted, &rec.Conversions,
		&rec.Remarks, &rec.Country, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// FindByEmployeeAndDate implements performance.PerformanceRepository.
func (r *performanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*performance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPerformance(q.QueryRow(ctx,
		`SELECT`+performanceColumns+` FROM performance_records WHERE employee_id = $1 AND date = $2::date`,
		employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get performance record: %w", err)
	}
	return &rec, nil
}

// GetByID implements performance.PerformanceRepository.
func (r *performanceRepository) GetByID(ctx context.Context, id string) (performance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPerformance(q.QueryRow(ctx, `SELECT`+performanceColumns+` FROM performance_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Record{}, performance.ErrRecordNotFound
		}
		return performance.Record{}, fmt.Errorf("failed to get performance record: %w", err)
	}
	return rec, nil
}

// Create implements performance.PerformanceRepository.
func (r *performanceRepository) Create(ctx context.Context, rec performance.Record) (performance.Record, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO performance_records (
			employee_id, employee_name, date, leads_assigned, prospects_contacted, conversions, remarks, country
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`,
		rec.EmployeeID, rec.EmployeeName, rec.Date, rec.LeadsAssigned, rec.ProspectsContacted, rec.Conversions, rec.Remarks, rec.Country,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if uniqueViolationOn(err, "performance_records_employee_date_key") {
			return performance.Record{}, performance.ErrRecordExists
		}
		return performance.Record{}, fmt.Errorf("failed to create performance record: %w", err)
	}
	return rec, nil
}

// Update implements performance.PerformanceRepository.
func (r *performanceRepository) Update(ctx context.Context, rec performance.Record) (performance.Record, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		UPDATE performance_records
		SET leads_assigned = $2,
			prospects_contacted = $3,
			conversions = $4,
			remarks = $5,
			country = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		rec.ID, rec.LeadsAssigned, rec.ProspectsContacted, rec.Conversions, rec.Remarks, rec.Country,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Record{}, performance.ErrRecordNotFound
		}
		return performance.Record{}, fmt.Errorf("failed to update performance record: %w", err)
	}
	return rec, nil
}

// List implements performance.PerformanceRepository.
func (r *performanceRepository) List(ctx context.Context, filter performance.PerformanceFilter) ([]performance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Country != nil {
		conditions = append(conditions, fmt.Sprintf("country = $%d", argIdx))
		args = append(args, *filter.Country)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM performance_records "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count performance records: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM performance_records %s ORDER BY date DESC, employee_name LIMIT $%d OFFSET $%d`,
		performanceColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list performance records: %w", err)
	}
	defer rows.Close()

	var records []performance.Record
	for rows.Next() {
		rec, err := scanPerformance(rows)
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
