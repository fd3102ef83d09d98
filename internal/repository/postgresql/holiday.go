package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const holidayColumns = ` id, name, date::text, type, created_at `

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(&h.ID, &h.Name, &h.Date, &h.Type, &h.CreatedAt)
	return h, err
}

func (r *holidayRepository) query(ctx context.Context, query string, args ...any) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO holidays (name, date, type)
		VALUES ($1, $2::date, $3)
		RETURNING id, created_at
	`, h.Name, h.Date, h.Type).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		if uniqueViolationOn(err, "holidays_date_key") {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

// GetByDate implements holiday.HolidayRepository.
func (r *holidayRepository) GetByDate(ctx context.Context, date string) (*holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT`+holidayColumns+`FROM holidays WHERE date = $1::date`, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday by date: %w", err)
	}
	return &h, nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepository) List(ctx context.Context, year int) ([]holiday.Holiday, error) {
	if year == 0 {
		return r.query(ctx, `SELECT`+holidayColumns+`FROM holidays ORDER BY date`)
	}
	return r.query(ctx, `SELECT`+holidayColumns+`FROM holidays WHERE EXTRACT(YEAR FROM date) = $1 ORDER BY date`, year)
}

// ListBetween implements holiday.HolidayRepository.
func (r *holidayRepository) ListBetween(ctx context.Context, from, to string) ([]holiday.Holiday, error) {
	return r.query(ctx, `SELECT`+holidayColumns+`FROM holidays WHERE date BETWEEN $1::date AND $2::date ORDER BY date`, from, to)
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	commandTag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}
