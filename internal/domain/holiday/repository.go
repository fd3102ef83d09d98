package holiday

import "context"

type HolidayRepository interface {
	// Create returns ErrHolidayExists when the date is taken.
	Create(ctx context.Context, h Holiday) (Holiday, error)

	// GetByDate returns nil when date is not a holiday.
	GetByDate(ctx context.Context, date string) (*Holiday, error)

	// List returns holidays ordered by date; year 0 means all years.
	List(ctx context.Context, year int) ([]Holiday, error)

	// ListBetween returns holidays with from <= date <= to.
	ListBetween(ctx context.Context, from, to string) ([]Holiday, error)

	Delete(ctx context.Context, id string) error
}
