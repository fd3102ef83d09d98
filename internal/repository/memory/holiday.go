package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
)

type holidayRepository struct {
	store *Store
}

func NewHolidayRepository(store *Store) holiday.HolidayRepository {
	return &holidayRepository{store: store}
}

func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	err := r.store.view(ctx, func(t *tables) error {
		for _, existing := range t.holidays {
			if existing.Date == h.Date {
				return holiday.ErrHolidayExists
			}
		}
		h.ID = newID()
		h.CreatedAt = r.store.now()
		t.holidays[h.ID] = h
		return nil
	})
	if err != nil {
		return holiday.Holiday{}, err
	}
	return h, nil
}

func (r *holidayRepository) GetByDate(ctx context.Context, date string) (*holiday.Holiday, error) {
	var found *holiday.Holiday
	err := r.store.view(ctx, func(t *tables) error {
		for _, h := range t.holidays {
			if h.Date == date {
				h := h
				found = &h
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *holidayRepository) List(ctx context.Context, year int) ([]holiday.Holiday, error) {
	prefix := ""
	if year > 0 {
		prefix = fmt.Sprintf("%04d-", year)
	}
	return r.collect(ctx, func(h holiday.Holiday) bool {
		return strings.HasPrefix(h.Date, prefix)
	})
}

func (r *holidayRepository) ListBetween(ctx context.Context, from, to string) ([]holiday.Holiday, error) {
	return r.collect(ctx, func(h holiday.Holiday) bool {
		return h.Date >= from && h.Date <= to
	})
}

func (r *holidayRepository) collect(ctx context.Context, keep func(holiday.Holiday) bool) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	err := r.store.view(ctx, func(t *tables) error {
		for _, h := range t.holidays {
			if keep(h) {
				out = append(out, h)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b holiday.Holiday) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out, err
}

func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	return r.store.view(ctx, func(t *tables) error {
		if _, ok := t.holidays[id]; !ok {
			return holiday.ErrHolidayNotFound
		}
		delete(t.holidays, id)
		return nil
	})
}
