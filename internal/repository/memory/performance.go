package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
)

type performanceRepository struct {
	store *Store
}

func NewPerformanceRepository(store *Store) performance.PerformanceRepository {
	return &performanceRepository{store: store}
}

func (r *performanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*performance.Record, error) {
	var found *performance.Record
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.performance {
			if rec.EmployeeID == employeeID && rec.Date == date {
				rec := rec
				found = &rec
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *performanceRepository) GetByID(ctx context.Context, id string) (performance.Record, error) {
	var found performance.Record
	err := r.store.view(ctx, func(t *tables) error {
		rec, ok := t.performance[id]
		if !ok {
			return performance.ErrRecordNotFound
		}
		found = rec
		return nil
	})
	return found, err
}

func (r *performanceRepository) Create(ctx context.Context, rec performance.Record) (performance.Record, error) {
	err := r.store.view(ctx, func(t *tables) error {
		for _, existing := range t.performance {
			if existing.EmployeeID == rec.EmployeeID && existing.Date == rec.Date {
				return performance.ErrRecordExists
			}
		}
		now := r.store.now()
		rec.ID = newID()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		t.performance[rec.ID] = rec
		return nil
	})
	if err != nil {
		return performance.Record{}, err
	}
	return rec, nil
}

func (r *performanceRepository) Update(ctx context.Context, rec performance.Record) (performance.Record, error) {
	err := r.store.view(ctx, func(t *tables) error {
		current, ok := t.performance[rec.ID]
		if !ok {
			return performance.ErrRecordNotFound
		}
		rec.CreatedAt = current.CreatedAt
		rec.UpdatedAt = r.store.now()
		t.performance[rec.ID] = rec
		return nil
	})
	if err != nil {
		return performance.Record{}, err
	}
	return rec, nil
}

func (r *performanceRepository) List(ctx context.Context, filter performance.PerformanceFilter) ([]performance.Record, int64, error) {
	var matched []performance.Record
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.performance {
			if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.StartDate != nil && rec.Date < *filter.StartDate {
				continue
			}
			if filter.EndDate != nil && rec.Date > *filter.EndDate {
				continue
			}
			if filter.Country != nil && rec.Country != *filter.Country {
				continue
			}
			matched = append(matched, rec)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(matched, func(a, b performance.Record) int {
		return cmp.Or(cmp.Compare(b.Date, a.Date), cmp.Compare(a.EmployeeName, b.EmployeeName))
	})
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}
