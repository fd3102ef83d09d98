package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

// LockEmployee implements attendance.AttendanceRepository. Transactions on
// the store are already serialised.
func (r *attendanceRepository) LockEmployee(ctx context.Context, employeeID string) error {
	return nil
}

func (r *attendanceRepository) FindOpenSession(ctx context.Context, employeeID string) (*attendance.Record, error) {
	var found *attendance.Record
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
			if rec.EmployeeID == employeeID && rec.IsOpen() {
				rec := rec
				found = &rec
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Record, error) {
	var found *attendance.Record
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
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

func (r *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
			if rec.EmployeeID != record.EmployeeID {
				continue
			}
			if rec.Date == record.Date || (rec.IsOpen() && record.IsOpen()) {
				return attendance.ErrDuplicateSession
			}
		}
		now := r.store.now()
		record.ID = newID()
		record.CreatedAt = now
		record.UpdatedAt = now
		t.attendance[record.ID] = record
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return record, nil
}

func (r *attendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	err := r.store.view(ctx, func(t *tables) error {
		current, ok := t.attendance[record.ID]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		for id, rec := range t.attendance {
			if id == record.ID || rec.EmployeeID != record.EmployeeID {
				continue
			}
			if rec.Date == record.Date || (rec.IsOpen() && record.IsOpen()) {
				return attendance.ErrDuplicateSession
			}
		}
		record.CreatedAt = current.CreatedAt
		record.UpdatedAt = r.store.now()
		t.attendance[record.ID] = record
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return record, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	var found attendance.Record
	err := r.store.view(ctx, func(t *tables) error {
		rec, ok := t.attendance[id]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		found = rec
		return nil
	})
	return found, err
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	var matched []attendance.Record
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
			if matchesAttendance(rec, filter) {
				matched = append(matched, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	slices.SortFunc(matched, func(a, b attendance.Record) int {
		var c int
		switch filter.SortBy {
		case "employee_name":
			c = cmp.Compare(a.EmployeeName, b.EmployeeName)
		case "check_in":
			c = a.CheckInTimestamp.Compare(b.CheckInTimestamp)
		case "status":
			c = cmp.Compare(a.Status, b.Status)
		default:
			c = cmp.Compare(a.Date, b.Date)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if filter.SortOrder == "desc" {
			return -c
		}
		return c
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func matchesAttendance(rec attendance.Record, f attendance.AttendanceFilter) bool {
	if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.EmployeeName != nil && !strings.Contains(strings.ToLower(rec.EmployeeName), strings.ToLower(*f.EmployeeName)) {
		return false
	}
	if f.Date != nil && *f.Date != "" && rec.Date != *f.Date {
		return false
	}
	if f.StartDate != nil && *f.StartDate != "" && rec.Date < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && rec.Date > *f.EndDate {
		return false
	}
	if f.Status != nil && string(rec.Status) != *f.Status {
		return false
	}
	return true
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	return r.store.view(ctx, func(t *tables) error {
		if _, ok := t.attendance[id]; !ok {
			return attendance.ErrAttendanceNotFound
		}
		delete(t.attendance, id)
		return nil
	})
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, date string) (map[attendance.Status]int64, error) {
	counts := map[attendance.Status]int64{}
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
			if rec.Date == date {
				counts[rec.Status]++
			}
		}
		return nil
	})
	return counts, err
}

func (r *attendanceRepository) CountOpenSessions(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
			if rec.IsOpen() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *attendanceRepository) ListStaleOpenSessions(ctx context.Context, checkedInBefore time.Time) ([]attendance.Record, error) {
	var stale []attendance.Record
	err := r.store.view(ctx, func(t *tables) error {
		for _, rec := range t.attendance {
			if rec.IsOpen() && rec.CheckInTimestamp.Before(checkedInBefore) {
				stale = append(stale, rec)
			}
		}
		return nil
	})
	slices.SortFunc(stale, func(a, b attendance.Record) int {
		return a.CheckInTimestamp.Compare(b.CheckInTimestamp)
	})
	return stale, err
}
