package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	"github.com/google/uuid"
)

// Store is an in-process implementation of every repository. Transactions
// are serialised on one mutex and rolled back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

type tables struct {
	attendance  map[string]attendance.Record
	employees   map[string]employee.Employee
	leaves      map[string]leave.LeaveRequest
	holidays    map[string]holiday.Holiday
	performance map[string]performance.Record
	settings    *settings.Settings
}

func (t *tables) clone() *tables {
	c := &tables{
		attendance:  maps.Clone(t.attendance),
		employees:   maps.Clone(t.employees),
		leaves:      maps.Clone(t.leaves),
		holidays:    maps.Clone(t.holidays),
		performance: maps.Clone(t.performance),
	}
	if t.settings != nil {
		s := *t.settings
		c.settings = &s
	}
	return c
}

type Option func(*Store)

// WithClock sets the clock used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		data: &tables{
			attendance:  map[string]attendance.Record{},
			employees:   map[string]employee.Employee{},
			leaves:      map[string]leave.LeaveRequest{},
			holidays:    map[string]holiday.Holiday{},
			performance: map[string]performance.Record{},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithinTx implements domain.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// Transactor returns the store as a domain.Transactor.
func (s *Store) Transactor() domain.Transactor {
	return s
}

// view runs fn with the tables, locking unless ctx already holds the store.
func (s *Store) view(ctx context.Context, fn func(t *tables) error) error {
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}
