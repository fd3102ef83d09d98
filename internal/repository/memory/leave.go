package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
)

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	err := r.store.view(ctx, func(t *tables) error {
		now := r.store.now()
		req.ID = newID()
		if req.AppliedOn.IsZero() {
			req.AppliedOn = now
		}
		req.CreatedAt = now
		req.UpdatedAt = now
		t.leaves[req.ID] = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return req, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var found leave.LeaveRequest
	err := r.store.view(ctx, func(t *tables) error {
		l, ok := t.leaves[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		found = l
		return nil
	})
	return found, err
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	var matched []leave.LeaveRequest
	err := r.store.view(ctx, func(t *tables) error {
		for _, l := range t.leaves {
			if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Status != nil && string(l.Status) != *filter.Status {
				continue
			}
			if filter.Type != nil && string(l.Type) != *filter.Type {
				continue
			}
			matched = append(matched, l)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	// newest first
	slices.SortFunc(matched, func(a, b leave.LeaveRequest) int {
		return cmp.Or(b.AppliedOn.Compare(a.AppliedOn), cmp.Compare(b.ID, a.ID))
	})
	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, remarks *string, processedAt time.Time) (leave.LeaveRequest, error) {
	var updated leave.LeaveRequest
	err := r.store.view(ctx, func(t *tables) error {
		l, ok := t.leaves[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		if l.Status != leave.StatusPending {
			return leave.ErrAlreadyProcessed
		}
		l.Status = status
		if remarks != nil {
			l.AdminRemarks = remarks
		}
		l.ProcessedAt = &processedAt
		l.UpdatedAt = r.store.now()
		t.leaves[id] = l
		updated = l
		return nil
	})
	return updated, err
}

func (r *leaveRequestRepository) FindApprovedCovering(ctx context.Context, employeeID string, date string) (*leave.LeaveRequest, error) {
	var found *leave.LeaveRequest
	err := r.store.view(ctx, func(t *tables) error {
		for _, l := range t.leaves {
			if l.EmployeeID != employeeID || l.Status != leave.StatusApproved || !l.Covers(date) {
				continue
			}
			if found == nil || l.FromDate < found.FromDate {
				l := l
				found = &l
			}
		}
		return nil
	})
	return found, err
}

func (r *leaveRequestRepository) ListApproved(ctx context.Context, employeeID string, from, to string) ([]leave.LeaveRequest, error) {
	var approved []leave.LeaveRequest
	err := r.store.view(ctx, func(t *tables) error {
		for _, l := range t.leaves {
			if l.EmployeeID == employeeID && l.Status == leave.StatusApproved && l.FromDate <= to && l.ToDate >= from {
				approved = append(approved, l)
			}
		}
		return nil
	})
	slices.SortFunc(approved, func(a, b leave.LeaveRequest) int {
		return cmp.Compare(a.FromDate, b.FromDate)
	})
	return approved, err
}

func (r *leaveRequestRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.view(ctx, func(t *tables) error {
		for _, l := range t.leaves {
			if l.Status == leave.StatusPending {
				n++
			}
		}
		return nil
	})
	return n, err
}
