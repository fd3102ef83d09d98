package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
)

type LeaveServiceImpl struct {
	leaveRepo leave.LeaveRequestRepository
	now       func() time.Time
}

func NewLeaveService(leaveRepo leave.LeaveRequestRepository, now func() time.Time) leave.LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		leaveRepo: leaveRepo,
		now:       now,
	}
}

// RequestLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) RequestLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	newLeave := leave.LeaveRequest{
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Type:         leave.LeaveType(req.Type),
		FromDate:     req.FromDate,
		ToDate:       req.ToDate,
		Reason:       req.Reason,
		Status:       leave.StatusPending,
		AppliedOn:    s.now(),
	}

	if allowance, limited := leave.Allowance[newLeave.Type]; limited {
		from, _ := time.Parse(time.DateOnly, req.FromDate)
		first, last := yearBounds(from.Year())
		approved, err := s.leaveRepo.ListApproved(ctx, req.EmployeeID, first, last)
		if err != nil {
			return leave.LeaveResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
		}
		if UsedDays(approved, from.Year())[newLeave.Type]+newLeave.Days() > allowance {
			return leave.LeaveResponse{}, leave.ErrInsufficientBalance
		}
	}

	created, err := s.leaveRepo.Create(ctx, newLeave)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave requested", "leave_id", created.ID, "employee_id", created.EmployeeID, "type", created.Type)
	return leave.NewLeaveResponse(created), nil
}

// ProcessLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) ProcessLeave(ctx context.Context, req leave.ProcessLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.leaveRepo.UpdateStatus(ctx, req.ID, leave.Status(req.Status), req.Remarks, s.now())
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("Leave processed", "leave_id", updated.ID, "status", updated.Status)
	return leave.NewLeaveResponse(updated), nil
}

// ListMyLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMyLeaves(ctx context.Context, employeeID string, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	filter.EmployeeID = &employeeID
	return s.ListLeaves(ctx, filter)
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	leaves, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, leave.NewLeaveResponse(l))
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Leaves:     responses,
	}, nil
}

// GetBalance implements leave.LeaveService. year 0 means the current year.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID string, year int) (leave.BalanceResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}

	first, last := yearBounds(year)
	approved, err := s.leaveRepo.ListApproved(ctx, employeeID, first, last)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	used := UsedDays(approved, year)

	balances := make([]leave.TypeBalance, 0, len(leave.TypeValues))
	for _, t := range leave.TypeValues {
		lt := leave.LeaveType(t)
		b := leave.TypeBalance{Type: t, Used: used[lt]}
		if allowance, ok := leave.Allowance[lt]; ok {
			available := max(allowance-used[lt], 0)
			b.Allowance = &allowance
			b.Available = &available
		}
		balances = append(balances, b)
	}

	return leave.BalanceResponse{
		EmployeeID: employeeID,
		Year:       year,
		Balances:   balances,
	}, nil
}
