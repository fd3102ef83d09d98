package leave

import "context"

type LeaveService interface {
	RequestLeave(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)

	// ProcessLeave approves or rejects a Pending request.
	ProcessLeave(ctx context.Context, req ProcessLeaveRequest) (LeaveResponse, error)

	ListMyLeaves(ctx context.Context, employeeID string, filter LeaveFilter) (ListLeaveResponse, error)
	ListLeaves(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)

	GetBalance(ctx context.Context, employeeID string, year int) (BalanceResponse, error)
}
