package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, int64, error)

	// UpdateStatus moves a Pending request to status. It returns
	// ErrAlreadyProcessed when the request is no longer Pending.
	UpdateStatus(ctx context.Context, id string, status Status, remarks *string, processedAt time.Time) (LeaveRequest, error)

	// FindApprovedCovering returns nil when no approved leave of the
	// employee covers date.
	FindApprovedCovering(ctx context.Context, employeeID string, date string) (*LeaveRequest, error)

	// ListApproved returns the employee's approved leaves overlapping [from, to].
	ListApproved(ctx context.Context, employeeID string, from, to string) ([]LeaveRequest, error)

	CountPending(ctx context.Context) (int64, error)
}
