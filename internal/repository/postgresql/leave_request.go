package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `
	id, employee_id, employee_name, type, from_date::text, to_date::text, reason, status,
	applied_on, admin_remarks, processed_at, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.EmployeeName, &lr.Type, &lr.FromDate, &lr.ToDate, &lr.Reason, &lr.Status,
		&lr.AppliedOn, &lr.AdminRemarks, &lr.ProcessedAt, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

func collectLeaves(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()
	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.AppliedOn.IsZero() {
		request.AppliedOn = time.Now()
	}
	query := `
		INSERT INTO leave_requests (
			employee_id, employee_name, type, from_date, to_date, reason, status, applied_on
		) VALUES (
			$1, $2, $3, $4::date, $5::date, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		request.EmployeeID,
		request.EmployeeName,
		request.Type,
		request.FromDate,
		request.ToDate,
		request.Reason,
		request.Status,
		request.AppliedOn,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeave(q.QueryRow(ctx, `SELECT`+leaveColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM leave_requests %s ORDER BY applied_on DESC, id DESC LIMIT $%d OFFSET $%d`,
		leaveColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	requests, err := collectLeaves(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status, remarks *string, processedAt time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			admin_remarks = COALESCE($3, admin_remarks),
			processed_at = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'Pending'
		RETURNING` + leaveColumns
	lr, err := scanLeave(q.QueryRow(ctx, query, id, status, remarks, processedAt))
	if err == nil {
		return lr, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	// Nothing updated: either missing or no longer pending.
	if _, err := r.GetByID(ctx, id); err != nil {
		return leave.LeaveRequest{}, err
	}
	return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
}

// FindApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindApprovedCovering(ctx context.Context, employeeID string, date string) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'Approved'
		  AND $2::date BETWEEN from_date AND to_date
		ORDER BY from_date
		LIMIT 1
	`
	lr, err := scanLeave(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find approved leave: %w", err)
	}
	return &lr, nil
}

// ListApproved implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApproved(ctx context.Context, employeeID string, from, to string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'Approved'
		  AND from_date <= $3::date
		  AND to_date >= $2::date
		ORDER BY from_date
	`
	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	return collectLeaves(rows)
}

// CountPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = 'Pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending leaves: %w", err)
	}
	return n, nil
}
