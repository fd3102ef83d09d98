package attendance

import (
	"context"
)

type AttendanceService interface {
	// ClockIn opens a session, or returns the open one unchanged.
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the open session and finalises its status.
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// GetToday returns the record for the attendance date of req.Now, if any.
	GetToday(ctx context.Context, req TodayRequest) (*AttendanceResponse, error)

	GetActiveSession(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	ListMyAttendance(ctx context.Context, employeeID string, filter AttendanceFilter) (ListAttendanceResponse, error)

	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// DeleteAttendance is the admin override for removing a record.
	DeleteAttendance(ctx context.Context, id string) error
}
