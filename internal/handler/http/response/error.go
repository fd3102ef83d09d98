package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Attendance conflicts carry the blocking leave or holiday
	var leaveConflict *attendance.LeaveConflictError
	if errors.As(err, &leaveConflict) {
		ConflictWithDetails(w, err.Error(), map[string]string{
			"from_date": leaveConflict.FromDate,
			"to_date":   leaveConflict.ToDate,
		})
		return
	}
	var holidayConflict *attendance.HolidayConflictError
	if errors.As(err, &holidayConflict) {
		ConflictWithDetails(w, err.Error(), map[string]string{
			"date":         holidayConflict.Date,
			"holiday_name": holidayConflict.Name,
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrEmployeeClaimMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateSession):
		Conflict(w, "Attendance already recorded for this shift")
	case errors.Is(err, attendance.ErrOnApprovedLeave), errors.Is(err, attendance.ErrHolidayConflict):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNoActiveSession):
		BadRequest(w, "No active attendance session", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, "A holiday already exists on this date")

	// Performance domain errors
	case errors.Is(err, performance.ErrRecordNotFound):
		NotFound(w, "Performance record not found")
	case errors.Is(err, performance.ErrRecordExists):
		Conflict(w, err.Error())
	case errors.Is(err, performance.ErrContactedExceedsAssigned), errors.Is(err, performance.ErrConversionsExceedContact):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, performance.ErrNotOwner):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
