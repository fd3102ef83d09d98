package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateSession   = errors.New("attendance already recorded for this shift")
	ErrOnApprovedLeave    = errors.New("you are on approved leave for this date")
	ErrHolidayConflict    = errors.New("cannot check in on a holiday")
	ErrNoActiveSession    = errors.New("no active attendance session")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// LeaveConflictError is returned when an approved leave covers the
// attendance date.
type LeaveConflictError struct {
	FromDate string
	ToDate   string
}

func (e *LeaveConflictError) Error() string {
	return fmt.Sprintf("%s (%s to %s)", ErrOnApprovedLeave.Error(), e.FromDate, e.ToDate)
}

func (e *LeaveConflictError) Unwrap() error {
	return ErrOnApprovedLeave
}

// HolidayConflictError is returned when the attendance date is a holiday.
type HolidayConflictError struct {
	Date string
	Name string
}

func (e *HolidayConflictError) Error() string {
	return fmt.Sprintf("cannot check in on a holiday: %s", e.Name)
}

func (e *HolidayConflictError) Unwrap() error {
	return ErrHolidayConflict
}
