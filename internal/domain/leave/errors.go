package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrAlreadyProcessed     = errors.New("leave request has already been processed")
	ErrInvalidDateRange     = errors.New("from_date must not be after to_date")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
)
