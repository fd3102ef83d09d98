package performance

import "errors"

var (
	ErrRecordNotFound           = errors.New("performance record not found")
	ErrRecordExists             = errors.New("performance record already exists for this date")
	ErrContactedExceedsAssigned = errors.New("prospects contacted cannot exceed leads assigned")
	ErrConversionsExceedContact = errors.New("conversions cannot exceed prospects contacted")
	ErrNotOwner                 = errors.New("performance record belongs to another employee")
)
