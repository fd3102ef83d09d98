package shift

import "errors"

var (
	ErrInvalidClock        = errors.New("invalid time, expected HH:mm")
	ErrUnknownDatePolicy   = errors.New("unknown attendance date policy")
	ErrNegativeShiftBuffer = errors.New("shift window buffer must not be negative")
)
