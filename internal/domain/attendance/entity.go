package attendance

import (
	"time"
)

// Record is one employee's attendance for one logical attendance date.
// A nil CheckOutTimestamp means the session is still open.
type Record struct {
	ID                string
	EmployeeID        string
	EmployeeName      string
	Date              string
	CheckInTime       string
	CheckOutTime      *string
	CheckInTimestamp  time.Time
	CheckOutTimestamp *time.Time
	TotalHours        float64
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOpen reports whether the record has no check-out yet.
func (r Record) IsOpen() bool {
	return r.CheckOutTimestamp == nil
}

type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusHalfDay Status = "Half Day"
	StatusAbsent  Status = "Absent"
	StatusOnLeave Status = "On Leave"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusHalfDay),
	string(StatusAbsent),
	string(StatusOnLeave),
}

// DateLayout is the layout of Record.Date.
const DateLayout = "2006-01-02"

// DisplayTimeLayout formats CheckInTime and CheckOutTime.
const DisplayTimeLayout = "03:04 PM"
