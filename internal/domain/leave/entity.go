package leave

import (
	"time"
)

type LeaveRequest struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Type         LeaveType
	FromDate     string // YYYY-MM-DD
	ToDate       string // YYYY-MM-DD
	Reason       string
	Status       Status
	AppliedOn    time.Time
	AdminRemarks *string
	ProcessedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Covers reports whether date (YYYY-MM-DD) falls within the leave, inclusive.
func (l LeaveRequest) Covers(date string) bool {
	return l.FromDate <= date && date <= l.ToDate
}

// Days returns the number of calendar days taken, counting both ends.
func (l LeaveRequest) Days() int {
	from, err := time.Parse(time.DateOnly, l.FromDate)
	if err != nil {
		return 0
	}
	to, err := time.Parse(time.DateOnly, l.ToDate)
	if err != nil || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

type LeaveType string

const (
	TypeCasual LeaveType = "Casual Leave"
	TypeSick   LeaveType = "Sick Leave"
	TypePaid   LeaveType = "Paid Leave"
	TypeUnpaid LeaveType = "Unpaid Leave"
)

var TypeValues = []string{string(TypeCasual), string(TypeSick), string(TypePaid), string(TypeUnpaid)}

// Allowance is the yearly number of days per type. Unpaid leave has none.
var Allowance = map[LeaveType]int{
	TypeCasual: 12,
	TypeSick:   10,
	TypePaid:   15,
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var StatusValues = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
