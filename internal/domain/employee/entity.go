package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
)

type Employee struct {
	ID             string
	EmployeeCode   string
	Name           string
	Email          string
	Role           Role
	Department     string
	Phone          *string
	Status         Status
	WorkType       WorkType
	JoiningDate    *time.Time
	ShiftStartTime *shift.Clock
	ShiftEndTime   *shift.Clock
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShiftConfig returns the employee's own shift, or def when they have
// no shift times of their own.
func (e Employee) ShiftConfig(def shift.Config) shift.Config {
	cfg := def
	if e.ShiftStartTime != nil && e.ShiftEndTime != nil {
		cfg.StartTime = *e.ShiftStartTime
		cfg.EndTime = *e.ShiftEndTime
		if cfg.IsNightShift() {
			cfg.Name = "Night Shift"
		} else {
			cfg.Name = "Day Shift"
		}
	}
	return cfg
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var RoleValues = []string{string(RoleAdmin), string(RoleEmployee)}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

var StatusValues = []string{string(StatusActive), string(StatusInactive)}

type WorkType string

const (
	WorkTypeFullTime WorkType = "Full-time"
	WorkTypePartTime WorkType = "Part-time"
	WorkTypeIntern   WorkType = "Intern"
)

var WorkTypeValues = []string{string(WorkTypeFullTime), string(WorkTypePartTime), string(WorkTypeIntern)}
