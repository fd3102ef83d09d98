package employee

import (
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode   string  `json:"employee_code"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Department     string  `json:"department"`
	Phone          *string `json:"phone,omitempty"`
	Status         string  `json:"status"`
	WorkType       string  `json:"work_type"`
	JoiningDate    *string `json:"joining_date,omitempty"`
	ShiftStartTime *string `json:"shift_start_time,omitempty"`
	ShiftEndTime   *string `json:"shift_end_time,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must look like EMP001",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is invalid",
		})
	}

	if r.Role == "" {
		r.Role = string(RoleEmployee)
	}
	if !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be admin or employee",
		})
	}

	if r.Status == "" {
		r.Status = string(StatusActive)
	}
	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be Active or Inactive",
		})
	}

	if r.WorkType == "" {
		r.WorkType = string(WorkTypeFullTime)
	}
	if !validator.IsInSlice(r.WorkType, WorkTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "work_type must be Full-time, Part-time or Intern",
		})
	}

	if r.JoiningDate != nil {
		if _, ok := validator.IsValidDate(*r.JoiningDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "joining_date",
				Message: "joining_date must be in YYYY-MM-DD format",
			})
		}
	}

	errs = append(errs, validateShiftTimes(r.ShiftStartTime, r.ShiftEndTime)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	EmployeeID     string  `json:"-"`
	ShiftStartTime *string `json:"shift_start_time"`
	ShiftEndTime   *string `json:"shift_end_time"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	errs = append(errs, validateShiftTimes(r.ShiftStartTime, r.ShiftEndTime)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Clocks returns the parsed shift times; both are nil when the shift is cleared.
func (r UpdateShiftRequest) Clocks() (*shift.Clock, *shift.Clock) {
	return parseClockPtr(r.ShiftStartTime), parseClockPtr(r.ShiftEndTime)
}

func validateShiftTimes(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if (start == nil) != (end == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_end_time",
			Message: ErrIncompleteShift.Error(),
		})
		return errs
	}
	if start != nil && !validator.IsValidClock(*start) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_start_time",
			Message: "shift_start_time must be in HH:mm format",
		})
	}
	if end != nil && !validator.IsValidClock(*end) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_end_time",
			Message: "shift_end_time must be in HH:mm format",
		})
	}
	return errs
}

func parseClockPtr(s *string) *shift.Clock {
	if s == nil {
		return nil
	}
	c, err := shift.ParseClock(*s)
	if err != nil {
		return nil
	}
	return &c
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be Active or Inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeCode   string  `json:"employee_code"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Department     string  `json:"department"`
	Phone          *string `json:"phone,omitempty"`
	Status         string  `json:"status"`
	WorkType       string  `json:"work_type"`
	JoiningDate    *string `json:"joining_date,omitempty"`
	ShiftStartTime *string `json:"shift_start_time,omitempty"`
	ShiftEndTime   *string `json:"shift_end_time,omitempty"`
	IsNightShift   bool    `json:"is_night_shift"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Email:        e.Email,
		Role:         string(e.Role),
		Department:   e.Department,
		Phone:        e.Phone,
		Status:       string(e.Status),
		WorkType:     string(e.WorkType),
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.JoiningDate != nil {
		d := e.JoiningDate.Format("2006-01-02")
		resp.JoiningDate = &d
	}
	if e.ShiftStartTime != nil && e.ShiftEndTime != nil {
		start, end := e.ShiftStartTime.String(), e.ShiftEndTime.String()
		resp.ShiftStartTime = &start
		resp.ShiftEndTime = &end
		resp.IsNightShift = shift.Config{StartTime: *e.ShiftStartTime, EndTime: *e.ShiftEndTime}.IsNightShift()
	}
	return resp
}
