package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeID   string    `json:"-"`
	EmployeeName string    `json:"-"`
	Now          time.Time `json:"-"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.Now.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "now",
			Message: "clock-in time is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	EmployeeID string    `json:"-"`
	Now        time.Time `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.Now.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "now",
			Message: "clock-out time is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TodayRequest struct {
	EmployeeID string
	Now        time.Time
}

type AttendanceResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name"`
	Date              string  `json:"date"`
	CheckInTime       string  `json:"check_in_time"`
	CheckOutTime      *string `json:"check_out_time,omitempty"`
	CheckInTimestamp  string  `json:"check_in_timestamp"`
	CheckOutTimestamp *string `json:"check_out_timestamp,omitempty"`
	TotalHours        float64 `json:"total_hours"`
	Status            string  `json:"status"`
	IsOpen            bool    `json:"is_open"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     r.EmployeeName,
		Date:             r.Date,
		CheckInTime:      r.CheckInTime,
		CheckOutTime:     r.CheckOutTime,
		CheckInTimestamp: r.CheckInTimestamp.Format(time.RFC3339),
		TotalHours:       r.TotalHours,
		Status:           string(r.Status),
		IsOpen:           r.IsOpen(),
		CreatedAt:        r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.CheckOutTimestamp != nil {
		out := r.CheckOutTimestamp.Format(time.RFC3339)
		resp.CheckOutTimestamp = &out
	}
	return resp
}

type AttendanceFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, employee_name, check_in, status
	SortOrder string `json:"sort_order"` // asc, desc
}

var sortFields = []string{"date", "employee_name", "check_in", "status"}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value == nil || *value == "" {
			continue
		}
		if _, valid := validator.IsValidDate(*value); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be in YYYY-MM-DD format",
			})
		}
	}
	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" && *f.StartDate > *f.EndDate {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.SortBy == "" {
		f.SortBy = "date"
	} else if !validator.IsInSlice(f.SortBy, sortFields) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of: " + strings.Join(sortFields, ", "),
		})
	}

	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if f.SortOrder != "asc" && f.SortOrder != "desc" {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
