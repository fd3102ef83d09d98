package performance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type AssignLeadsRequest struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"-"`
	LeadsAssigned int     `json:"leads_assigned"`
	Date          *string `json:"date,omitempty"`
	Remarks       *string `json:"remarks,omitempty"`
	Country       *string `json:"country,omitempty"`
}

func (r *AssignLeadsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.LeadsAssigned <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "leads_assigned",
			Message: "leads_assigned must be greater than 0",
		})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProgressRequest struct {
	ID                 string  `json:"-"`
	EmployeeID         string  `json:"-"`
	ProspectsContacted int     `json:"prospects_contacted"`
	Conversions        int     `json:"conversions"`
	Remarks            *string `json:"remarks,omitempty"`
}

func (r *UpdateProgressRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ProspectsContacted < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "prospects_contacted",
			Message: "prospects_contacted must not be negative",
		})
	}
	if r.Conversions < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "conversions",
			Message: "conversions must not be negative",
		})
	}
	if r.Conversions > r.ProspectsContacted {
		errs = append(errs, validator.ValidationError{
			Field:   "conversions",
			Message: ErrConversionsExceedContact.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PerformanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Country    *string `json:"country,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PerformanceFilter) Validate() error {
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
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PerformanceResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name"`
	Date               string  `json:"date"`
	LeadsAssigned      int     `json:"leads_assigned"`
	ProspectsContacted int     `json:"prospects_contacted"`
	Conversions        int     `json:"conversions"`
	ConversionRate     string  `json:"conversion_rate"`
	Remarks            *string `json:"remarks,omitempty"`
	Country            string  `json:"country"`
	UpdatedAt          string  `json:"updated_at"`
}

func NewPerformanceResponse(r Record) PerformanceResponse {
	return PerformanceResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		Date:               r.Date,
		LeadsAssigned:      r.LeadsAssigned,
		ProspectsContacted: r.ProspectsContacted,
		Conversions:        r.Conversions,
		ConversionRate:     r.ConversionRate().StringFixed(2),
		Remarks:            r.Remarks,
		Country:            r.Country,
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
}

type ListPerformanceResponse struct {
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
	Records    []PerformanceResponse `json:"records"`
}
