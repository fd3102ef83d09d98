package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	EmployeeID   string `json:"-"`
	EmployeeName string `json:"-"`
	Type         string `json:"type"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date"`
	Reason       string `json:"reason"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if !validator.IsInSlice(r.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(TypeValues, ", "),
		})
	}

	from, fromOK := validator.IsValidDate(r.FromDate)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be in YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(r.ToDate)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be in YYYY-MM-DD format",
		})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProcessLeaveRequest struct {
	ID      string  `json:"-"`
	Status  string  `json:"status"`
	Remarks *string `json:"remarks,omitempty"`
}

func (r *ProcessLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Status != string(StatusApproved) && r.Status != string(StatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be Approved or Rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Type       *string `json:"type,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
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
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(TypeValues, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Type         string  `json:"type"`
	FromDate     string  `json:"from_date"`
	ToDate       string  `json:"to_date"`
	Days         int     `json:"days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	AppliedOn    string  `json:"applied_on"`
	AdminRemarks *string `json:"admin_remarks,omitempty"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
}

func NewLeaveResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		Type:         string(l.Type),
		FromDate:     l.FromDate,
		ToDate:       l.ToDate,
		Days:         l.Days(),
		Reason:       l.Reason,
		Status:       string(l.Status),
		AppliedOn:    l.AppliedOn.Format(time.DateOnly),
		AdminRemarks: l.AdminRemarks,
	}
	if l.ProcessedAt != nil {
		p := l.ProcessedAt.Format("2006-01-02 15:04:05")
		resp.ProcessedAt = &p
	}
	return resp
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Leaves     []LeaveResponse `json:"leaves"`
}

// TypeBalance is one leave type's usage. Available is nil for leave types
// without an allowance.
type TypeBalance struct {
	Type      string `json:"type"`
	Allowance *int   `json:"allowance,omitempty"`
	Used      int    `json:"used"`
	Available *int   `json:"available,omitempty"`
}

type BalanceResponse struct {
	EmployeeID string        `json:"employee_id"`
	Year       int           `json:"year"`
	Balances   []TypeBalance `json:"balances"`
}
