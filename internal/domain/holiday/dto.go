package holiday

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Type string `json:"type"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if r.Type == "" {
		r.Type = string(TypePublic)
	}
	if !validator.IsInSlice(r.Type, TypeValues) {
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

type HolidayResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Type string `json:"type"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID,
		Name: h.Name,
		Date: h.Date,
		Type: string(h.Type),
	}
}
