package settings

import (
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	OfficeStartTime       string  `json:"office_start_time"`
	OfficeEndTime         string  `json:"office_end_time"`
	GraceTimeMinutes      int     `json:"grace_time_minutes"`
	HalfDayThresholdHours float64 `json:"half_day_threshold_hours"`
	FullDayHours          float64 `json:"full_day_hours"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidClock(r.OfficeStartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_start_time",
			Message: "office_start_time must be in HH:mm format",
		})
	}
	if !validator.IsValidClock(r.OfficeEndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_end_time",
			Message: "office_end_time must be in HH:mm format",
		})
	}
	if r.GraceTimeMinutes < 0 || r.GraceTimeMinutes > 240 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_time_minutes",
			Message: "grace_time_minutes must be between 0 and 240",
		})
	}
	if r.HalfDayThresholdHours <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_threshold_hours",
			Message: "half_day_threshold_hours must be greater than 0",
		})
	}
	if r.FullDayHours < r.HalfDayThresholdHours || r.FullDayHours > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_day_hours",
			Message: "full_day_hours must be between half_day_threshold_hours and 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToSettings converts a validated request.
func (r UpdateSettingsRequest) ToSettings() Settings {
	return Settings{
		OfficeStartTime:       shift.MustParseClock(r.OfficeStartTime),
		OfficeEndTime:         shift.MustParseClock(r.OfficeEndTime),
		GraceTimeMinutes:      r.GraceTimeMinutes,
		HalfDayThresholdHours: r.HalfDayThresholdHours,
		FullDayHours:          r.FullDayHours,
	}
}

type SettingsResponse struct {
	OfficeStartTime       string  `json:"office_start_time"`
	OfficeEndTime         string  `json:"office_end_time"`
	GraceTimeMinutes      int     `json:"grace_time_minutes"`
	HalfDayThresholdHours float64 `json:"half_day_threshold_hours"`
	FullDayHours          float64 `json:"full_day_hours"`
	UpdatedAt             string  `json:"updated_at,omitempty"`
}

func NewSettingsResponse(s Settings) SettingsResponse {
	resp := SettingsResponse{
		OfficeStartTime:       s.OfficeStartTime.String(),
		OfficeEndTime:         s.OfficeEndTime.String(),
		GraceTimeMinutes:      s.GraceTimeMinutes,
		HalfDayThresholdHours: s.HalfDayThresholdHours,
		FullDayHours:          s.FullDayHours,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
