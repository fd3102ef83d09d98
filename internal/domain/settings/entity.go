package settings

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
)

// Settings are the system-wide office hours and attendance thresholds.
type Settings struct {
	OfficeStartTime       shift.Clock
	OfficeEndTime         shift.Clock
	GraceTimeMinutes      int
	HalfDayThresholdHours float64
	FullDayHours          float64
	UpdatedAt             time.Time
}

// Default returns the settings used until an admin saves their own.
func Default() Settings {
	return Settings{
		OfficeStartTime:       shift.Clock{Hour: 9, Minute: 30},
		OfficeEndTime:         shift.Clock{Hour: 18, Minute: 30},
		GraceTimeMinutes:      15,
		HalfDayThresholdHours: 4,
		FullDayHours:          8,
	}
}

// Rules returns the thresholds as shift rules.
func (s Settings) Rules() shift.Rules {
	return shift.Rules{
		GraceTimeMinutes:      s.GraceTimeMinutes,
		HalfDayThresholdHours: s.HalfDayThresholdHours,
		FullDayHours:          s.FullDayHours,
	}
}

// DefaultShift is the shift of employees without their own shift times.
func (s Settings) DefaultShift() shift.Config {
	return shift.Config{
		Name:      "General Day",
		StartTime: s.OfficeStartTime,
		EndTime:   s.OfficeEndTime,
	}
}
