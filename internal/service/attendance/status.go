package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// DeriveCheckInStatus returns Late when now is after the shift start on
// date plus the grace period, else Present.
func DeriveCheckInStatus(date time.Time, cfg shift.Config, rules shift.Rules, now time.Time) attendance.Status {
	deadline := cfg.StartTime.On(date).Add(rules.GracePeriod())
	if now.After(deadline) {
		return attendance.StatusLate
	}
	return attendance.StatusPresent
}

// WorkedHours is the time between check-in and now in hours, rounded to
// two decimals. Clock skew yields 0.
func WorkedHours(checkIn, now time.Time) float64 {
	elapsed := now.Sub(checkIn)
	if elapsed <= 0 {
		return 0
	}
	return decimal.NewFromFloat(elapsed.Hours()).Round(2).InexactFloat64()
}

// FinalizeStatus applies the hours thresholds at clock-out. Hours dominate:
// a short day is Absent or Half Day whatever the check-in status was, and a
// full day keeps it.
func FinalizeStatus(initial attendance.Status, hours float64, rules shift.Rules) attendance.Status {
	switch {
	case hours < rules.HalfDayThresholdHours:
		return attendance.StatusAbsent
	case hours < rules.FullDayHours:
		return attendance.StatusHalfDay
	default:
		return initial
	}
}
