package shift

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
)

const (
	PolicyNoon   = "noon"
	PolicyWindow = "window"
)

// noonHour splits the early-morning tail of a night shift from the evening start.
const noonHour = 12

// Resolver decides which logical attendance date an instant belongs to.
type Resolver interface {
	Resolve(cfg shift.Config, now time.Time) time.Time
}

// NoonCutoff attributes night-shift instants before 12:00 to the previous day.
type NoonCutoff struct{}

func (NoonCutoff) Resolve(cfg shift.Config, now time.Time) time.Time {
	day := calendarDate(now)
	if cfg.IsNightShift() && now.Hour() < noonHour {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// ShiftWindow attributes night-shift instants between 00:00 and
// EndTime+Buffer to the previous day.
type ShiftWindow struct {
	Buffer time.Duration
}

func (w ShiftWindow) Resolve(cfg shift.Config, now time.Time) time.Time {
	day := calendarDate(now)
	if !cfg.IsNightShift() {
		return day
	}
	tail := time.Duration(cfg.EndTime.MinutesSinceMidnight())*time.Minute + w.Buffer
	// wall-clock time of day; elapsed time since midnight is off by the
	// offset change on DST transition days
	timeOfDay := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute + time.Duration(now.Second())*time.Second
	if timeOfDay < tail {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// ResolveAttendanceDate applies the default noon-cutoff policy.
func ResolveAttendanceDate(cfg shift.Config, now time.Time) time.Time {
	return NoonCutoff{}.Resolve(cfg, now)
}

// NewResolver builds the resolver named by policy.
func NewResolver(policy string, buffer time.Duration) (Resolver, error) {
	switch policy {
	case "", PolicyNoon:
		return NoonCutoff{}, nil
	case PolicyWindow:
		if buffer < 0 {
			return nil, shift.ErrNegativeShiftBuffer
		}
		return ShiftWindow{Buffer: buffer}, nil
	default:
		return nil, fmt.Errorf("%w: %q", shift.ErrUnknownDatePolicy, policy)
	}
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
