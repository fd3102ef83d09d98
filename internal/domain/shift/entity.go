package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a local time of day in "HH:mm" form.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a "HH:mm" string (24h).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// MustParseClock is ParseClock for constants; it panics on bad input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// MinutesSinceMidnight returns the clock as an offset from 00:00.
func (c Clock) MinutesSinceMidnight() int {
	return c.Hour*60 + c.Minute
}

// On combines the clock with the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Config is the shift an employee works. Rule overrides are optional;
// unset ones fall back to the system settings.
type Config struct {
	Name                  string
	StartTime             Clock
	EndTime               Clock
	GraceTimeMinutes      *int
	HalfDayThresholdHours *float64
	FullDayHours          *float64
}

// IsNightShift reports whether the shift crosses midnight.
func (c Config) IsNightShift() bool {
	return c.StartTime.Hour > c.EndTime.Hour
}

// Rules are the thresholds used to derive attendance status.
type Rules struct {
	GraceTimeMinutes      int
	HalfDayThresholdHours float64
	FullDayHours          float64
}

// GracePeriod returns the grace time as a duration.
func (r Rules) GracePeriod() time.Duration {
	return time.Duration(r.GraceTimeMinutes) * time.Minute
}

// Rules returns the effective rules for the shift, taking every unset
// override from defaults.
func (c Config) Rules(defaults Rules) Rules {
	rules := defaults
	if c.GraceTimeMinutes != nil {
		rules.GraceTimeMinutes = *c.GraceTimeMinutes
	}
	if c.HalfDayThresholdHours != nil {
		rules.HalfDayThresholdHours = *c.HalfDayThresholdHours
	}
	if c.FullDayHours != nil {
		rules.FullDayHours = *c.FullDayHours
	}
	return rules
}
