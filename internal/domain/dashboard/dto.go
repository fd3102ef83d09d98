package dashboard

import (
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
)

// DashboardResponse is the admin overview for one attendance date.
type DashboardResponse struct {
	Date             string                    `json:"date"`
	ActiveEmployees  int64                     `json:"active_employees"`
	Attendance       AttendanceStatsResponse   `json:"attendance"`
	OpenSessions     int64                     `json:"open_sessions"`
	PendingLeaves    int64                     `json:"pending_leaves"`
	UpcomingHolidays []holiday.HolidayResponse `json:"upcoming_holidays"`
}

// AttendanceStatsResponse counts today's records per status. NotCheckedIn
// is active employees without a record.
type AttendanceStatsResponse struct {
	Present      int64 `json:"present"`
	Late         int64 `json:"late"`
	HalfDay      int64 `json:"half_day"`
	Absent       int64 `json:"absent"`
	OnLeave      int64 `json:"on_leave"`
	NotCheckedIn int64 `json:"not_checked_in"`
}
