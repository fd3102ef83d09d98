package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
)

// UsedDays sums the days of leaves per type that fall inside year, counting
// both ends of each leave.
func UsedDays(leaves []leave.LeaveRequest, year int) map[leave.LeaveType]int {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	used := map[leave.LeaveType]int{}
	for _, l := range leaves {
		from, err := time.Parse(time.DateOnly, l.FromDate)
		if err != nil {
			continue
		}
		to, err := time.Parse(time.DateOnly, l.ToDate)
		if err != nil {
			continue
		}
		if from.Before(yearStart) {
			from = yearStart
		}
		if to.After(yearEnd) {
			to = yearEnd
		}
		if to.Before(from) {
			continue
		}
		used[l.Type] += int(to.Sub(from).Hours()/24) + 1
	}
	return used
}

// yearBounds returns the first and last date of year as YYYY-MM-DD.
func yearBounds(year int) (string, string) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}
