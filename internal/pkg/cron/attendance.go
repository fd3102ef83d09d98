package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
)

// maxLoggedSessions caps how many stale sessions are listed in one warning.
const maxLoggedSessions = 20

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	metrics        *metrics.Metrics
	staleAfter     time.Duration
	now            func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	m *metrics.Metrics,
	staleAfter time.Duration,
	now func() time.Time,
) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		metrics:        m,
		staleAfter:     staleAfter,
		now:            now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("report_stale_open_sessions", 1*time.Hour, j.ReportStaleOpenSessions)
}

// ReportStaleOpenSessions counts sessions left open longer than staleAfter
// and publishes the count. Sessions are only reported, never closed.
func (j *AttendanceJobs) ReportStaleOpenSessions(ctx context.Context) error {
	cutoff := j.now().Add(-j.staleAfter)

	stale, err := j.attendanceRepo.ListStaleOpenSessions(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale sessions: %w", err)
	}

	j.metrics.SetStaleOpenSessions(len(stale))
	if len(stale) == 0 {
		return nil
	}

	ids := make([]string, 0, min(len(stale), maxLoggedSessions))
	for _, rec := range stale[:min(len(stale), maxLoggedSessions)] {
		ids = append(ids, rec.EmployeeID+"@"+rec.Date)
	}
	slog.Warn("Cron: open attendance sessions exceed stale threshold",
		"count", len(stale),
		"stale_after", j.staleAfter,
		"sessions", ids,
	)
	return nil
}
