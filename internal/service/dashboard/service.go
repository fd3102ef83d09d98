package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"golang.org/x/sync/errgroup"
)

// upcomingWindow is how far ahead holidays are listed.
const upcomingWindow = 30 * 24 * time.Hour

type DashboardServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRequestRepository
	holidayRepo    holiday.HolidayRepository
	loc            *time.Location
}

func NewDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	holidayRepo holiday.HolidayRepository,
	loc *time.Location,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		holidayRepo:    holidayRepo,
		loc:            loc,
	}
}

// GetDashboard returns combined dashboard data, one goroutine per query.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, now time.Time) (dashboard.DashboardResponse, error) {
	local := now.In(s.loc)
	date := local.Format(attendance.DateLayout)
	until := local.Add(upcomingWindow).Format(attendance.DateLayout)

	var (
		active   int64
		byStatus map[attendance.Status]int64
		open     int64
		pending  int64
		holidays []holiday.Holiday
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.employeeRepo.CountActive(gCtx)
		if err != nil {
			return fmt.Errorf("count active employees: %w", err)
		}
		active = n
		return nil
	})

	g.Go(func() error {
		counts, err := s.attendanceRepo.CountByStatus(gCtx, date)
		if err != nil {
			return fmt.Errorf("count attendance by status: %w", err)
		}
		byStatus = counts
		return nil
	})

	g.Go(func() error {
		n, err := s.attendanceRepo.CountOpenSessions(gCtx)
		if err != nil {
			return fmt.Errorf("count open sessions: %w", err)
		}
		open = n
		return nil
	})

	g.Go(func() error {
		n, err := s.leaveRepo.CountPending(gCtx)
		if err != nil {
			return fmt.Errorf("count pending leaves: %w", err)
		}
		pending = n
		return nil
	})

	g.Go(func() error {
		list, err := s.holidayRepo.ListBetween(gCtx, date, until)
		if err != nil {
			return fmt.Errorf("list upcoming holidays: %w", err)
		}
		holidays = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	stats := dashboard.AttendanceStatsResponse{
		Present: byStatus[attendance.StatusPresent],
		Late:    byStatus[attendance.StatusLate],
		HalfDay: byStatus[attendance.StatusHalfDay],
		Absent:  byStatus[attendance.StatusAbsent],
		OnLeave: byStatus[attendance.StatusOnLeave],
	}
	var recorded int64
	for _, n := range byStatus {
		recorded += n
	}
	stats.NotCheckedIn = max(active-recorded, 0)

	upcoming := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		upcoming = append(upcoming, holiday.NewHolidayResponse(h))
	}

	return dashboard.DashboardResponse{
		Date:             date,
		ActiveEmployees:  active,
		Attendance:       stats,
		OpenSessions:     open,
		PendingLeaves:    pending,
		UpcomingHolidays: upcoming,
	}, nil
}
