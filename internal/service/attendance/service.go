package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	shiftsvc "github.com/cmlabs-hris/hris-attendance/internal/service/shift"
)

// TopicAttendance is the SSE topic clock-in and clock-out events go to.
const TopicAttendance = "attendance"

const (
	EventClockIn  = "attendance.clock_in"
	EventClockOut = "attendance.clock_out"
)

// EventPublisher delivers live attendance events.
type EventPublisher interface {
	Publish(topic string, event sse.Event)
}

type AttendanceServiceImpl struct {
	tx             domain.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRequestRepository
	holidayRepo    holiday.HolidayRepository
	settingsRepo   settings.SettingsRepository
	resolver       shiftsvc.Resolver
	loc            *time.Location
	metrics        *metrics.Metrics
	events         EventPublisher
}

func NewAttendanceService(
	tx domain.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	holidayRepo holiday.HolidayRepository,
	settingsRepo settings.SettingsRepository,
	resolver shiftsvc.Resolver,
	loc *time.Location,
	m *metrics.Metrics,
	events EventPublisher,
) attendance.AttendanceService {
	if resolver == nil {
		resolver = shiftsvc.NoonCutoff{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		holidayRepo:    holidayRepo,
		settingsRepo:   settingsRepo,
		resolver:       resolver,
		loc:            loc,
		metrics:        m,
		events:         events,
	}
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := req.Now.In(s.loc)

	var (
		record  attendance.Record
		created bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.attendanceRepo.LockEmployee(ctx, req.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		open, err := s.attendanceRepo.FindOpenSession(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to find open session: %w", err)
		}
		if open != nil {
			record = *open
			return nil
		}

		emp, cfg, rules, err := s.shiftFor(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		date := s.resolver.Resolve(cfg, now)
		dateStr := date.Format(attendance.DateLayout)

		existing, err := s.attendanceRepo.FindByEmployeeAndDate(ctx, req.EmployeeID, dateStr)
		if err != nil {
			return fmt.Errorf("failed to find attendance for date: %w", err)
		}
		if existing != nil {
			return attendance.ErrDuplicateSession
		}

		onLeave, err := s.leaveRepo.FindApprovedCovering(ctx, req.EmployeeID, dateStr)
		if err != nil {
			return fmt.Errorf("failed to find approved leave: %w", err)
		}
		if onLeave != nil {
			return &attendance.LeaveConflictError{FromDate: onLeave.FromDate, ToDate: onLeave.ToDate}
		}

		h, err := s.holidayRepo.GetByDate(ctx, dateStr)
		if err != nil {
			return fmt.Errorf("failed to find holiday: %w", err)
		}
		if h != nil {
			return &attendance.HolidayConflictError{Date: h.Date, Name: h.Name}
		}

		name := req.EmployeeName
		if name == "" {
			name = emp.Name
		}

		record, err = s.attendanceRepo.Create(ctx, attendance.Record{
			EmployeeID:       req.EmployeeID,
			EmployeeName:     name,
			Date:             dateStr,
			CheckInTime:      now.Format(attendance.DisplayTimeLayout),
			CheckInTimestamp: now,
			TotalHours:       0,
			Status:           DeriveCheckInStatus(date, cfg, rules, now),
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			s.metrics.ClockInRejected(reason)
			slog.Info("Clock-in rejected", "employee_id", req.EmployeeID, "reason", reason)
		}
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.NewAttendanceResponse(record)
	if !created {
		slog.Debug("Clock-in returned open session", "employee_id", req.EmployeeID, "attendance_id", record.ID)
		return resp, nil
	}

	s.metrics.ClockIn(string(record.Status))
	s.publish(EventClockIn, resp)
	slog.Info("Clock-in recorded",
		"employee_id", record.EmployeeID,
		"attendance_id", record.ID,
		"date", record.Date,
		"status", record.Status,
	)
	return resp, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := req.Now.In(s.loc)

	var record attendance.Record
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.attendanceRepo.LockEmployee(ctx, req.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		open, err := s.attendanceRepo.FindOpenSession(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to find open session: %w", err)
		}
		if open == nil {
			return attendance.ErrNoActiveSession
		}

		_, _, rules, err := s.shiftFor(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		hours := WorkedHours(open.CheckInTimestamp, now)
		checkOutTime := now.Format(attendance.DisplayTimeLayout)

		closed := *open
		closed.CheckOutTimestamp = &now
		closed.CheckOutTime = &checkOutTime
		closed.TotalHours = hours
		closed.Status = FinalizeStatus(open.Status, hours, rules)

		record, err = s.attendanceRepo.Update(ctx, closed)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.NewAttendanceResponse(record)
	s.metrics.ClockOut(string(record.Status), record.TotalHours)
	s.publish(EventClockOut, resp)
	slog.Info("Clock-out recorded",
		"employee_id", record.EmployeeID,
		"attendance_id", record.ID,
		"total_hours", record.TotalHours,
		"status", record.Status,
	)
	return resp, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, req attendance.TodayRequest) (*attendance.AttendanceResponse, error) {
	_, cfg, _, err := s.shiftFor(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	date := s.resolver.Resolve(cfg, req.Now.In(s.loc)).Format(attendance.DateLayout)
	record, err := s.attendanceRepo.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	resp := attendance.NewAttendanceResponse(*record)
	return &resp, nil
}

// GetActiveSession implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetActiveSession(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.FindOpenSession(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	resp := attendance.NewAttendanceResponse(*record)
	return &resp, nil
}

// ListMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMyAttendance(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.EmployeeID = &employeeID
	filter.EmployeeName = nil
	return s.ListAttendance(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Attendance deleted", "attendance_id", id)
	return nil
}

// shiftFor returns the employee with their effective shift and rules.
func (s *AttendanceServiceImpl) shiftFor(ctx context.Context, employeeID string) (employee.Employee, shift.Config, shift.Rules, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, shift.Config{}, shift.Rules{}, fmt.Errorf("failed to get employee: %w", err)
	}
	sys, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return employee.Employee{}, shift.Config{}, shift.Rules{}, fmt.Errorf("failed to get settings: %w", err)
	}
	cfg := emp.ShiftConfig(sys.DefaultShift())
	return emp, cfg, cfg.Rules(sys.Rules()), nil
}

func (s *AttendanceServiceImpl) publish(event string, resp attendance.AttendanceResponse) {
	if s.events == nil {
		return
	}
	s.events.Publish(TopicAttendance, sse.Event{Event: event, Data: resp})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, attendance.ErrDuplicateSession):
		return "duplicate_session"
	case errors.Is(err, attendance.ErrOnApprovedLeave):
		return "on_leave"
	case errors.Is(err, attendance.ErrHolidayConflict):
		return "holiday"
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "unknown_employee"
	default:
		return ""
	}
}
