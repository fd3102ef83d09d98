package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/memory"
	shiftsvc "github.com/cmlabs-hris/hris-attendance/internal/service/shift"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc          attendance.AttendanceService
	attendance   attendance.AttendanceRepository
	employees    employee.EmployeeRepository
	leaves       leave.LeaveRequestRepository
	holidays     holiday.HolidayRepository
	settingsRepo settings.SettingsRepository
	hub          *sse.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		attendance:   memory.NewAttendanceRepository(store),
		employees:    memory.NewEmployeeRepository(store),
		leaves:       memory.NewLeaveRequestRepository(store),
		holidays:     memory.NewHolidayRepository(store),
		settingsRepo: memory.NewSettingsRepository(store),
		hub:          sse.NewHub(),
	}
	f.svc = NewAttendanceService(
		store,
		f.attendance,
		f.employees,
		f.leaves,
		f.holidays,
		f.settingsRepo,
		shiftsvc.NoonCutoff{},
		time.UTC,
		metrics.New(prometheus.NewRegistry(), false),
		f.hub,
	)
	return f
}

// addEmployee stores an employee; shift times are "" for office hours.
func (f *fixture) addEmployee(t *testing.T, id, start, end string) {
	t.Helper()
	e := employee.Employee{
		ID:           id,
		EmployeeCode: "EMP" + id,
		Name:         "Employee " + id,
		Email:        id + "@example.com",
		Role:         employee.RoleEmployee,
		Status:       employee.StatusActive,
		WorkType:     employee.WorkTypeFullTime,
	}
	if start != "" {
		s, e2 := shift.MustParseClock(start), shift.MustParseClock(end)
		e.ShiftStartTime, e.ShiftEndTime = &s, &e2
	}
	_, err := f.employees.Create(context.Background(), e)
	require.NoError(t, err)
}

func (f *fixture) recordCount(t *testing.T, employeeID string) int64 {
	t.Helper()
	_, total, err := f.attendance.List(context.Background(), attendance.AttendanceFilter{EmployeeID: &employeeID, Page: 1, Limit: 100})
	require.NoError(t, err)
	return total
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestClockIn_OfficeHoursScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")
	f.addEmployee(t, "e2", "", "")

	onTime, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", EmployeeName: "Jane", Now: at(10, 9, 40)})
	require.NoError(t, err)
	assert.Equal(t, "Present", onTime.Status)
	assert.Equal(t, "2025-03-10", onTime.Date)
	assert.Equal(t, "09:40 AM", onTime.CheckInTime)
	assert.Equal(t, "Jane", onTime.EmployeeName)
	assert.Zero(t, onTime.TotalHours)
	assert.True(t, onTime.IsOpen)

	late, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e2", Now: at(10, 9, 50)})
	require.NoError(t, err)
	assert.Equal(t, "Late", late.Status)
	assert.Equal(t, "Employee e2", late.EmployeeName)

	short, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 9, 40).Add(210 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, 3.5, short.TotalHours)
	assert.Equal(t, "Absent", short.Status)
	assert.False(t, short.IsOpen)
	require.NotNil(t, short.CheckOutTime)
	assert.Equal(t, "01:10 PM", *short.CheckOutTime)

	halfDay, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e2", Now: at(10, 15, 50)})
	require.NoError(t, err)
	assert.Equal(t, 6.0, halfDay.TotalHours)
	assert.Equal(t, "Half Day", halfDay.Status)
}

func TestClockIn_GraceBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "before", "", "")
	f.addEmployee(t, "after", "", "")

	present, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "before", Now: at(10, 9, 44)})
	require.NoError(t, err)
	assert.Equal(t, "Present", present.Status)

	late, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "after", Now: at(10, 9, 46)})
	require.NoError(t, err)
	assert.Equal(t, "Late", late.Status)
}

func TestClockIn_UsesSavedSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	s := settings.Default()
	s.GraceTimeMinutes = 30
	_, err := f.settingsRepo.Upsert(ctx, s)
	require.NoError(t, err)

	resp, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 55)})
	require.NoError(t, err)
	assert.Equal(t, "Present", resp.Status)
}

func TestClockIn_IsIdempotentWhileOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	first, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)

	second, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 11, 0)})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), f.recordCount(t, "e1"))
}

func TestClockIn_OpenSessionFromEarlierDateIsReturned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	first, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)

	next, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(11, 9, 0)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, next.ID)
	assert.Equal(t, "2025-03-10", next.Date)
}

func TestClockIn_DuplicateDateAfterClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)
	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 12, 0)})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 13, 0)})
	assert.ErrorIs(t, err, attendance.ErrDuplicateSession)
	assert.Equal(t, int64(1), f.recordCount(t, "e1"))
}

func TestClockIn_ApprovedLeaveBlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.leaves.Create(ctx, leave.LeaveRequest{
		EmployeeID: "e1", Type: leave.TypeCasual, FromDate: "2025-03-09", ToDate: "2025-03-11",
		Reason: "trip", Status: leave.StatusApproved,
	})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.ErrorIs(t, err, attendance.ErrOnApprovedLeave)

	var conflict *attendance.LeaveConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "2025-03-09", conflict.FromDate)
	assert.Equal(t, "2025-03-11", conflict.ToDate)
	assert.Zero(t, f.recordCount(t, "e1"))
}

func TestClockIn_PendingOrRejectedLeaveDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	for _, status := range []leave.Status{leave.StatusPending, leave.StatusRejected} {
		_, err := f.leaves.Create(ctx, leave.LeaveRequest{
			EmployeeID: "e1", Type: leave.TypeSick, FromDate: "2025-03-10", ToDate: "2025-03-10",
			Reason: "flu", Status: status,
		})
		require.NoError(t, err)
	}

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	assert.NoError(t, err)
}

func TestClockIn_HolidayBlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.holidays.Create(ctx, holiday.Holiday{Name: "Founders Day", Date: "2025-03-10", Type: holiday.TypeCompany})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.ErrorIs(t, err, attendance.ErrHolidayConflict)

	var conflict *attendance.HolidayConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Founders Day", conflict.Name)
	assert.Contains(t, err.Error(), "Founders Day")
	assert.Zero(t, f.recordCount(t, "e1"))
}

func TestClockIn_LeaveIsCheckedBeforeHoliday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.holidays.Create(ctx, holiday.Holiday{Name: "Founders Day", Date: "2025-03-10", Type: holiday.TypeCompany})
	require.NoError(t, err)
	_, err = f.leaves.Create(ctx, leave.LeaveRequest{
		EmployeeID: "e1", Type: leave.TypePaid, FromDate: "2025-03-10", ToDate: "2025-03-10",
		Reason: "rest", Status: leave.StatusApproved,
	})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	assert.ErrorIs(t, err, attendance.ErrOnApprovedLeave)
	assert.NotErrorIs(t, err, attendance.ErrHolidayConflict)
}

func TestClockIn_NightShiftDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "evening", "21:00", "06:00")
	f.addEmployee(t, "morning", "21:00", "06:00")

	evening, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "evening", Now: at(10, 23, 0)})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", evening.Date)
	assert.Equal(t, "11:00 PM", evening.CheckInTime)

	morning, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "morning", Now: at(11, 2, 0)})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", morning.Date)
	assert.Equal(t, "Late", morning.Status)
}

func TestClockOut_NightShiftFullDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "21:00", "06:00")

	in, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 21, 5)})
	require.NoError(t, err)
	assert.Equal(t, "Present", in.Status)

	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(11, 6, 5)})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", out.Date)
	assert.Equal(t, 9.0, out.TotalHours)
	assert.Equal(t, "Present", out.Status)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(11, 21, 0)})
	assert.NoError(t, err)
}

func TestClockOut_LateFullDayStaysLate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 10, 0)})
	require.NoError(t, err)

	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 19, 0)})
	require.NoError(t, err)
	assert.Equal(t, 9.0, out.TotalHours)
	assert.Equal(t, "Late", out.Status)
}

func TestClockOut_NoActiveSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 18, 0)})
	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)
	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 18, 0)})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 19, 0)})
	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)
}

func TestClockOut_ClockSkewClampsToZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)

	out, err := f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 8, 30)})
	require.NoError(t, err)
	assert.Zero(t, out.TotalHours)
	assert.Equal(t, "Absent", out.Status)
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "ghost", Now: at(10, 9, 0)})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestClockIn_ValidatesRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(context.Background(), attendance.ClockInRequest{})
	assert.Error(t, err)
	_, err = f.svc.ClockOut(context.Background(), attendance.ClockOutRequest{EmployeeID: "e1"})
	assert.Error(t, err)
}

func TestClockIn_ConvertsToConfiguredLocation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	loc := time.FixedZone("UTC+7", 7*60*60)
	svc := NewAttendanceService(store,
		memory.NewAttendanceRepository(store), employees,
		memory.NewLeaveRequestRepository(store), memory.NewHolidayRepository(store),
		memory.NewSettingsRepository(store), nil, loc, nil, nil)

	_, err := employees.Create(ctx, employee.Employee{ID: "e1", EmployeeCode: "EMP001", Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	// 02:30 UTC is 09:30 in UTC+7.
	resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: time.Date(2025, 3, 10, 2, 30, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "09:30 AM", resp.CheckInTime)
	assert.Equal(t, "Present", resp.Status)
}

func TestClockIn_ConcurrentCallsOpenOneSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	const workers = 20
	ids := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0).Add(time.Duration(i) * time.Second)})
			ids[i], errs[i] = resp.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(1), f.recordCount(t, "e1"))
}

func TestClockInOut_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	events, cleanup := f.hub.Subscribe(TopicAttendance)
	defer cleanup()

	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 5)})
	require.NoError(t, err)
	_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(10, 18, 0)})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, EventClockIn, (<-events).Event)
	assert.Equal(t, EventClockOut, (<-events).Event)
}

func TestClockIn_RejectionPublishesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")
	_, err := f.holidays.Create(ctx, holiday.Holiday{Name: "Founders Day", Date: "2025-03-10", Type: holiday.TypeCompany})
	require.NoError(t, err)

	events, cleanup := f.hub.Subscribe(TopicAttendance)
	defer cleanup()

	_, err = f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.Error(t, err)
	assert.Empty(t, events)
}

func TestGetTodayAndActiveSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")

	today, err := f.svc.GetToday(ctx, attendance.TodayRequest{EmployeeID: "e1", Now: at(10, 8, 0)})
	require.NoError(t, err)
	assert.Nil(t, today)

	active, err := f.svc.GetActiveSession(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, active)

	in, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(10, 9, 0)})
	require.NoError(t, err)

	today, err = f.svc.GetToday(ctx, attendance.TodayRequest{EmployeeID: "e1", Now: at(10, 12, 0)})
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, in.ID, today.ID)

	active, err = f.svc.GetActiveSession(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, in.ID, active.ID)
}

func TestListMyAttendanceAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEmployee(t, "e1", "", "")
	f.addEmployee(t, "e2", "", "")

	for day := 10; day <= 12; day++ {
		_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e1", Now: at(day, 9, 0)})
		require.NoError(t, err)
		_, err = f.svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "e1", Now: at(day, 18, 0)})
		require.NoError(t, err)
	}
	_, err := f.svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: "e2", Now: at(10, 9, 0)})
	require.NoError(t, err)

	mine, err := f.svc.ListMyAttendance(ctx, "e1", attendance.AttendanceFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mine.TotalCount)
	assert.Equal(t, 2, mine.TotalPages)
	assert.Equal(t, "1-2 of 3", mine.Showing)
	require.Len(t, mine.Attendances, 2)
	assert.Equal(t, "2025-03-12", mine.Attendances[0].Date)

	all, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalCount)

	require.NoError(t, f.svc.DeleteAttendance(ctx, mine.Attendances[0].ID))
	assert.ErrorIs(t, f.svc.DeleteAttendance(ctx, mine.Attendances[0].ID), attendance.ErrAttendanceNotFound)
	assert.Equal(t, int64(2), f.recordCount(t, "e1"))

	bad := "Unknown"
	_, err = f.svc.ListAttendance(ctx, attendance.AttendanceFilter{Status: &bad})
	assert.Error(t, err)
}
