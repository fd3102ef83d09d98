package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	attendancesvc "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, db *database.DB, code string) employee.Employee {
	t.Helper()
	e, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		EmployeeCode: code,
		Name:         "Employee " + code,
		Email:        code + "@example.com",
		Role:         employee.RoleEmployee,
		Department:   "Sales",
		Status:       employee.StatusActive,
		WorkType:     employee.WorkTypeFullTime,
	})
	require.NoError(t, err)
	return e
}

func TestAttendanceRepository_Constraints(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	e := createEmployee(t, db, "EMP001")

	checkIn := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Record{
		EmployeeID:       e.ID,
		EmployeeName:     e.Name,
		Date:             "2025-03-10",
		CheckInTime:      "09:30 AM",
		CheckInTimestamp: checkIn,
		Status:           attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	open, err := repo.FindOpenSession(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "2025-03-10", open.Date)
	assert.True(t, open.IsOpen())

	// second open session on another date
	_, err = repo.Create(ctx, attendance.Record{
		EmployeeID: e.ID, EmployeeName: e.Name, Date: "2025-03-11",
		CheckInTime: "09:30 AM", CheckInTimestamp: checkIn.AddDate(0, 0, 1), Status: attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateSession)

	checkOut := checkIn.Add(8 * time.Hour)
	checkOutTime := "05:30 PM"
	created.CheckOutTime = &checkOutTime
	created.CheckOutTimestamp = &checkOut
	created.TotalHours = 8
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.False(t, updated.IsOpen())

	// same date after the session closed
	_, err = repo.Create(ctx, attendance.Record{
		EmployeeID: e.ID, EmployeeName: e.Name, Date: "2025-03-10",
		CheckInTime: "06:00 PM", CheckInTimestamp: checkOut.Add(time.Minute), Status: attendance.StatusLate,
	})
	assert.ErrorIs(t, err, attendance.ErrDuplicateSession)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.TotalHours)
	assert.Equal(t, checkOut.Unix(), got.CheckOutTimestamp.Unix())

	counts, err := repo.CountByStatus(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[attendance.StatusPresent])

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), attendance.ErrAttendanceNotFound)
}

func TestClockIn_ConcurrentRequestsCreateOneSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	e := createEmployee(t, db, "EMP002")

	svc := attendancesvc.NewAttendanceService(
		postgresql.NewTransactor(db),
		postgresql.NewAttendanceRepository(db),
		postgresql.NewEmployeeRepository(db),
		postgresql.NewLeaveRequestRepository(db),
		postgresql.NewHolidayRepository(db),
		postgresql.NewSettingsRepository(db),
		nil, time.UTC, nil, nil,
	)

	now := time.Date(2025, 3, 10, 9, 35, 0, 0, time.UTC)
	var wg sync.WaitGroup
	ids := make(chan string, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{EmployeeID: e.ID, Now: now})
			if assert.NoError(t, err) {
				ids <- resp.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	var first string
	for id := range ids {
		if first == "" {
			first = id
		}
		assert.Equal(t, first, id)
	}

	empID := e.ID
	_, total, err := postgresql.NewAttendanceRepository(db).List(ctx, attendance.AttendanceFilter{EmployeeID: &empID, Page: 1, Limit: 10, SortBy: "date", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestLeaveAndHolidayRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	e := createEmployee(t, db, "EMP003")

	leaves := postgresql.NewLeaveRequestRepository(db)
	lr, err := leaves.Create(ctx, leave.LeaveRequest{
		EmployeeID: e.ID, EmployeeName: e.Name, Type: leave.TypeCasual,
		FromDate: "2025-03-10", ToDate: "2025-03-12", Reason: "family", Status: leave.StatusPending,
	})
	require.NoError(t, err)

	covering, err := leaves.FindApprovedCovering(ctx, e.ID, "2025-03-11")
	require.NoError(t, err)
	assert.Nil(t, covering)

	_, err = leaves.UpdateStatus(ctx, lr.ID, leave.StatusApproved, nil, time.Now())
	require.NoError(t, err)
	_, err = leaves.UpdateStatus(ctx, lr.ID, leave.StatusRejected, nil, time.Now())
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)

	covering, err = leaves.FindApprovedCovering(ctx, e.ID, "2025-03-12")
	require.NoError(t, err)
	require.NotNil(t, covering)
	assert.Equal(t, "2025-03-10", covering.FromDate)

	holidays := postgresql.NewHolidayRepository(db)
	_, err = holidays.Create(ctx, holiday.Holiday{Name: "Nyepi", Date: "2025-03-29", Type: holiday.TypePublic})
	require.NoError(t, err)
	_, err = holidays.Create(ctx, holiday.Holiday{Name: "Again", Date: "2025-03-29", Type: holiday.TypeCustom})
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)

	h, err := holidays.GetByDate(ctx, "2025-03-29")
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "Nyepi", h.Name)
}

func TestSettingsRepository_DefaultsAndUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(db)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), got)

	want := settings.Default()
	want.OfficeStartTime = shift.Clock{Hour: 8}
	want.GraceTimeMinutes = 5
	saved, err := repo.Upsert(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, "08:00", saved.OfficeStartTime.String())

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.GraceTimeMinutes)
	assert.Equal(t, 4.0, got.HalfDayThresholdHours)
}

func TestAttendanceRepository_LongOpenSessionCloses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	e := createEmployee(t, db, "EMP042")

	checkIn := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Record{
		EmployeeID:       e.ID,
		EmployeeName:     e.Name,
		Date:             "2025-01-06",
		CheckInTime:      "09:00 AM",
		CheckInTimestamp: checkIn,
		Status:           attendance.StatusPresent,
	})
	require.NoError(t, err)

	checkOut := checkIn.Add(60*24*time.Hour + 30*time.Minute)
	checkOutTime := "09:30 AM"
	created.CheckOutTime = &checkOutTime
	created.CheckOutTimestamp = &checkOut
	created.TotalHours = 1440.5
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1440.5, got.TotalHours, 0.001)
	assert.False(t, got.IsOpen())
}
