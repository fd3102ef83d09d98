package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hris-attendance/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hris-attendance/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hris-attendance/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance/internal/service/leave"
	performanceService "github.com/cmlabs-hris/hris-attendance/internal/service/performance"
	settingsService "github.com/cmlabs-hris/hris-attendance/internal/service/settings"
	shiftService "github.com/cmlabs-hris/hris-attendance/internal/service/shift"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testEnv struct {
	router    http.Handler
	jwt       jwt.Service
	employees employee.EmployeeRepository
	now       time.Time
}

// newTestEnv wires the whole API over the in-memory store with the clock
// fixed at Monday 2025-03-10 09:00 UTC.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := memory.NewStore(memory.WithClock(clock))
	tx := store.Transactor()
	attendanceRepo := memory.NewAttendanceRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	leaveRepo := memory.NewLeaveRequestRepository(store)
	holidayRepo := memory.NewHolidayRepository(store)
	settingsRepo := memory.NewSettingsRepository(store)
	performanceRepo := memory.NewPerformanceRepository(store)

	resolver, err := shiftService.NewResolver(shiftService.PolicyNoon, 0)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, false)
	hub := sse.NewHub()
	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")

	empSvc := employeeService.NewEmployeeService(employeeRepo)
	handlers := Handlers{
		Attendance: NewAttendanceHandler(
			attendanceService.NewAttendanceService(tx, attendanceRepo, employeeRepo, leaveRepo, holidayRepo, settingsRepo, resolver, time.UTC, m, hub),
			hub,
			clock,
		),
		Leave:       NewLeaveHandler(leaveService.NewLeaveService(leaveRepo, clock), empSvc),
		Holiday:     NewHolidayHandler(holidayService.NewHolidayService(holidayRepo)),
		Settings:    NewSettingsHandler(settingsService.NewSettingsService(settingsRepo)),
		Employee:    NewEmployeeHandler(empSvc),
		Performance: NewPerformanceHandler(performanceService.NewPerformanceService(tx, performanceRepo, employeeRepo, time.UTC, clock)),
		Dashboard:   NewDashboardHandler(dashboardService.NewDashboardService(attendanceRepo, employeeRepo, leaveRepo, holidayRepo, time.UTC), clock),
	}

	router := NewRouter(RouterConfig{
		JWTService:     jwtSvc,
		Metrics:        m.Handler(),
		AllowedOrigins: []string{"http://localhost:3000"},
		Env:            "test",
		Version:        "test",
	}, handlers)

	return &testEnv{router: router, jwt: jwtSvc, employees: employeeRepo, now: now}
}

func (e *testEnv) addEmployee(t *testing.T, id string, role employee.Role) string {
	t.Helper()
	_, err := e.employees.Create(context.Background(), employee.Employee{
		ID:           id,
		EmployeeCode: "EMP" + id,
		Name:         "Employee " + id,
		Email:        id + "@example.com",
		Role:         role,
		Department:   "Sales",
		Status:       employee.StatusActive,
		WorkType:     employee.WorkTypeFullTime,
	})
	require.NoError(t, err)

	token, _, err := e.jwt.GenerateAccessToken(id, role)
	require.NoError(t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRouter_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/attendance/today", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/attendance/today", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminRoutesRejectEmployees(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)

	rec, body := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestRouter_HeartbeatAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendanceHandler_ClockInOutFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)

	rec, body := env.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body.Data)

	rec, body = env.do(t, http.MethodGet, "/api/v1/attendance/active", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body.Data)

	rec, body = env.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var record struct {
		Date   string `json:"date"`
		Status string `json:"status"`
		IsOpen bool   `json:"is_open"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &record))
	assert.Equal(t, "2025-03-10", record.Date)
	assert.Equal(t, "Present", record.Status)
	assert.True(t, record.IsOpen)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/attendance/active", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body.Data, &record))
	assert.False(t, record.IsOpen)

	rec, body = env.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestAttendanceHandler_NoRecordOmitsData(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)

	for _, path := range []string{"/api/v1/attendance/today", "/api/v1/attendance/active"} {
		rec, _ := env.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), path)
		assert.NotContains(t, raw, "data", path)
		assert.JSONEq(t, "true", string(raw["success"]), path)
	}
}

func TestAttendanceHandler_ClockOutWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)

	rec, body := env.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestAttendanceHandler_ApprovedLeaveBlocksClockIn(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)
	adminToken := env.addEmployee(t, "a1", employee.RoleAdmin)

	rec, body := env.do(t, http.MethodPost, "/api/v1/leaves", token, map[string]string{
		"type":      "Casual Leave",
		"from_date": "2025-03-10",
		"to_date":   "2025-03-11",
		"reason":    "Family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID           string `json:"id"`
		EmployeeName string `json:"employee_name"`
		Days         int    `json:"days"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "Employee e1", created.EmployeeName)
	assert.Equal(t, 2, created.Days)
	assert.Equal(t, "Pending", created.Status)

	rec, _ = env.do(t, http.MethodPut, "/api/v1/admin/leaves/"+created.ID+"/status", adminToken, map[string]string{"status": "Approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodPut, "/api/v1/admin/leaves/"+created.ID+"/status", adminToken, map[string]string{"status": "Rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "2025-03-10", body.Error.Details["from_date"])
	assert.Equal(t, "2025-03-11", body.Error.Details["to_date"])
}

func TestEmployeeHandler_ValidationAndCreate(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.addEmployee(t, "a1", employee.RoleAdmin)

	rec, body := env.do(t, http.MethodPost, "/api/v1/admin/employees", adminToken, map[string]string{
		"employee_code":    "bad",
		"name":             "",
		"email":            "nope",
		"shift_start_time": "22:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "employee_code")
	assert.Contains(t, body.Error.Details, "shift_end_time")

	rec, body = env.do(t, http.MethodPost, "/api/v1/admin/employees", adminToken, map[string]string{
		"employee_code":    "EMP100",
		"name":             "Night Worker",
		"email":            "night@example.com",
		"shift_start_time": "22:00",
		"shift_end_time":   "06:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID           string `json:"id"`
		IsNightShift bool   `json:"is_night_shift"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.True(t, created.IsNightShift)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/admin/employees/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/admin/employees/missing", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.addEmployee(t, "a1", employee.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/holidays", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_CountsToday(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)
	env.addEmployee(t, "e2", employee.RoleEmployee)
	adminToken := env.addEmployee(t, "a1", employee.RoleAdmin)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		Date            string `json:"date"`
		ActiveEmployees int64  `json:"active_employees"`
		OpenSessions    int64  `json:"open_sessions"`
		Attendance      struct {
			Present      int64 `json:"present"`
			NotCheckedIn int64 `json:"not_checked_in"`
		} `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &dash))
	assert.Equal(t, "2025-03-10", dash.Date)
	assert.Equal(t, int64(3), dash.ActiveEmployees)
	assert.Equal(t, int64(1), dash.OpenSessions)
	assert.Equal(t, int64(1), dash.Attendance.Present)
	assert.Equal(t, int64(2), dash.Attendance.NotCheckedIn)
}

func TestAttendanceHandler_StreamRelaysClockIn(t *testing.T) {
	env := newTestEnv(t)
	token := env.addEmployee(t, "e1", employee.RoleEmployee)
	adminToken := env.addEmployee(t, "a1", employee.RoleAdmin)

	server := httptest.NewServer(env.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/admin/attendance/stream?token="+adminToken, nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	nextEvent := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if name, ok := strings.CutPrefix(strings.TrimSpace(line), "event: "); ok {
				return name
			}
		}
	}

	assert.Equal(t, "connected", nextEvent())

	rec, _ := env.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, attendanceService.EventClockIn, nextEvent())
}
