package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	attendancesvc "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// streamKeepalive is the interval between ping events on the live feed.
const streamKeepalive = 30 * time.Second

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub, now func() time.Time) AttendanceHandler {
	if now == nil {
		now = time.Now
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		hub:               hub,
		now:               now,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), attendance.ClockInRequest{
		EmployeeID: employeeID,
		Now:        h.now(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), attendance.ClockOutRequest{
		EmployeeID: employeeID,
		Now:        h.now(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Today implements AttendanceHandler. Data is omitted when there is no record
// for today's attendance date.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), attendance.TodayRequest{
		EmployeeID: employeeID,
		Now:        h.now(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.Success(w, nil)
		return
	}
	response.Success(w, result)
}

// Active implements AttendanceHandler. Data is omitted when no session is open.
func (h *attendanceHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetActiveSession(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.Success(w, nil)
		return
	}
	response.Success(w, result)
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		EmployeeID:   queryString(r, "employee_id"),
		EmployeeName: queryString(r, "employee_name"),
		Date:         queryString(r, "date"),
		StartDate:    queryString(r, "start_date"),
		EndDate:      queryString(r, "end_date"),
		Status:       queryString(r, "status"),
		Page:         queryInt(r, "page", 1),
		Limit:        queryInt(r, "limit", 20),
		SortBy:       r.URL.Query().Get("sort_by"),
		SortOrder:    r.URL.Query().Get("sort_order"),
	}
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.attendanceService.ListMyAttendance(r.Context(), employeeID, attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.ListAttendance(r.Context(), attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// Stream implements AttendanceHandler. It relays clock-in and clock-out
// events to an admin over server-sent events.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(attendancesvc.TopicAttendance)
	defer cleanup()

	subscriberID := uuid.NewString()
	slog.Debug("Attendance stream subscribed", "subscriber_id", subscriberID)
	defer slog.Debug("Attendance stream closed", "subscriber_id", subscriberID)

	connected := sse.Event{Event: "connected", Data: map[string]string{"subscriber_id": subscriberID}}
	if err := connected.Write(w); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := event.Write(w); err != nil {
				slog.Debug("Attendance stream write failed", "subscriber_id", subscriberID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", h.now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
