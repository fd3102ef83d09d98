package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService    leave.LeaveService
	employeeService employee.EmployeeService
}

func NewLeaveHandler(leaveService leave.LeaveService, employeeService employee.EmployeeService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService:    leaveService,
		employeeService: employeeService,
	}
}

// Request implements LeaveHandler.
func (h *leaveHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.CreateLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, err := h.employeeService.GetEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.EmployeeID = employeeID
	req.EmployeeName = emp.Name

	result, err := h.leaveService.RequestLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", result)
}

func leaveFilterFromQuery(r *http.Request) leave.LeaveFilter {
	return leave.LeaveFilter{
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
		Type:       queryString(r, "type"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
}

// GetMyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.leaveService.ListMyLeaves(r.Context(), employeeID, leaveFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// Balance implements LeaveHandler. The year query defaults to the current year.
func (h *leaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year := 0
	if y := r.URL.Query().Get("year"); y != "" {
		year, err = strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
	}

	result, err := h.leaveService.GetBalance(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.leaveService.ListLeaves(r.Context(), leaveFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// Process implements LeaveHandler.
func (h *leaveHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	var req leave.ProcessLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.leaveService.ProcessLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request "+result.Status, result)
}
