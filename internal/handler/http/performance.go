package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PerformanceHandler interface {
	GetMyPerformance(w http.ResponseWriter, r *http.Request)
	UpdateProgress(w http.ResponseWriter, r *http.Request)
	AssignLeads(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	performanceService performance.PerformanceService
}

func NewPerformanceHandler(performanceService performance.PerformanceService) PerformanceHandler {
	return &performanceHandlerImpl{performanceService: performanceService}
}

func performanceFilterFromQuery(r *http.Request) performance.PerformanceFilter {
	return performance.PerformanceFilter{
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Country:    queryString(r, "country"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
}

// GetMyPerformance implements PerformanceHandler.
func (h *performanceHandlerImpl) GetMyPerformance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.performanceService.ListMyPerformance(r.Context(), employeeID, performanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// UpdateProgress implements PerformanceHandler.
func (h *performanceHandlerImpl) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req performance.UpdateProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.EmployeeID = employeeID

	result, err := h.performanceService.UpdateDailyProgress(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Progress updated", result)
}

// AssignLeads implements PerformanceHandler.
func (h *performanceHandlerImpl) AssignLeads(w http.ResponseWriter, r *http.Request) {
	var req performance.AssignLeadsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.performanceService.AssignLeads(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leads assigned", result)
}

// List implements PerformanceHandler.
func (h *performanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.performanceService.ListPerformance(r.Context(), performanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}
