package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
)

type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, now func() time.Time) DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &dashboardHandlerImpl{dashboardService: dashboardService, now: now}
}

// GetDashboard handles GET /admin/dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context(), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
