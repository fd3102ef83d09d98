package dashboard

import (
	"context"
	"time"
)

type DashboardService interface {
	// GetDashboard builds the overview for the attendance date of now.
	GetDashboard(ctx context.Context, now time.Time) (DashboardResponse, error)
}
