package performance

import "context"

type PerformanceService interface {
	// AssignLeads adds leads to the employee's record for the day, creating it
	// when missing.
	AssignLeads(ctx context.Context, req AssignLeadsRequest) (PerformanceResponse, error)

	// UpdateDailyProgress is called by the employee owning the record.
	UpdateDailyProgress(ctx context.Context, req UpdateProgressRequest) (PerformanceResponse, error)

	ListMyPerformance(ctx context.Context, employeeID string, filter PerformanceFilter) (ListPerformanceResponse, error)
	ListPerformance(ctx context.Context, filter PerformanceFilter) (ListPerformanceResponse, error)
}
