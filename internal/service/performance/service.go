package performance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
)

type PerformanceServiceImpl struct {
	tx              domain.Transactor
	performanceRepo performance.PerformanceRepository
	employeeRepo    employee.EmployeeRepository
	loc             *time.Location
	now             func() time.Time
}

func NewPerformanceService(
	tx domain.Transactor,
	performanceRepo performance.PerformanceRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
	now func() time.Time,
) performance.PerformanceService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &PerformanceServiceImpl{
		tx:              tx,
		performanceRepo: performanceRepo,
		employeeRepo:    employeeRepo,
		loc:             loc,
		now:             now,
	}
}

// AssignLeads implements performance.PerformanceService.
func (s *PerformanceServiceImpl) AssignLeads(ctx context.Context, req performance.AssignLeadsRequest) (performance.PerformanceResponse, error) {
	if err := req.Validate(); err != nil {
		return performance.PerformanceResponse{}, err
	}

	date := s.now().In(s.loc).Format(time.DateOnly)
	if req.Date != nil {
		date = *req.Date
	}

	var record performance.Record
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to get employee: %w", err)
		}

		existing, err := s.performanceRepo.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to find performance record: %w", err)
		}

		if existing != nil {
			existing.LeadsAssigned += req.LeadsAssigned
			if req.Remarks != nil {
				existing.Remarks = req.Remarks
			}
			if req.Country != nil && *req.Country != "" {
				existing.Country = *req.Country
			}
			record, err = s.performanceRepo.Update(ctx, *existing)
			return err
		}

		country := performance.DefaultCountry
		if req.Country != nil && *req.Country != "" {
			country = *req.Country
		}
		record, err = s.performanceRepo.Create(ctx, performance.Record{
			EmployeeID:    emp.ID,
			EmployeeName:  emp.Name,
			Date:          date,
			LeadsAssigned: req.LeadsAssigned,
			Remarks:       req.Remarks,
			Country:       country,
		})
		return err
	})
	if err != nil {
		return performance.PerformanceResponse{}, err
	}

	slog.Info("Leads assigned", "employee_id", record.EmployeeID, "date", record.Date, "leads_assigned", record.LeadsAssigned)
	return performance.NewPerformanceResponse(record), nil
}

// UpdateDailyProgress implements performance.PerformanceService.
func (s *PerformanceServiceImpl) UpdateDailyProgress(ctx context.Context, req performance.UpdateProgressRequest) (performance.PerformanceResponse, error) {
	if err := req.Validate(); err != nil {
		return performance.PerformanceResponse{}, err
	}

	var record performance.Record
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.performanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if req.EmployeeID != "" && current.EmployeeID != req.EmployeeID {
			return performance.ErrNotOwner
		}
		if req.ProspectsContacted > current.LeadsAssigned {
			return performance.ErrContactedExceedsAssigned
		}

		current.ProspectsContacted = req.ProspectsContacted
		current.Conversions = req.Conversions
		if req.Remarks != nil {
			current.Remarks = req.Remarks
		}
		record, err = s.performanceRepo.Update(ctx, current)
		return err
	})
	if err != nil {
		return performance.PerformanceResponse{}, err
	}

	return performance.NewPerformanceResponse(record), nil
}

// ListMyPerformance implements performance.PerformanceService.
func (s *PerformanceServiceImpl) ListMyPerformance(ctx context.Context, employeeID string, filter performance.PerformanceFilter) (performance.ListPerformanceResponse, error) {
	filter.EmployeeID = &employeeID
	return s.ListPerformance(ctx, filter)
}

// ListPerformance implements performance.PerformanceService.
func (s *PerformanceServiceImpl) ListPerformance(ctx context.Context, filter performance.PerformanceFilter) (performance.ListPerformanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return performance.ListPerformanceResponse{}, err
	}

	records, total, err := s.performanceRepo.List(ctx, filter)
	if err != nil {
		return performance.ListPerformanceResponse{}, fmt.Errorf("failed to list performance: %w", err)
	}

	responses := make([]performance.PerformanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, performance.NewPerformanceResponse(r))
	}

	return performance.ListPerformanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}
