package holiday

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
)

type HolidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{holidayRepo: holidayRepo}
}

// CreateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		Name: req.Name,
		Date: req.Date,
		Type: holiday.Type(req.Type),
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	slog.Info("Holiday created", "holiday_id", created.ID, "date", created.Date, "name", created.Name)
	return holiday.NewHolidayResponse(created), nil
}

// ListHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	holidays, err := s.holidayRepo.List(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// DeleteHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	return s.holidayRepo.Delete(ctx, id)
}
