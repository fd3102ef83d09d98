package holiday

import "context"

type HolidayService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	ListHolidays(ctx context.Context, year int) ([]HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}
