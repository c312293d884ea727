package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type HolidayService interface {
	List(ctx context.Context, year int) ([]HolidayResponse, error)
	Create(ctx context.Context, actor user.Actor, req CreateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, actor user.Actor, date string) error
	// Load seeds an empty table with the built-in holidays and loads every
	// persisted holiday into the working-day calendar.
	Load(ctx context.Context) (int, error)
}
