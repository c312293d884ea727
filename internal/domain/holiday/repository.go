package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// Create fails with ErrHolidayExists when the date is taken.
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, date time.Time) error
	// List returns every holiday, or only year's when year > 0.
	List(ctx context.Context, year int) ([]Holiday, error)
	Count(ctx context.Context) (int64, error)
}
