package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create fails with ErrDateAlreadyRecorded when (user, date) is taken.
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// ListByUserAndDates returns the user's records on any of dates, ordered by date.
	ListByUserAndDates(ctx context.Context, userID string, dates []time.Time) ([]Record, error)
	Update(ctx context.Context, record Record) error
	Delete(ctx context.Context, id string) error
	// List returns records matching filter that actor is allowed to see.
	List(ctx context.Context, filter AttendanceFilter, actor user.Actor) ([]Record, error)
}
