package calendarview

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type CalendarViewService interface {
	MonthView(ctx context.Context, actor user.Actor, req MonthViewRequest) (MonthViewResponse, error)
}
