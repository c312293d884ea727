package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type AttendanceService interface {
	Create(ctx context.Context, actor user.Actor, req CreateAttendanceRequest) (CreateAttendanceResponse, error)
	// Check runs every create-time rule without persisting anything.
	Check(ctx context.Context, actor user.Actor, req CreateAttendanceRequest) (CheckAttendanceResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateAttendanceRequest) (UpdateAttendanceResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) (DeleteAttendanceResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (AttendanceResponse, error)
	List(ctx context.Context, actor user.Actor, filter AttendanceFilter) ([]AttendanceResponse, error)
	Types() []TypeResponse
}
