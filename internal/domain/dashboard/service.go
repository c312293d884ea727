package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type DashboardService interface {
	GetMy(ctx context.Context, actor user.Actor, year int) (MyDashboardResponse, error)
}
