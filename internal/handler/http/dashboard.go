package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetMy returns the caller's balances, this month's records and upcoming leave
	GetMy(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetMy handles GET /dashboard/my
func (h *dashboardHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year, err := queryInt(r, "year", 0) // default: current year
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetMy(r.Context(), actor, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
