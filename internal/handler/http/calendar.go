package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendarview"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type CalendarHandler interface {
	// MonthView handles GET /calendar?year=&month=&department=
	MonthView(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendarview.CalendarViewService
	now             func() time.Time
}

func NewCalendarHandler(calendarService calendarview.CalendarViewService) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
		now:             time.Now,
	}
}

// MonthView implements CalendarHandler.
func (h *calendarHandlerImpl) MonthView(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	now := h.now()
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	view, err := h.calendarService.MonthView(r.Context(), actor, calendarview.MonthViewRequest{
		Year:       year,
		Month:      month,
		Department: r.URL.Query().Get("department"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}
