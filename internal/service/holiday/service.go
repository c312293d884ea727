package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
	calendar *calendar.StaticHolidayCalendar
	defaults []calendar.Holiday
}

func NewHolidayService(holidayRepository holiday.HolidayRepository, cal *calendar.StaticHolidayCalendar, defaults []calendar.Holiday) *HolidayServiceImpl {
	return &HolidayServiceImpl{
		HolidayRepository: holidayRepository,
		calendar:          cal,
		defaults:          defaults,
	}
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	if year != 0 && !validator.IsValidYear(year) {
		return nil, validator.ValidationErrors{{Field: "year", Message: "year must be between 2000 and 2100"}}
	}

	holidays, err := s.HolidayRepository.List(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	out := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holiday.NewHolidayResponse(h))
	}
	return out, nil
}

// Create implements holiday.HolidayService. Records already stored on the
// date keep the leave amount they debited.
func (s *HolidayServiceImpl) Create(ctx context.Context, actor user.Actor, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if !actor.IsAdmin() {
		return holiday.HolidayResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{Date: date, Name: req.Name})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	s.calendar.Add(calendar.Holiday{Date: created.Date, Name: created.Name})

	slog.Info("Added holiday", "actor_id", actor.UserID, "date", req.Date, "name", req.Name)
	return holiday.NewHolidayResponse(created), nil
}

// Delete implements holiday.HolidayService. Records already stored on the
// date keep their ledger effect.
func (s *HolidayServiceImpl) Delete(ctx context.Context, actor user.Actor, date string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminAccessRequired
	}

	d, err := calendar.ParseDate(date)
	if err != nil {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	if err := s.HolidayRepository.Delete(ctx, d); err != nil {
		return err
	}
	s.calendar.Remove(d)

	slog.Info("Removed holiday", "actor_id", actor.UserID, "date", date)
	return nil
}

// Load implements holiday.HolidayService.
func (s *HolidayServiceImpl) Load(ctx context.Context) (int, error) {
	count, err := s.HolidayRepository.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	if count == 0 {
		for _, h := range s.defaults {
			_, err := s.HolidayRepository.Create(ctx, holiday.Holiday{Date: calendar.Date(h.Date), Name: h.Name})
			if err != nil && !errors.Is(err, holiday.ErrHolidayExists) {
				return 0, fmt.Errorf("failed to seed holiday %s: %w", calendar.Format(h.Date), err)
			}
		}
		slog.Info("Seeded default holidays", "count", len(s.defaults))
	}

	holidays, err := s.HolidayRepository.List(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load holidays: %w", err)
	}
	for _, h := range holidays {
		s.calendar.Add(calendar.Holiday{Date: h.Date, Name: h.Name})
	}
	return len(holidays), nil
}
