package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	leave.BalanceRepository
	now func() time.Time
}

func NewDashboardService(attendanceRepository attendance.AttendanceRepository, balanceRepository leave.BalanceRepository) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepository,
		BalanceRepository:    balanceRepository,
		now:                  time.Now,
	}
}

// GetMy returns the caller's own balances and records using parallel goroutines
func (s *DashboardServiceImpl) GetMy(ctx context.Context, actor user.Actor, year int) (dashboard.MyDashboardResponse, error) {
	today := calendar.Date(s.now())
	if year == 0 {
		year = today.Year()
	}
	if !validator.IsValidYear(year) {
		return dashboard.MyDashboardResponse{}, validator.ValidationErrors{{Field: "year", Message: "year must be between 2000 and 2100"}}
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	horizon := today.AddDate(0, 3, 0)
	self := user.Actor{UserID: actor.UserID, Role: user.RoleUser}

	var (
		balances []leave.Balance
		month    []attendance.Record
		upcoming []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Balances for the requested year
	g.Go(func() error {
		var err error
		balances, err = s.BalanceRepository.ListByUserYear(gCtx, actor.UserID, year)
		if err != nil {
			return fmt.Errorf("failed to load balances: %w", err)
		}
		return nil
	})

	// 2. This month's records
	g.Go(func() error {
		var err error
		month, err = s.AttendanceRepository.List(gCtx, attendance.AttendanceFilter{
			UserID: actor.UserID,
			From:   &monthStart,
			To:     &monthEnd,
		}, self)
		if err != nil {
			return fmt.Errorf("failed to load month records: %w", err)
		}
		return nil
	})

	// 3. Leave coming up in the next three months
	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.AttendanceFilter{
			UserID: actor.UserID,
			From:   &today,
			To:     &horizon,
		}, self)
		if err != nil {
			return fmt.Errorf("failed to load upcoming records: %w", err)
		}
		for _, r := range records {
			if attendance.IsLeaveBearing(r.Type) {
				upcoming = append(upcoming, r)
			}
			if len(upcoming) == dashboard.UpcomingLimit {
				break
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.MyDashboardResponse{}, err
	}

	resp := dashboard.MyDashboardResponse{
		Year:          year,
		Today:         calendar.Format(today),
		Balances:      leave.NewBalanceResponses(balances),
		MonthRecords:  attendance.NewAttendanceResponses(month),
		UpcomingLeave: attendance.NewAttendanceResponses(upcoming),
	}

	leaveDays := decimal.Zero
	for _, r := range month {
		leaveDays = leaveDays.Add(attendance.DayWeight(r.Type))
		if r.Date.Equal(today) {
			todayRecord := attendance.NewAttendanceResponse(r)
			resp.TodayRecord = &todayRecord
		}
	}
	resp.LeaveDaysThisMonth = leaveDays.InexactFloat64()

	return resp, nil
}
