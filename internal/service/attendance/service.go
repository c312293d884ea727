package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AttendanceService struct {
	tx     database.TxManager
	ledger leave.Ledger
	cal    *calendar.Calendar
	hub    *sse.Hub
	attendance.AttendanceRepository
	user.UserRepository
}

func NewAttendanceService(tx database.TxManager, ledger leave.Ledger, cal *calendar.Calendar, attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository, hub *sse.Hub) *AttendanceService {
	return &AttendanceService{
		tx:                   tx,
		ledger:               ledger,
		cal:                  cal,
		hub:                  hub,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
	}
}

// authorize loads userID and checks actor may manage their records.
func (s *AttendanceService) authorize(ctx context.Context, actor user.Actor, userID string) (user.User, error) {
	target, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) && !actor.IsManager() {
			return user.User{}, user.ErrForbidden
		}
		return user.User{}, err
	}
	if !actor.CanAccess(target) {
		return user.User{}, user.ErrForbidden
	}
	return target, nil
}

// yearUsage is the leave consumed in one calendar year by a request.
type yearUsage struct {
	key    leave.Key
	amount decimal.Decimal
}

// usageByYear groups working days per year so a request crossing New Year
// draws on each year's own pool.
func usageByYear(userID string, t attendance.Type, dates []time.Time) []yearUsage {
	d, _ := attendance.Describe(t)
	if !d.IsLeaveBearing() {
		return nil
	}

	days := make(map[int]int64)
	for _, date := range dates {
		days[date.Year()]++
	}

	years := make([]int, 0, len(days))
	for y := range days {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]yearUsage, 0, len(years))
	for _, y := range years {
		out = append(out, yearUsage{
			key:    leave.Key{UserID: userID, Year: y, LeaveType: d.Pool},
			amount: d.DayWeight.Mul(decimal.NewFromInt(days[y])),
		})
	}
	return out
}

func totalUsage(usages []yearUsage) decimal.Decimal {
	total := decimal.Zero
	for _, u := range usages {
		total = total.Add(u.amount)
	}
	return total
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, calendar.Format(d))
	}
	return out
}

// proposedWindow returns the effective window of a new record, if it has one.
func proposedWindow(t attendance.Type, startTime, endTime *string) (attendance.Window, bool) {
	start, end := attendance.ResolveWindow(t, startTime, endTime)
	return attendance.Record{StartTime: start, EndTime: end}.Window()
}

// Create implements attendance.AttendanceService.
func (s *AttendanceService) Create(ctx context.Context, actor user.Actor, req attendance.CreateAttendanceRequest) (attendance.CreateAttendanceResponse, error) {
	if req.UserID == "" {
		req.UserID = actor.UserID
	}
	owner, err := s.authorize(ctx, actor, req.UserID)
	if err != nil {
		return attendance.CreateAttendanceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.CreateAttendanceResponse{}, err
	}

	startDate, endDate, err := req.Dates()
	if err != nil {
		return attendance.CreateAttendanceResponse{}, err
	}
	dates, err := s.cal.WorkingDays(startDate, endDate)
	if err != nil {
		return attendance.CreateAttendanceResponse{}, err
	}
	if len(dates) == 0 {
		return attendance.CreateAttendanceResponse{}, attendance.ErrNoWorkingDays
	}

	typ := attendance.Type(req.Type)
	startTime, endTime := attendance.ResolveWindow(typ, req.StartTime, req.EndTime)
	usages := usageByYear(req.UserID, typ, dates)

	var (
		created  []attendance.Record
		balances []leave.Balance
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.ListByUserAndDates(ctx, req.UserID, dates)
		if err != nil {
			return fmt.Errorf("failed to load existing records: %w", err)
		}
		// One record per day subsumes any time-window overlap.
		if len(existing) > 0 {
			return &attendance.DateConflictError{Date: existing[0].Date, Existing: existing[0]}
		}

		for _, u := range usages {
			if _, err := s.ledger.EnsureAvailable(ctx, u.key, u.amount); err != nil {
				return err
			}
		}

		weight := attendance.DayWeight(typ)
		for _, date := range dates {
			rec, err := s.AttendanceRepository.Create(ctx, attendance.Record{
				ID:          uuid.New().String(),
				UserID:      req.UserID,
				Date:        date,
				Type:        typ,
				Reason:      req.Reason,
				StartTime:   startTime,
				EndTime:     endTime,
				LeaveAmount: weight,
			})
			if err != nil {
				return err
			}
			created = append(created, rec)
		}

		for _, u := range usages {
			b, err := s.ledger.Debit(ctx, u.key, u.amount)
			if err != nil {
				return err
			}
			balances = append(balances, b)
		}
		return nil
	})
	if err != nil {
		return attendance.CreateAttendanceResponse{}, err
	}

	ids := make([]string, 0, len(created))
	for _, rec := range created {
		ids = append(ids, rec.ID)
	}
	s.publish(owner, attendance.ChangeEvent{
		Action:    attendance.ChangeCreated,
		ActorID:   actor.UserID,
		UserID:    owner.ID,
		RecordIDs: ids,
		Dates:     formatDates(dates),
	})

	usage := totalUsage(usages)
	slog.Info("Created attendance records",
		"actor_id", actor.UserID,
		"user_id", req.UserID,
		"type", req.Type,
		"days", len(created),
		"leave_usage", usage.String(),
	)

	return attendance.CreateAttendanceResponse{
		CreatedDates: formatDates(dates),
		LeaveUsage:   usage.InexactFloat64(),
		Records:      attendance.NewAttendanceResponses(created),
		Balances:     leave.NewBalanceResponses(balances),
	}, nil
}

// Check implements attendance.AttendanceService. It reports every problem a
// create would hit, without writing anything.
func (s *AttendanceService) Check(ctx context.Context, actor user.Actor, req attendance.CreateAttendanceRequest) (attendance.CheckAttendanceResponse, error) {
	if req.UserID == "" {
		req.UserID = actor.UserID
	}
	if _, err := s.authorize(ctx, actor, req.UserID); err != nil {
		return attendance.CheckAttendanceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.CheckAttendanceResponse{}, err
	}

	startDate, endDate, err := req.Dates()
	if err != nil {
		return attendance.CheckAttendanceResponse{}, err
	}
	dates, err := s.cal.WorkingDays(startDate, endDate)
	if err != nil {
		return attendance.CheckAttendanceResponse{}, err
	}

	resp := attendance.CheckAttendanceResponse{
		WorkingDates: formatDates(dates),
		Problems:     make([]attendance.CheckProblem, 0),
	}
	if len(dates) == 0 {
		resp.Problems = append(resp.Problems, attendance.CheckProblem{
			Code:    attendance.ProblemNoWorkingDays,
			Message: attendance.ErrNoWorkingDays.Error(),
		})
		return resp, nil
	}

	typ := attendance.Type(req.Type)
	window, hasWindow := proposedWindow(typ, req.StartTime, req.EndTime)
	usages := usageByYear(req.UserID, typ, dates)
	resp.LeaveUsage = totalUsage(usages).InexactFloat64()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.ListByUserAndDates(ctx, req.UserID, dates)
		if err != nil {
			return fmt.Errorf("failed to load existing records: %w", err)
		}
		for _, rec := range existing {
			resp.Problems = append(resp.Problems, attendance.CheckProblem{
				Code:    attendance.ProblemDateAlreadyRecorded,
				Message: (&attendance.DateConflictError{Date: rec.Date, Existing: rec}).Error(),
				Date:    calendar.Format(rec.Date),
			})
			if !hasWindow {
				continue
			}
			if conflict, found := attendance.FindConflict([]attendance.Record{rec}, window); found {
				resp.Problems = append(resp.Problems, attendance.CheckProblem{
					Code:    attendance.ProblemTimeOverlap,
					Message: (&attendance.OverlapError{Date: rec.Date, Proposed: window, Existing: conflict}).Error(),
					Date:    calendar.Format(rec.Date),
				})
			}
		}

		for _, u := range usages {
			_, err := s.ledger.EnsureAvailable(ctx, u.key, u.amount)
			var insufficient *leave.InsufficientBalanceError
			switch {
			case errors.As(err, &insufficient):
				resp.Problems = append(resp.Problems, attendance.CheckProblem{
					Code:    attendance.ProblemInsufficientBalance,
					Message: insufficient.Error(),
				})
			case err != nil:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.CheckAttendanceResponse{}, err
	}

	resp.OK = len(resp.Problems) == 0
	return resp, nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceService) Update(ctx context.Context, actor user.Actor, req attendance.UpdateAttendanceRequest) (attendance.UpdateAttendanceResponse, error) {
	current, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.UpdateAttendanceResponse{}, err
	}
	owner, err := s.authorize(ctx, actor, current.UserID)
	if err != nil {
		return attendance.UpdateAttendanceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.UpdateAttendanceResponse{}, err
	}

	newDate, err := calendar.ParseDate(req.Date)
	if err != nil {
		return attendance.UpdateAttendanceResponse{}, err
	}
	newType := attendance.Type(req.Type)
	startTime, endTime := attendance.ResolveWindow(newType, req.StartTime, req.EndTime)

	updated := current
	updated.Date = newDate
	updated.Type = newType
	updated.Reason = req.Reason
	updated.StartTime = startTime
	updated.EndTime = endTime

	ledgerChanged := !newDate.Equal(current.Date) || newType != current.Type
	if ledgerChanged {
		updated.LeaveAmount = decimal.Zero
		if s.cal.IsWorkingDay(newDate) {
			updated.LeaveAmount = attendance.DayWeight(newType)
		}
	}

	var balances []leave.Balance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if !newDate.Equal(current.Date) {
			others, err := s.AttendanceRepository.ListByUserAndDates(ctx, current.UserID, []time.Time{newDate})
			if err != nil {
				return fmt.Errorf("failed to load existing records: %w", err)
			}
			for _, other := range others {
				if other.ID != current.ID {
					return &attendance.DateConflictError{Date: newDate, Existing: other}
				}
			}
		}

		if err := s.AttendanceRepository.Update(ctx, updated); err != nil {
			return err
		}

		if !ledgerChanged {
			return nil
		}

		// Credit before debit so switching between types of the same pool
		// only needs the difference to be available.
		if key, amount, ok := s.leaveEffect(current); ok {
			b, err := s.ledger.Credit(ctx, key, amount)
			if err != nil {
				return err
			}
			balances = append(balances, b)
		}
		if key, amount, ok := s.leaveEffect(updated); ok {
			b, err := s.ledger.Debit(ctx, key, amount)
			if err != nil {
				return err
			}
			balances = append(balances, b)
		}
		return nil
	})
	if err != nil {
		return attendance.UpdateAttendanceResponse{}, err
	}

	changedDates := []time.Time{current.Date}
	if !newDate.Equal(current.Date) {
		changedDates = append(changedDates, newDate)
	}
	s.publish(owner, attendance.ChangeEvent{
		Action:    attendance.ChangeUpdated,
		ActorID:   actor.UserID,
		UserID:    owner.ID,
		RecordIDs: []string{current.ID},
		Dates:     formatDates(changedDates),
	})

	slog.Info("Updated attendance record",
		"actor_id", actor.UserID,
		"record_id", current.ID,
		"old_type", current.Type,
		"new_type", newType,
		"ledger_changed", ledgerChanged,
	)

	refreshed, err := s.AttendanceRepository.GetByID(ctx, current.ID)
	if err != nil {
		return attendance.UpdateAttendanceResponse{}, err
	}

	return attendance.UpdateAttendanceResponse{
		Success:  true,
		Record:   attendance.NewAttendanceResponse(refreshed),
		Balances: leave.NewBalanceResponses(latestBalances(balances)),
	}, nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceService) Delete(ctx context.Context, actor user.Actor, id string) (attendance.DeleteAttendanceResponse, error) {
	current, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.DeleteAttendanceResponse{}, err
	}
	owner, err := s.authorize(ctx, actor, current.UserID)
	if err != nil {
		return attendance.DeleteAttendanceResponse{}, err
	}

	restored := decimal.Zero
	var balances []leave.Balance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
			return err
		}
		if key, amount, ok := s.leaveEffect(current); ok {
			b, err := s.ledger.Credit(ctx, key, amount)
			if err != nil {
				return err
			}
			restored = amount
			balances = append(balances, b)
		}
		return nil
	})
	if err != nil {
		return attendance.DeleteAttendanceResponse{}, err
	}

	s.publish(owner, attendance.ChangeEvent{
		Action:    attendance.ChangeDeleted,
		ActorID:   actor.UserID,
		UserID:    owner.ID,
		RecordIDs: []string{current.ID},
		Dates:     formatDates([]time.Time{current.Date}),
	})

	slog.Info("Deleted attendance record",
		"actor_id", actor.UserID,
		"record_id", id,
		"type", current.Type,
		"restored", restored.String(),
	)

	return attendance.DeleteAttendanceResponse{
		Success:       true,
		Deleted:       attendance.NewAttendanceResponse(current),
		RestoredLeave: restored.InexactFloat64(),
		Balances:      leave.NewBalanceResponses(balances),
	}, nil
}

func (s *AttendanceService) publish(owner user.User, event attendance.ChangeEvent) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(attendance.RecordTopics(owner), sse.Event{Event: string(event.Action), Data: event})
}

// leaveEffect is the ledger amount a stored record accounts for. It is the
// amount debited when the record was written, so later calendar changes do
// not alter what a delete or edit gives back.
func (s *AttendanceService) leaveEffect(rec attendance.Record) (leave.Key, decimal.Decimal, bool) {
	d, _ := attendance.Describe(rec.Type)
	if !d.IsLeaveBearing() || !rec.LeaveAmount.IsPositive() {
		return leave.Key{}, decimal.Zero, false
	}
	return leave.Key{UserID: rec.UserID, Year: rec.Date.Year(), LeaveType: d.Pool}, rec.LeaveAmount, true
}

// latestBalances keeps the last state seen per ledger row.
func latestBalances(balances []leave.Balance) []leave.Balance {
	seen := make(map[leave.Key]int, len(balances))
	out := make([]leave.Balance, 0, len(balances))
	for _, b := range balances {
		if i, ok := seen[b.Key()]; ok {
			out[i] = b
			continue
		}
		seen[b.Key()] = len(out)
		out = append(out, b)
	}
	return out
}

// Get implements attendance.AttendanceService.
func (s *AttendanceService) Get(ctx context.Context, actor user.Actor, id string) (attendance.AttendanceResponse, error) {
	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := s.authorize(ctx, actor, rec.UserID); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(rec), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceService) List(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	records, err := s.AttendanceRepository.List(ctx, filter, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewAttendanceResponses(records), nil
}

// Types implements attendance.AttendanceService.
func (s *AttendanceService) Types() []attendance.TypeResponse {
	catalog := attendance.Catalog()
	out := make([]attendance.TypeResponse, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, attendance.NewTypeResponse(d))
	}
	return out
}
