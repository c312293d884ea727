package calendarview

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendarview"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

type CalendarViewServiceImpl struct {
	cal *calendar.Calendar
	attendance.AttendanceRepository
	user.UserRepository
}

func NewCalendarViewService(cal *calendar.Calendar, attendanceRepository attendance.AttendanceRepository, userRepository user.UserRepository) calendarview.CalendarViewService {
	return &CalendarViewServiceImpl{
		cal:                  cal,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
	}
}

// MonthView lays out every visible record of the month on the day/slot grid.
func (s *CalendarViewServiceImpl) MonthView(ctx context.Context, actor user.Actor, req calendarview.MonthViewRequest) (calendarview.MonthViewResponse, error) {
	if err := req.Validate(); err != nil {
		return calendarview.MonthViewResponse{}, err
	}

	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var (
		records []attendance.Record
		members []user.User
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.List(gCtx, attendance.AttendanceFilter{
			Department: req.Department,
			From:       &first,
			To:         &last,
		}, actor)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		members, err = s.UserRepository.List(gCtx, actor)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return calendarview.MonthViewResponse{}, err
	}

	byDate := make(map[string][]calendarview.Entry)
	for _, rec := range records {
		key := calendar.Format(rec.Date)
		byDate[key] = append(byDate[key], newEntry(rec))
	}

	days, err := calendar.ExpandRange(first, last)
	if err != nil {
		return calendarview.MonthViewResponse{}, err
	}

	resp := calendarview.MonthViewResponse{
		Year:        req.Year,
		Month:       req.Month,
		Department:  req.Department,
		SlotLabels:  slotLabels(),
		Departments: departments(members),
		Days:        make([]calendarview.DayCell, 0, len(days)),
	}
	for _, day := range days {
		resp.Days = append(resp.Days, s.dayCell(day, byDate[calendar.Format(day)]))
	}

	return resp, nil
}

func (s *CalendarViewServiceImpl) dayCell(day time.Time, entries []calendarview.Entry) calendarview.DayCell {
	holidayName, isHoliday := s.cal.HolidayName(day)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Slots.Start != entries[j].Slots.Start {
			return entries[i].Slots.Start < entries[j].Slots.Start
		}
		return entries[i].UserName < entries[j].UserName
	})

	var occupancy attendance.Occupancy
	for _, e := range entries {
		occupancy.Add(e.Slots)
	}

	visible := entries
	more := 0
	if len(entries) > calendarview.MaxVisible {
		visible = entries[:calendarview.MaxVisible]
		more = len(entries) - calendarview.MaxVisible
	}
	if entries == nil {
		entries = []calendarview.Entry{}
		visible = entries
	}

	return calendarview.DayCell{
		Date:         calendar.Format(day),
		Weekday:      day.Weekday().String(),
		IsWeekend:    s.cal.IsWeekend(day),
		IsHoliday:    isHoliday,
		HolidayName:  holidayName,
		IsWorkingDay: s.cal.IsWorkingDay(day),
		Entries:      entries,
		Visible:      visible,
		More:         more,
		Occupancy:    occupancy,
		MaxOccupancy: occupancy.Max(),
	}
}

func newEntry(rec attendance.Record) calendarview.Entry {
	e := calendarview.Entry{
		RecordID:     rec.ID,
		UserID:       rec.UserID,
		Type:         string(rec.Type),
		StartTime:    rec.StartTime,
		EndTime:      rec.EndTime,
		Slots:        attendance.SlotsForRecord(rec),
		LeaveBearing: attendance.IsLeaveBearing(rec.Type),
	}
	if rec.UserName != nil {
		e.UserName = *rec.UserName
	}
	if rec.Department != nil {
		e.Department = *rec.Department
	}
	return e
}

func slotLabels() []string {
	labels := make([]string, attendance.SlotCount)
	for i := range labels {
		labels[i] = attendance.SlotLabel(i)
	}
	return labels
}

func departments(members []user.User) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, m := range members {
		if m.Department != "" && !seen[m.Department] {
			seen[m.Department] = true
			out = append(out, m.Department)
		}
	}
	sort.Strings(out)
	return out
}
