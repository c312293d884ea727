// Package calendar classifies civil dates as weekend, holiday or working day
// and expands date ranges. Dates are represented as time.Time at 00:00 UTC.
package calendar

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

// MaxRangeDays bounds how many dates a single range may expand to.
const MaxRangeDays = 366

var (
	ErrInvalidRange = errors.New("end date is before start date")
	ErrRangeTooLong = errors.New("date range must not exceed 366 days")
)

// RangeDays is the inclusive number of dates from start to end.
func RangeDays(start, end time.Time) int {
	return int(Date(end).Sub(Date(start)).Hours()/24) + 1
}

// HolidayCalendar answers whether a date is a public holiday.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
	HolidayName(date time.Time) (string, bool)
}

// Calendar combines the weekday rules with a holiday source.
type Calendar struct {
	holidays HolidayCalendar
}

func New(holidays HolidayCalendar) *Calendar {
	if holidays == nil {
		holidays = NewStaticHolidayCalendar(nil)
	}
	return &Calendar{holidays: holidays}
}

// Date truncates t to its civil date at 00:00 UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

func Format(t time.Time) string {
	return t.Format(DateLayout)
}

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (c *Calendar) IsWeekend(date time.Time) bool {
	return IsWeekend(date)
}

func (c *Calendar) IsHoliday(date time.Time) bool {
	return c.holidays.IsHoliday(Date(date))
}

func (c *Calendar) HolidayName(date time.Time) (string, bool) {
	return c.holidays.HolidayName(Date(date))
}

func (c *Calendar) IsWorkingDay(date time.Time) bool {
	return !c.IsWeekend(date) && !c.IsHoliday(date)
}

// ExpandRange returns every date from start to end, both inclusive.
func ExpandRange(start, end time.Time) ([]time.Time, error) {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	n := RangeDays(start, end)
	if n > MaxRangeDays {
		return nil, ErrRangeTooLong
	}

	dates := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

func (c *Calendar) ExpandRange(start, end time.Time) ([]time.Time, error) {
	return ExpandRange(start, end)
}

// WorkingDays returns the dates in [start, end] that are working days.
func (c *Calendar) WorkingDays(start, end time.Time) ([]time.Time, error) {
	dates, err := ExpandRange(start, end)
	if err != nil {
		return nil, err
	}

	working := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if c.IsWorkingDay(d) {
			working = append(working, d)
		}
	}
	return working, nil
}

func (c *Calendar) CountWorkingDays(start, end time.Time) (int, error) {
	days, err := c.WorkingDays(start, end)
	if err != nil {
		return 0, err
	}
	return len(days), nil
}
