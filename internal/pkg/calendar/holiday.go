package calendar

import (
	"sort"
	"sync"
	"time"
)

// Holiday is a single named public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// StaticHolidayCalendar is an in-memory, year-indexed holiday table. It is
// safe for concurrent use so admins can add entries while requests read it.
type StaticHolidayCalendar struct {
	mu     sync.RWMutex
	byYear map[int]map[string]string
}

func NewStaticHolidayCalendar(holidays []Holiday) *StaticHolidayCalendar {
	c := &StaticHolidayCalendar{byYear: make(map[int]map[string]string)}
	for _, h := range holidays {
		c.Add(h)
	}
	return c
}

func (c *StaticHolidayCalendar) Add(h Holiday) {
	date := Date(h.Date)

	c.mu.Lock()
	defer c.mu.Unlock()
	year, ok := c.byYear[date.Year()]
	if !ok {
		year = make(map[string]string)
		c.byYear[date.Year()] = year
	}
	year[Format(date)] = h.Name
}

func (c *StaticHolidayCalendar) Remove(date time.Time) {
	date = Date(date)

	c.mu.Lock()
	defer c.mu.Unlock()
	if year, ok := c.byYear[date.Year()]; ok {
		delete(year, Format(date))
	}
}

func (c *StaticHolidayCalendar) IsHoliday(date time.Time) bool {
	_, ok := c.HolidayName(date)
	return ok
}

func (c *StaticHolidayCalendar) HolidayName(date time.Time) (string, bool) {
	date = Date(date)

	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.byYear[date.Year()][Format(date)]
	return name, ok
}

// Year lists the holidays of one calendar year in date order.
func (c *StaticHolidayCalendar) Year(year int) []Holiday {
	c.mu.RLock()
	defer c.mu.RUnlock()

	holidays := make([]Holiday, 0, len(c.byYear[year]))
	for d, name := range c.byYear[year] {
		date, err := ParseDate(d)
		if err != nil {
			continue
		}
		holidays = append(holidays, Holiday{Date: date, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

// Years reports which years have at least one holiday loaded.
func (c *StaticHolidayCalendar) Years() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	years := make([]int, 0, len(c.byYear))
	for y, entries := range c.byYear {
		if len(entries) > 0 {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}
