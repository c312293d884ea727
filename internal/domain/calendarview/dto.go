package calendarview

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// MaxVisible is how many entries a day cell shows before collapsing the rest
// into a "+N more" count.
const MaxVisible = 3

type MonthViewRequest struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Department string `json:"department,omitempty"`
}

func (r *MonthViewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Entry is one record placed on the slot grid.
type Entry struct {
	RecordID     string               `json:"recordId"`
	UserID       string               `json:"userId"`
	UserName     string               `json:"userName"`
	Department   string               `json:"department"`
	Type         string               `json:"type"`
	StartTime    *string              `json:"startTime"`
	EndTime      *string              `json:"endTime"`
	Slots        attendance.SlotRange `json:"slots"`
	LeaveBearing bool                 `json:"leaveBearing"`
}

type DayCell struct {
	Date         string                    `json:"date"`
	Weekday      string                    `json:"weekday"`
	IsWeekend    bool                      `json:"isWeekend"`
	IsHoliday    bool                      `json:"isHoliday"`
	HolidayName  string                    `json:"holidayName,omitempty"`
	IsWorkingDay bool                      `json:"isWorkingDay"`
	Entries      []Entry                   `json:"entries"`
	Visible      []Entry                   `json:"visible"`
	More         int                       `json:"more"`
	Occupancy    [attendance.SlotCount]int `json:"occupancy"`
	MaxOccupancy int                       `json:"maxOccupancy"`
}

type MonthViewResponse struct {
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Department  string    `json:"department,omitempty"`
	SlotLabels  []string  `json:"slotLabels"`
	Departments []string  `json:"departments"`
	Days        []DayCell `json:"days"`
}
