package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one user's status on one calendar date. Multi-day requests are
// stored as one Record per working day.
type Record struct {
	ID        string
	UserID    string
	Date      time.Time
	Type      Type
	Reason    string
	StartTime *string // HH:MM
	EndTime   *string // HH:MM
	// LeaveAmount is what the record debited from its pool when stored.
	LeaveAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt time.Time

	// DTO / Join
	UserName   *string
	Department *string
}

// Window returns the record's stored time window, if it has both ends.
func (r Record) Window() (Window, bool) {
	if r.StartTime == nil || r.EndTime == nil {
		return Window{}, false
	}
	start, err := ParseClock(*r.StartTime)
	if err != nil {
		return Window{}, false
	}
	end, err := ParseClock(*r.EndTime)
	if err != nil {
		return Window{}, false
	}
	return Window{Start: start, End: end}, true
}

// ResolveWindow picks the effective window for a record of type t:
// caller-supplied times first, then the type's default window.
func ResolveWindow(t Type, startTime, endTime *string) (*string, *string) {
	if startTime != nil && endTime != nil {
		return startTime, endTime
	}
	d, _ := Describe(t)
	if !d.HasDefaultWindow {
		return startTime, endTime
	}
	start, end := d.DefaultWindow.Start.String(), d.DefaultWindow.End.String()
	if startTime != nil {
		start = *startTime
	}
	if endTime != nil {
		end = *endTime
	}
	return &start, &end
}
