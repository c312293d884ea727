package attendance

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Window is a half-open time range [Start, End).
type Window struct {
	Start Clock
	End   Clock
}

func (w Window) Valid() bool {
	return w.Start < w.End
}

// Overlaps reports whether two half-open windows intersect. Touching
// endpoints do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && w.End > other.Start
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
