package holiday

import "time"

// Holiday is a persisted non-working day. Weekends never need a row.
type Holiday struct {
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
