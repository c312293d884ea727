package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	ErrRecordNotFound      = errors.New("attendance record not found")
	ErrDateAlreadyRecorded = errors.New("an attendance record already exists for this date")
	ErrTimeOverlap         = errors.New("time window overlaps an existing attendance record")
	ErrNoWorkingDays       = errors.New("no working days in the requested range")
	ErrUnknownType         = errors.New("unknown attendance type")
)

// DateConflictError is returned when a user already has a record on Date.
type DateConflictError struct {
	Date     time.Time
	Existing Record
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("%s already has a %s record%s", e.Date.Format("2006-01-02"), e.Existing.Type, describeWindow(e.Existing))
}

func (e *DateConflictError) Unwrap() error {
	return ErrDateAlreadyRecorded
}

// OverlapError is returned when a proposed window intersects an existing record.
type OverlapError struct {
	Date     time.Time
	Proposed Window
	Existing Record
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s %s overlaps the %s record%s", e.Date.Format("2006-01-02"), e.Proposed, e.Existing.Type, describeWindow(e.Existing))
}

func (e *OverlapError) Unwrap() error {
	return ErrTimeOverlap
}

func describeWindow(r Record) string {
	if w, ok := r.Window(); ok {
		return " (" + w.String() + ")"
	}
	return ""
}
