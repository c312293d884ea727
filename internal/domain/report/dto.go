package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// MaxRangeDays bounds a single export.
const MaxRangeDays = 366

// ========================================
// ATTENDANCE EXPORT
// ========================================

type ExportRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Department string `json:"department,omitempty"`
}

// Validate checks the request. Empty bounds default to the month of now.
func (r *ExportRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if validator.IsEmpty(r.From) {
		r.From = monthStart.Format("2006-01-02")
	}
	if validator.IsEmpty(r.To) {
		r.To = monthStart.AddDate(0, 1, -1).Format("2006-01-02")
	}

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}

	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}

	if fromOK && toOK {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: ErrInvalidDateRange.Error(),
			})
		} else if to.Sub(from) > MaxRangeDays*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: ErrRangeTooLong.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the parsed bounds of a validated request.
func (r *ExportRequest) Range() (time.Time, time.Time) {
	from, _ := validator.IsValidDate(r.From)
	to, _ := validator.IsValidDate(r.To)
	return from, to
}

// Filename is the download name of the workbook.
func (r *ExportRequest) Filename() string {
	return "attendance_" + r.From + "_" + r.To + ".xlsx"
}
