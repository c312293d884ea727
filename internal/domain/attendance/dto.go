package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const maxReasonLength = 500

type CreateAttendanceRequest struct {
	UserID    string  `json:"userId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Type      string  `json:"type"`
	Reason    string  `json:"reason"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}

	start, startOK := r.StartDate, true
	if validator.IsEmpty(start) {
		startOK = false
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate is required",
		})
	}

	var startDate, endDate time.Time
	if startOK {
		var ok bool
		if startDate, ok = validator.IsValidDate(start); !ok {
			startOK = false
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must be in YYYY-MM-DD format",
			})
		}
	}

	endOK := true
	if validator.IsEmpty(r.EndDate) {
		endDate = startDate
	} else {
		var ok bool
		if endDate, ok = validator.IsValidDate(r.EndDate); !ok {
			endOK = false
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must be in YYYY-MM-DD format",
			})
		}
	}

	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	} else if startOK && endOK && calendar.RangeDays(startDate, endDate) > calendar.MaxRangeDays {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "date range must not exceed 366 days",
		})
	}

	errs = append(errs, validateTypeAndTimes(r.Type, r.StartTime, r.EndTime)...)

	if d, ok := Describe(Type(r.Type)); ok && d.IsPartialDay() && startOK && endOK && !endDate.Equal(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "partial-day leave must start and end on the same date",
		})
	}

	if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Dates returns the parsed range. Call after Validate.
func (r *CreateAttendanceRequest) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if validator.IsEmpty(r.EndDate) {
		return start, start, nil
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type UpdateAttendanceRequest struct {
	ID        string  `json:"-"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Reason    string  `json:"reason"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	errs = append(errs, validateTypeAndTimes(r.Type, r.StartTime, r.EndTime)...)

	if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateTypeAndTimes(typ string, startTime, endTime *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	d, known := Describe(Type(typ))
	if validator.IsEmpty(typ) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if !known {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "unknown attendance type",
		})
	}

	startOK := startTime != nil && validator.IsValidClock(*startTime)
	endOK := endTime != nil && validator.IsValidClock(*endTime)

	if startTime != nil && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startTime",
			Message: "startTime must be in HH:MM format",
		})
	}
	if endTime != nil && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endTime",
			Message: "endTime must be in HH:MM format",
		})
	}

	if known && d.RequiresExplicitTime {
		if startTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "startTime",
				Message: "startTime is required for this attendance type",
			})
		}
		if endTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "endTime",
				Message: "endTime is required for this attendance type",
			})
		}
	}

	// A single supplied end is checked against the default it is paired with.
	supplied := startTime != nil || endTime != nil
	if supplied && (startTime == nil || startOK) && (endTime == nil || endOK) {
		if rs, re := ResolveWindow(Type(typ), startTime, endTime); rs != nil && re != nil {
			start, _ := ParseClock(*rs)
			end, _ := ParseClock(*re)
			if !(Window{Start: start, End: end}).Valid() {
				errs = append(errs, windowOrderError(startTime, endTime, *rs, *re))
			}
		}
	}

	return errs
}

func windowOrderError(startTime, endTime *string, start, end string) validator.ValidationError {
	switch {
	case endTime == nil:
		return validator.ValidationError{Field: "startTime", Message: "startTime must be before " + end}
	case startTime == nil:
		return validator.ValidationError{Field: "endTime", Message: "endTime must be after " + start}
	default:
		return validator.ValidationError{Field: "endTime", Message: "endTime must be after startTime"}
	}
}

// AttendanceFilter narrows List. Zero values mean "no constraint".
type AttendanceFilter struct {
	UserID     string
	Department string
	Type       Type
	From       *time.Time
	To         *time.Time
}

// NewAttendanceFilter builds a filter from raw query values.
func NewAttendanceFilter(userID, department, typ, from, to string) (AttendanceFilter, error) {
	var errs validator.ValidationErrors
	filter := AttendanceFilter{UserID: userID, Department: department, Type: Type(typ)}

	if typ != "" && !Type(typ).Known() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "unknown attendance type",
		})
	}

	if from != "" {
		if d, ok := validator.IsValidDate(from); ok {
			filter.From = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}

	if to != "" {
		if d, ok := validator.IsValidDate(to); ok {
			filter.To = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return AttendanceFilter{}, errs
	}
	return filter, nil
}

type AttendanceResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	UserName     *string   `json:"userName,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Date         string    `json:"date"`
	Type         string    `json:"type"`
	Reason       string    `json:"reason"`
	StartTime    *string   `json:"startTime"`
	EndTime      *string   `json:"endTime"`
	Slots        SlotRange `json:"slots"`
	DayWeight    float64   `json:"dayWeight"`
	LeaveBearing bool      `json:"leaveBearing"`
	LeaveAmount  float64   `json:"leaveAmount"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	d, _ := Describe(r.Type)
	return AttendanceResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		UserName:     r.UserName,
		Department:   r.Department,
		Date:         r.Date.Format("2006-01-02"),
		Type:         string(r.Type),
		Reason:       r.Reason,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Slots:        SlotsForRecord(r),
		DayWeight:    d.DayWeight.InexactFloat64(),
		LeaveBearing: d.IsLeaveBearing(),
		LeaveAmount:  r.LeaveAmount.InexactFloat64(),
	}
}

func NewAttendanceResponses(records []Record) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewAttendanceResponse(r))
	}
	return out
}

type CreateAttendanceResponse struct {
	CreatedDates []string                `json:"createdDates"`
	LeaveUsage   float64                 `json:"leaveUsage"`
	Records      []AttendanceResponse    `json:"records"`
	Balances     []leave.BalanceResponse `json:"balances,omitempty"`
}

type UpdateAttendanceResponse struct {
	Success  bool                    `json:"success"`
	Record   AttendanceResponse      `json:"record"`
	Balances []leave.BalanceResponse `json:"balances,omitempty"`
}

type DeleteAttendanceResponse struct {
	Success       bool                    `json:"success"`
	Deleted       AttendanceResponse      `json:"deleted"`
	RestoredLeave float64                 `json:"restoredLeave"`
	Balances      []leave.BalanceResponse `json:"balances,omitempty"`
}

const (
	ProblemDateAlreadyRecorded = "DATE_ALREADY_RECORDED"
	ProblemTimeOverlap         = "TIME_OVERLAP"
	ProblemInsufficientBalance = "INSUFFICIENT_BALANCE"
	ProblemNoWorkingDays       = "NO_WORKING_DAYS"
)

type CheckProblem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
}

type CheckAttendanceResponse struct {
	OK           bool           `json:"ok"`
	WorkingDates []string       `json:"workingDates"`
	LeaveUsage   float64        `json:"leaveUsage"`
	Problems     []CheckProblem `json:"problems"`
}

type TypeResponse struct {
	Type                 string  `json:"type"`
	DefaultStartTime     *string `json:"defaultStartTime"`
	DefaultEndTime       *string `json:"defaultEndTime"`
	DayWeight            float64 `json:"dayWeight"`
	LeaveBearing         bool    `json:"leaveBearing"`
	Pool                 string  `json:"pool,omitempty"`
	RequiresExplicitTime bool    `json:"requiresExplicitTime"`
}

func NewTypeResponse(d Descriptor) TypeResponse {
	resp := TypeResponse{
		Type:                 string(d.Type),
		DayWeight:            d.DayWeight.InexactFloat64(),
		LeaveBearing:         d.IsLeaveBearing(),
		Pool:                 string(d.Pool),
		RequiresExplicitTime: d.RequiresExplicitTime,
	}
	if d.HasDefaultWindow {
		start, end := d.DefaultWindow.Start.String(), d.DefaultWindow.End.String()
		resp.DefaultStartTime = &start
		resp.DefaultEndTime = &end
	}
	return resp
}
