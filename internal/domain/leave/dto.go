package leave

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type BalanceResponse struct {
	UserID     string  `json:"userId"`
	UserName   *string `json:"userName,omitempty"`
	Department *string `json:"department,omitempty"`
	Year       int     `json:"year"`
	LeaveType  string  `json:"leaveType"`
	Total      float64 `json:"total"`
	Used       float64 `json:"used"`
	Remaining  float64 `json:"remaining"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:     b.UserID,
		UserName:   b.UserName,
		Department: b.Department,
		Year:       b.Year,
		LeaveType:  string(b.LeaveType),
		Total:      b.Total.InexactFloat64(),
		Used:       b.Used.InexactFloat64(),
		Remaining:  b.Remaining.InexactFloat64(),
	}
}

func NewBalanceResponses(balances []Balance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, NewBalanceResponse(b))
	}
	return out
}

// InitializeResult reports which rows Initialize created for one user.
type InitializeResult struct {
	Created map[LeaveType]bool
}

type SetTotalRequest struct {
	UserID    string  `json:"userId"`
	Year      int     `json:"year"`
	LeaveType string  `json:"leaveType"`
	Total     float64 `json:"total"`
}

func (r *SetTotalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if !LeaveType(r.LeaveType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveType",
			Message: "leaveType must be 'annual' or 'compensatory'",
		})
	}

	errs = append(errs, validateTotal("total", r.Total)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkInitializeRequest struct {
	Year        int      `json:"year"`
	AnnualTotal *float64 `json:"annualTotal,omitempty"`
	CompTotal   *float64 `json:"compTotal,omitempty"`
	// Overwrite applies the totals to rows that already exist.
	Overwrite bool `json:"overwrite"`
}

func (r *BulkInitializeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if r.AnnualTotal != nil {
		errs = append(errs, validateTotal("annualTotal", *r.AnnualTotal)...)
	}
	if r.CompTotal != nil {
		errs = append(errs, validateTotal("compTotal", *r.CompTotal)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateTotal(field string, total float64) validator.ValidationErrors {
	switch {
	case total < 0:
		return validator.ValidationErrors{{Field: field, Message: field + " must not be negative"}}
	case total > MaxTotal:
		return validator.ValidationErrors{{Field: field, Message: field + " must not exceed 366"}}
	}
	return nil
}

// Totals resolves the requested totals against the configured defaults.
func (r *BulkInitializeRequest) Totals(defaultAnnual, defaultComp decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	annual, comp := defaultAnnual, defaultComp
	if r.AnnualTotal != nil {
		annual = decimal.NewFromFloat(*r.AnnualTotal)
	}
	if r.CompTotal != nil {
		comp = decimal.NewFromFloat(*r.CompTotal)
	}
	return annual, comp
}

type TypeCounts struct {
	Created int `json:"createdCount"`
	Updated int `json:"updatedCount"`
	Skipped int `json:"skippedCount"`
	Failed  int `json:"failedCount"`
}

type UserFailure struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

type BulkInitializeResponse struct {
	Year           int                   `json:"year"`
	ByLeaveType    map[string]TypeCounts `json:"byLeaveType"`
	UsersSucceeded int                   `json:"usersSucceeded"`
	UsersFailed    int                   `json:"usersFailed"`
	Failures       []UserFailure         `json:"failures,omitempty"`
}
