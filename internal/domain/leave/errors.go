package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrInvalidLeaveType    = errors.New("invalid leave type")
	ErrTotalBelowUsed      = errors.New("total is below the days already used")
)

// InsufficientBalanceError carries the amounts behind an ErrInsufficientBalance.
type InsufficientBalanceError struct {
	LeaveType LeaveType
	Year      int
	Remaining decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s leave balance for %d: remaining %s, required %s",
		e.LeaveType, e.Year, e.Remaining.String(), e.Required.String())
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// TotalBelowUsedError rejects a total that would leave remaining negative.
type TotalBelowUsedError struct {
	LeaveType LeaveType
	Year      int
	Used      decimal.Decimal
	Total     decimal.Decimal
}

func (e *TotalBelowUsedError) Error() string {
	return fmt.Sprintf("%s total for %d must not be less than the %s days already used, got %s",
		e.LeaveType, e.Year, e.Used.String(), e.Total.String())
}

func (e *TotalBelowUsedError) Unwrap() error {
	return ErrTotalBelowUsed
}
