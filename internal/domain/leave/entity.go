package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType identifies a leave pool.
type LeaveType string

const (
	LeaveTypeAnnual       LeaveType = "annual"
	LeaveTypeCompensatory LeaveType = "compensatory"
)

func (t LeaveType) Valid() bool {
	return t == LeaveTypeAnnual || t == LeaveTypeCompensatory
}

// LeaveTypes lists every pool in a stable order.
var LeaveTypes = []LeaveType{LeaveTypeAnnual, LeaveTypeCompensatory}

// DefaultAnnualTotal is the annual grant used when none is configured.
var DefaultAnnualTotal = decimal.NewFromInt(15)

// MaxTotal bounds a pool's yearly grant in days.
const MaxTotal = 366

// Balance is the ledger row for one (user, year, leave type).
// Remaining == Total - Used on every path that goes through this type.
type Balance struct {
	UserID    string
	Year      int
	LeaveType LeaveType
	Total     decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
	UpdatedAt time.Time

	// DTO / Join
	UserName   *string
	Department *string
}

func NewBalance(userID string, year int, leaveType LeaveType, total decimal.Decimal) Balance {
	return Balance{
		UserID:    userID,
		Year:      year,
		LeaveType: leaveType,
		Total:     total,
		Used:      decimal.Zero,
		Remaining: total,
	}
}

// CanDebit reports whether amount fits in the remaining balance.
func (b Balance) CanDebit(amount decimal.Decimal) bool {
	return b.Remaining.GreaterThanOrEqual(amount)
}

// Debit moves amount from remaining to used.
func (b Balance) Debit(amount decimal.Decimal) (Balance, error) {
	if !b.CanDebit(amount) {
		return b, &InsufficientBalanceError{
			LeaveType: b.LeaveType,
			Year:      b.Year,
			Remaining: b.Remaining,
			Required:  amount,
		}
	}
	b.Used = b.Used.Add(amount)
	b.Remaining = b.Remaining.Sub(amount)
	return b, nil
}

// Credit is the inverse of Debit. It is not bounded by Total or by zero used.
func (b Balance) Credit(amount decimal.Decimal) Balance {
	b.Used = b.Used.Sub(amount)
	b.Remaining = b.Remaining.Add(amount)
	return b
}

// WithTotal overrides the granted amount, preserving used.
func (b Balance) WithTotal(total decimal.Decimal) Balance {
	b.Total = total
	b.Remaining = total.Sub(b.Used)
	return b
}

// Key identifies one ledger row.
type Key struct {
	UserID    string
	Year      int
	LeaveType LeaveType
}

func (b Balance) Key() Key {
	return Key{UserID: b.UserID, Year: b.Year, LeaveType: b.LeaveType}
}
