package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// Ledger implements leave.Ledger on top of the balance repository. It never
// opens a transaction; callers wrap it in theirs.
type Ledger struct {
	leave.BalanceRepository
}

func NewLedger(balanceRepository leave.BalanceRepository) *Ledger {
	return &Ledger{BalanceRepository: balanceRepository}
}

// Initialize creates the user's balance rows for year. Existing rows are left
// untouched, so calling it twice is harmless.
func (l *Ledger) Initialize(ctx context.Context, userID string, year int, annualTotal, compTotal decimal.Decimal) (leave.InitializeResult, error) {
	result := leave.InitializeResult{Created: make(map[leave.LeaveType]bool, len(leave.LeaveTypes))}

	totals := map[leave.LeaveType]decimal.Decimal{
		leave.LeaveTypeAnnual:       annualTotal,
		leave.LeaveTypeCompensatory: compTotal,
	}
	for _, lt := range leave.LeaveTypes {
		created, err := l.BalanceRepository.Create(ctx, leave.NewBalance(userID, year, lt, totals[lt]))
		if err != nil {
			return leave.InitializeResult{}, fmt.Errorf("failed to initialize %s balance: %w", lt, err)
		}
		result.Created[lt] = created
	}

	return result, nil
}

// EnsureAvailable locks the balance row and checks it covers amount. A
// missing row counts as a zero balance.
func (l *Ledger) EnsureAvailable(ctx context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	b, err := l.BalanceRepository.GetForUpdate(ctx, key)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.Balance{}, &leave.InsufficientBalanceError{
				LeaveType: key.LeaveType,
				Year:      key.Year,
				Remaining: decimal.Zero,
				Required:  amount,
			}
		}
		return leave.Balance{}, err
	}

	if !b.CanDebit(amount) {
		return b, &leave.InsufficientBalanceError{
			LeaveType: key.LeaveType,
			Year:      key.Year,
			Remaining: b.Remaining,
			Required:  amount,
		}
	}
	return b, nil
}

// SetTotal replaces the row's total and keeps what is used. It refuses a
// total below used, so remaining never goes negative. A missing row is
// created.
func (l *Ledger) SetTotal(ctx context.Context, key leave.Key, total decimal.Decimal) (leave.Balance, error) {
	current, err := l.BalanceRepository.GetForUpdate(ctx, key)
	if err != nil && !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.Balance{}, err
	}
	if err == nil && total.LessThan(current.Used) {
		return current, &leave.TotalBelowUsedError{
			LeaveType: key.LeaveType,
			Year:      key.Year,
			Used:      current.Used,
			Total:     total,
		}
	}
	return l.BalanceRepository.SetTotal(ctx, key, total)
}

func (l *Ledger) Debit(ctx context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	if amount.IsNegative() {
		return leave.Balance{}, fmt.Errorf("debit amount must not be negative: %s", amount)
	}
	if amount.IsZero() {
		return l.EnsureAvailable(ctx, key, amount)
	}
	return l.BalanceRepository.Debit(ctx, key, amount)
}

func (l *Ledger) Credit(ctx context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	if amount.IsNegative() {
		return leave.Balance{}, fmt.Errorf("credit amount must not be negative: %s", amount)
	}
	if amount.IsZero() {
		return l.BalanceRepository.Get(ctx, key)
	}
	return l.BalanceRepository.Credit(ctx, key, amount)
}
