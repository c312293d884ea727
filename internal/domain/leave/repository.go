package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	// Create inserts the row unless (user, year, type) already exists.
	// created is false when the row was already there.
	Create(ctx context.Context, balance Balance) (created bool, err error)
	Get(ctx context.Context, key Key) (Balance, error)
	// GetForUpdate locks the row for the rest of the surrounding transaction.
	GetForUpdate(ctx context.Context, key Key) (Balance, error)
	ListByUserYear(ctx context.Context, userID string, year int) ([]Balance, error)
	// ListByYear returns the rows of every user visible to actor.
	ListByYear(ctx context.Context, year int, actor user.Actor) ([]Balance, error)
	ListYears(ctx context.Context) ([]int, error)

	// Debit fails with *InsufficientBalanceError when remaining < amount.
	Debit(ctx context.Context, key Key, amount decimal.Decimal) (Balance, error)
	Credit(ctx context.Context, key Key, amount decimal.Decimal) (Balance, error)
	SetTotal(ctx context.Context, key Key, total decimal.Decimal) (Balance, error)
}
