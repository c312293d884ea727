package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Ledger is the balance accounting used by attendance mutations. Callers run
// it inside their own transaction.
type Ledger interface {
	Initialize(ctx context.Context, userID string, year int, annualTotal, compTotal decimal.Decimal) (InitializeResult, error)
	// EnsureAvailable locks the row and verifies remaining >= amount.
	EnsureAvailable(ctx context.Context, key Key, amount decimal.Decimal) (Balance, error)
	Debit(ctx context.Context, key Key, amount decimal.Decimal) (Balance, error)
	Credit(ctx context.Context, key Key, amount decimal.Decimal) (Balance, error)
}

type LeaveService interface {
	BulkInitialize(ctx context.Context, actor user.Actor, req BulkInitializeRequest) (BulkInitializeResponse, error)
	SetTotal(ctx context.Context, actor user.Actor, req SetTotalRequest) (BalanceResponse, error)
	GetUserBalances(ctx context.Context, actor user.Actor, userID string, year int) ([]BalanceResponse, error)
	ListBalances(ctx context.Context, actor user.Actor, year int) ([]BalanceResponse, error)
	// RolloverYear initializes year for every user, skipping existing rows.
	RolloverYear(ctx context.Context, year int) (BulkInitializeResponse, error)
}
