package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type balanceRepo struct {
	s *Store
}

// withOwner must be called with s.mu held.
func (r balanceRepo) withOwner(b leave.Balance) leave.Balance {
	if u, ok := r.s.users[b.UserID]; ok {
		name, dept := u.Name, u.Department
		b.UserName = &name
		b.Department = &dept
	}
	return b
}

func (r balanceRepo) Create(_ context.Context, b leave.Balance) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("leave.Create"); err != nil {
		return false, err
	}
	if _, ok := r.s.balances[b.Key()]; ok {
		return false, nil
	}
	b.UpdatedAt = r.s.now()
	r.s.balances[b.Key()] = b
	return true, nil
}

func (r balanceRepo) Get(_ context.Context, key leave.Key) (leave.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.balances[key]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return r.withOwner(b), nil
}

func (r balanceRepo) GetForUpdate(ctx context.Context, key leave.Key) (leave.Balance, error) {
	return r.Get(ctx, key)
}

func (r balanceRepo) ListByUserYear(_ context.Context, userID string, year int) ([]leave.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]leave.Balance, 0)
	for key, b := range r.s.balances {
		if key.UserID == userID && key.Year == year {
			out = append(out, r.withOwner(b))
		}
	}
	sortBalances(out)
	return out, nil
}

func (r balanceRepo) ListByYear(_ context.Context, year int, actor user.Actor) ([]leave.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]leave.Balance, 0)
	for key, b := range r.s.balances {
		owner, ok := r.s.users[key.UserID]
		if key.Year != year || !ok || !actor.CanAccess(owner) {
			continue
		}
		out = append(out, r.withOwner(b))
	}
	sortBalances(out)
	return out, nil
}

func (r balanceRepo) ListYears(_ context.Context) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[int]bool)
	years := make([]int, 0)
	for key := range r.s.balances {
		if !seen[key.Year] {
			seen[key.Year] = true
			years = append(years, key.Year)
		}
	}
	sort.Ints(years)
	return years, nil
}

func (r balanceRepo) Debit(_ context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("leave.Debit"); err != nil {
		return leave.Balance{}, err
	}
	b, ok := r.s.balances[key]
	if !ok {
		return leave.Balance{}, &leave.InsufficientBalanceError{
			LeaveType: key.LeaveType,
			Year:      key.Year,
			Remaining: decimal.Zero,
			Required:  amount,
		}
	}
	b, err := b.Debit(amount)
	if err != nil {
		return leave.Balance{}, err
	}
	b.UpdatedAt = r.s.now()
	r.s.balances[key] = b
	return r.withOwner(b), nil
}

func (r balanceRepo) Credit(_ context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("leave.Credit"); err != nil {
		return leave.Balance{}, err
	}
	b, ok := r.s.balances[key]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	b = b.Credit(amount)
	b.UpdatedAt = r.s.now()
	r.s.balances[key] = b
	return r.withOwner(b), nil
}

func (r balanceRepo) SetTotal(_ context.Context, key leave.Key, total decimal.Decimal) (leave.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("leave.SetTotal"); err != nil {
		return leave.Balance{}, err
	}
	b, ok := r.s.balances[key]
	if !ok {
		b = leave.NewBalance(key.UserID, key.Year, key.LeaveType, total)
	} else {
		b = b.WithTotal(total)
	}
	b.UpdatedAt = r.s.now()
	r.s.balances[key] = b
	return r.withOwner(b), nil
}

func sortBalances(balances []leave.Balance) {
	sort.Slice(balances, func(i, j int) bool {
		bi, bj := balances[i], balances[j]
		if bi.Department != nil && bj.Department != nil && *bi.Department != *bj.Department {
			return *bi.Department < *bj.Department
		}
		if bi.UserID != bj.UserID {
			return bi.UserID < bj.UserID
		}
		return bi.LeaveType < bj.LeaveType
	})
}
