package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

const balanceColumns = `b.user_id, b.year, b.leave_type, b.total, b.used, b.remaining, b.updated_at, u.name, u.department`

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.UserID,
		&b.Year,
		&b.LeaveType,
		&b.Total,
		&b.Used,
		&b.Remaining,
		&b.UpdatedAt,
		&b.UserName,
		&b.Department,
	)
	return b, err
}

// returning wraps a data-modifying statement so its RETURNING row is joined
// with the owner's name and department.
func returning(statement string) string {
	return `
		WITH changed AS (` + statement + ` RETURNING *)
		SELECT ` + balanceColumns + `
		FROM changed b
		JOIN users u ON u.id = b.user_id
	`
}

// Create implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Create(ctx context.Context, balance leave.Balance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (user_id, year, leave_type, total, used, remaining)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, year, leave_type) DO NOTHING
	`
	tag, err := q.Exec(ctx, query,
		balance.UserID,
		balance.Year,
		balance.LeaveType,
		balance.Total,
		balance.Used,
		balance.Remaining,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Get implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Get(ctx context.Context, key leave.Key) (leave.Balance, error) {
	return r.get(ctx, key, "")
}

// GetForUpdate implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetForUpdate(ctx context.Context, key leave.Key) (leave.Balance, error) {
	return r.get(ctx, key, " FOR UPDATE OF b")
}

func (r *balanceRepositoryImpl) get(ctx context.Context, key leave.Key, lock string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances b
		JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1 AND b.year = $2 AND b.leave_type = $3
	` + lock

	b, err := scanBalance(q.QueryRow(ctx, query, key.UserID, key.Year, key.LeaveType))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}
	return b, nil
}

// ListByUserYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) ListByUserYear(ctx context.Context, userID string, year int) ([]leave.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances b
		JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1 AND b.year = $2
		ORDER BY b.leave_type
	`
	return r.query(ctx, query, userID, year)
}

// ListByYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) ListByYear(ctx context.Context, year int, actor user.Actor) ([]leave.Balance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM leave_balances b
		JOIN users u ON u.id = b.user_id
		WHERE b.year = $1
	`
	args := []interface{}{year}

	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleManager:
		query += ` AND (b.user_id = $2 OR (u.role = 'user' AND u.department <> '' AND u.department = $3))`
		args = append(args, actor.UserID, actor.Department)
	default:
		query += ` AND b.user_id = $2`
		args = append(args, actor.UserID)
	}
	query += ` ORDER BY u.department, u.name, b.leave_type`

	return r.query(ctx, query, args...)
}

// ListYears implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) ListYears(ctx context.Context) ([]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT DISTINCT year FROM leave_balances ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Debit implements leave.BalanceRepository. The remaining check and the
// update happen in one statement so concurrent debits cannot overdraw.
func (r *balanceRepositoryImpl) Debit(ctx context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := returning(`
		UPDATE leave_balances
		SET used = used + $4, remaining = remaining - $4, updated_at = NOW()
		WHERE user_id = $1 AND year = $2 AND leave_type = $3 AND remaining >= $4
	`)

	b, err := scanBalance(q.QueryRow(ctx, query, key.UserID, key.Year, key.LeaveType, amount))
	if err == nil {
		return b, nil
	}
	if err != pgx.ErrNoRows {
		return leave.Balance{}, fmt.Errorf("failed to debit %s balance: %w", key.LeaveType, err)
	}

	remaining := decimal.Zero
	current, getErr := r.Get(ctx, key)
	switch {
	case getErr == nil:
		remaining = current.Remaining
	case getErr != leave.ErrBalanceNotFound:
		return leave.Balance{}, getErr
	}
	return leave.Balance{}, &leave.InsufficientBalanceError{
		LeaveType: key.LeaveType,
		Year:      key.Year,
		Remaining: remaining,
		Required:  amount,
	}
}

// Credit implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) Credit(ctx context.Context, key leave.Key, amount decimal.Decimal) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := returning(`
		UPDATE leave_balances
		SET used = used - $4, remaining = remaining + $4, updated_at = NOW()
		WHERE user_id = $1 AND year = $2 AND leave_type = $3
	`)

	b, err := scanBalance(q.QueryRow(ctx, query, key.UserID, key.Year, key.LeaveType, amount))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to credit %s balance: %w", key.LeaveType, err)
	}
	return b, nil
}

// SetTotal implements leave.BalanceRepository. A missing row is created with
// nothing used.
func (r *balanceRepositoryImpl) SetTotal(ctx context.Context, key leave.Key, total decimal.Decimal) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := returning(`
		INSERT INTO leave_balances (user_id, year, leave_type, total, used, remaining)
		VALUES ($1, $2, $3, $4, 0, $4)
		ON CONFLICT (user_id, year, leave_type) DO UPDATE
		SET total = EXCLUDED.total,
			remaining = EXCLUDED.total - leave_balances.used,
			updated_at = NOW()
	`)

	b, err := scanBalance(q.QueryRow(ctx, query, key.UserID, key.Year, key.LeaveType, total))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to set %s total: %w", key.LeaveType, err)
	}
	return b, nil
}

func (r *balanceRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
