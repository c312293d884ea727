package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (date, name)
		VALUES ($1, $2)
		RETURNING date, name, created_at
	`

	var created holiday.Holiday
	err := q.QueryRow(ctx, query, h.Date, h.Name).Scan(&created.Date, &created.Name, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, err
	}
	return created, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE date = $1`, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, year int) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT date, name, created_at FROM holidays`
	var args []interface{}
	if year > 0 {
		query += ` WHERE EXTRACT(YEAR FROM date) = $1`
		args = append(args, year)
	}
	query += ` ORDER BY date`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Count implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM holidays`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
