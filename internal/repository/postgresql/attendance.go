package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.date, a.type, a.reason, a.start_time, a.end_time, a.leave_amount, a.created_at, a.updated_at, u.name, u.department`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Date,
		&r.Type,
		&r.Reason,
		&r.StartTime,
		&r.EndTime,
		&r.LeaveAmount,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.UserName,
		&r.Department,
	)
	return r, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO attendance (id, user_id, date, type, reason, start_time, end_time, leave_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM inserted a
		JOIN users u ON u.id = a.user_id
	`

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.Date,
		record.Type,
		record.Reason,
		record.StartTime,
		record.EndTime,
		record.LeaveAmount,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, fmt.Errorf("%s: %w", record.Date.Format("2006-01-02"), attendance.ErrDateAlreadyRecorded)
		}
		return attendance.Record{}, err
	}

	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	found, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidText(err) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, err
	}

	return found, nil
}

// ListByUserAndDates implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUserAndDates(ctx context.Context, userID string, dates []time.Time) ([]attendance.Record, error) {
	if len(dates) == 0 {
		return []attendance.Record{}, nil
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1 AND a.date = ANY($2::date[])
		ORDER BY a.date, a.start_time NULLS FIRST
	`

	return r.query(ctx, query, userID, dates)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET date = $1, type = $2, reason = $3, start_time = $4, end_time = $5, leave_amount = $6, updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		record.Date,
		record.Type,
		record.Reason,
		record.StartTime,
		record.EndTime,
		record.LeaveAmount,
		record.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", record.Date.Format("2006-01-02"), attendance.ErrDateAlreadyRecorded)
		}
		return fmt.Errorf("failed to update attendance %s: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return attendance.ErrRecordNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter, actor user.Actor) ([]attendance.Record, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleManager:
		where = append(where, fmt.Sprintf("(a.user_id = %s OR (u.role = 'user' AND u.department <> '' AND u.department = %s))",
			arg(actor.UserID), arg(actor.Department)))
	default:
		where = append(where, "a.user_id = "+arg(actor.UserID))
	}

	if filter.UserID != "" {
		where = append(where, "a.user_id = "+arg(filter.UserID))
	}
	if filter.Department != "" {
		where = append(where, "u.department = "+arg(filter.Department))
	}
	if filter.Type != "" {
		where = append(where, "a.type = "+arg(filter.Type))
	}
	if filter.From != nil {
		where = append(where, "a.date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		where = append(where, "a.date <= "+arg(*filter.To))
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN users u ON u.id = a.user_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.date, u.department, u.name"

	return r.query(ctx, query, args...)
}

func (r *attendanceRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
