// Package memory is an in-process implementation of the repositories, used
// by service and handler tests in place of PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// Store holds every table. Transactions snapshot the whole store and restore
// it when the callback fails.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users    map[string]user.User
	records  map[string]attendance.Record
	balances map[leave.Key]leave.Balance
	holidays map[string]holiday.Holiday
	revoked  map[string]revokedToken

	failures map[string]error
	now      func() time.Time
}

type revokedToken struct {
	userID    string
	expiresAt time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]user.User),
		records:  make(map[string]attendance.Record),
		balances: make(map[leave.Key]leave.Balance),
		holidays: make(map[string]holiday.Holiday),
		revoked:  make(map[string]revokedToken),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// FailNext makes the next call of op ("attendance.Create", "leave.Debit", ...)
// return err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// fail must be called with s.mu held.
func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

type snapshot struct {
	users    map[string]user.User
	records  map[string]attendance.Record
	balances map[leave.Key]leave.Balance
	holidays map[string]holiday.Holiday
	revoked  map[string]revokedToken
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:    copyMap(s.users),
		records:  copyMap(s.records),
		balances: copyMap(s.balances),
		holidays: copyMap(s.holidays),
		revoked:  copyMap(s.revoked),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.records = snap.records
	s.balances = snap.balances
	s.holidays = snap.holidays
	s.revoked = snap.revoked
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type txKey struct{}

// TxManager returns a database.TxManager backed by snapshots of s.
func (s *Store) TxManager() database.TxManager {
	return txManager{s}
}

type txManager struct {
	s *Store
}

func (m txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) Users() user.UserRepository {
	return userRepo{s}
}

func (s *Store) Attendance() attendance.AttendanceRepository {
	return attendanceRepo{s}
}

func (s *Store) Balances() leave.BalanceRepository {
	return balanceRepo{s}
}

func (s *Store) Holidays() holiday.HolidayRepository {
	return holidayRepo{s}
}

// Seed helpers write directly, bypassing failure injection.

func (s *Store) PutUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
		u.UpdatedAt = u.CreatedAt
	}
	s.users[u.ID] = u
}

func (s *Store) PutBalance(b leave.Balance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[b.Key()] = b
}

func (s *Store) PutRecord(r attendance.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
}

func (s *Store) Balance(key leave.Key) (leave.Balance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[key]
	return b, ok
}

// RecordsOf returns userID's records ordered by date.
func (s *Store) RecordsOf(userID string) []attendance.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]attendance.Record, 0)
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out
}

func (s *Store) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
