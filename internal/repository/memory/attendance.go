package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type attendanceRepo struct {
	s *Store
}

// withOwner fills the join columns. Must be called with s.mu held.
func (r attendanceRepo) withOwner(rec attendance.Record) attendance.Record {
	if u, ok := r.s.users[rec.UserID]; ok {
		name, dept := u.Name, u.Department
		rec.UserName = &name
		rec.Department = &dept
	}
	return rec
}

func (r attendanceRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendance.Create"); err != nil {
		return attendance.Record{}, err
	}
	if _, ok := r.s.users[rec.UserID]; !ok {
		return attendance.Record{}, fmt.Errorf("user %s does not exist", rec.UserID)
	}
	for _, existing := range r.s.records {
		if existing.UserID == rec.UserID && existing.Date.Equal(rec.Date) {
			return attendance.Record{}, fmt.Errorf("%s: %w", rec.Date.Format("2006-01-02"), attendance.ErrDateAlreadyRecorded)
		}
	}
	rec.CreatedAt = r.s.now()
	rec.UpdatedAt = rec.CreatedAt
	r.s.records[rec.ID] = rec
	return r.withOwner(rec), nil
}

func (r attendanceRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return r.withOwner(rec), nil
}

func (r attendanceRepo) ListByUserAndDates(_ context.Context, userID string, dates []time.Time) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d.Format("2006-01-02")] = true
	}
	out := make([]attendance.Record, 0)
	for _, rec := range r.s.records {
		if rec.UserID == userID && wanted[rec.Date.Format("2006-01-02")] {
			out = append(out, r.withOwner(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (r attendanceRepo) Update(_ context.Context, rec attendance.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendance.Update"); err != nil {
		return err
	}
	existing, ok := r.s.records[rec.ID]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	for id, other := range r.s.records {
		if id != rec.ID && other.UserID == existing.UserID && other.Date.Equal(rec.Date) {
			return fmt.Errorf("%s: %w", rec.Date.Format("2006-01-02"), attendance.ErrDateAlreadyRecorded)
		}
	}
	existing.Date = rec.Date
	existing.Type = rec.Type
	existing.Reason = rec.Reason
	existing.StartTime = rec.StartTime
	existing.EndTime = rec.EndTime
	existing.LeaveAmount = rec.LeaveAmount
	existing.UpdatedAt = r.s.now()
	r.s.records[rec.ID] = existing
	return nil
}

func (r attendanceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendance.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	delete(r.s.records, id)
	return nil
}

func (r attendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter, actor user.Actor) ([]attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]attendance.Record, 0)
	for _, rec := range r.s.records {
		owner, ok := r.s.users[rec.UserID]
		if !ok || !actor.CanAccess(owner) {
			continue
		}
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		if filter.Department != "" && owner.Department != filter.Department {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.From != nil && rec.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.Date.After(*filter.To) {
			continue
		}
		out = append(out, r.withOwner(rec))
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].UserID < records[j].UserID
	})
}
