package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

type holidayRepo struct {
	s *Store
}

func (r holidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := h.Date.Format("2006-01-02")
	if _, ok := r.s.holidays[key]; ok {
		return holiday.Holiday{}, holiday.ErrHolidayExists
	}
	h.CreatedAt = r.s.now()
	r.s.holidays[key] = h
	return h, nil
}

func (r holidayRepo) Delete(_ context.Context, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := date.Format("2006-01-02")
	if _, ok := r.s.holidays[key]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(r.s.holidays, key)
	return nil
}

func (r holidayRepo) List(_ context.Context, year int) ([]holiday.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]holiday.Holiday, 0)
	for _, h := range r.s.holidays {
		if year == 0 || h.Date.Year() == year {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r holidayRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.holidays)), nil
}

func (s *Store) Tokens() auth.TokenRepository {
	return tokenRepo{s}
}

type tokenRepo struct {
	s *Store
}

func (r tokenRepo) Revoke(_ context.Context, userID string, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[jwt.HashToken(token)] = revokedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r tokenRepo) ListActive(_ context.Context) ([]auth.RevokedToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	out := make([]auth.RevokedToken, 0)
	for hash, t := range r.s.revoked {
		if t.expiresAt.After(now) {
			out = append(out, auth.RevokedToken{TokenHash: hash, ExpiresAt: t.expiresAt})
		}
	}
	return out, nil
}

func (r tokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	var n int64
	for hash, t := range r.s.revoked {
		if !t.expiresAt.After(now) {
			delete(r.s.revoked, hash)
			n++
		}
	}
	return n, nil
}
