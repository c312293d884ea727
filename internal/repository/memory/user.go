package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type userRepo struct {
	s *Store
}

func (r userRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("user.Create"); err != nil {
		return user.User{}, err
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r userRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r userRepo) List(_ context.Context, actor user.Actor) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]user.User, 0)
	for _, u := range r.s.users {
		if actor.CanAccess(u) {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (r userRepo) ListAll(_ context.Context) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sortUsers(out)
	return out, nil
}

func (r userRepo) Update(_ context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.Name = u.Name
	existing.Department = u.Department
	existing.Role = u.Role
	existing.UpdatedAt = r.s.now()
	r.s.users[u.ID] = existing
	return nil
}

func (r userRepo) UpdatePassword(_ context.Context, id string, passwordHash string, isTemp bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.PasswordHash = passwordHash
	existing.IsTempPassword = isTemp
	existing.UpdatedAt = r.s.now()
	r.s.users[id] = existing
	return nil
}

// Delete cascades to the user's records, balances and revoked tokens.
func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.users, id)
	for rid, rec := range r.s.records {
		if rec.UserID == id {
			delete(r.s.records, rid)
		}
	}
	for key := range r.s.balances {
		if key.UserID == id {
			delete(r.s.balances, key)
		}
	}
	for hash, t := range r.s.revoked {
		if t.userID == id {
			delete(r.s.revoked, hash)
		}
	}
	return nil
}

func (r userRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func sortUsers(users []user.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Department != users[j].Department {
			return users[i].Department < users[j].Department
		}
		return users[i].Name < users[j].Name
	})
}
