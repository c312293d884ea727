package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	// List returns the users visible to actor, ordered by department and name.
	List(ctx context.Context, actor Actor) ([]User, error)
	ListAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, isTemp bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
