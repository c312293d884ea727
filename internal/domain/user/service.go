package user

import "context"

type UserService interface {
	Create(ctx context.Context, actor Actor, req CreateUserRequest) (CreateUserResponse, error)
	Update(ctx context.Context, actor Actor, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	List(ctx context.Context, actor Actor) ([]UserResponse, error)
	Get(ctx context.Context, actor Actor, id string) (UserResponse, error)
	ResetPassword(ctx context.Context, actor Actor, id string) (ResetPasswordResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error
	// EnsureAdmin creates the bootstrap admin when no user exists yet.
	EnsureAdmin(ctx context.Context, username, password string) error
}
