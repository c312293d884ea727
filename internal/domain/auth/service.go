package auth

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Logout revokes accessToken until it would have expired anyway.
	Logout(ctx context.Context, actor user.Actor, accessToken string, expiresAt time.Time) error
	Me(ctx context.Context, actor user.Actor) (user.UserResponse, error)
	// LoadRevoked restores persisted revocations into the token verifier.
	LoadRevoked(ctx context.Context) (int, error)
}
