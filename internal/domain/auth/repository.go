package auth

import (
	"context"
	"time"
)

// RevokedToken is a logged-out access token that has not expired yet.
type RevokedToken struct {
	TokenHash string
	ExpiresAt time.Time
}

type TokenRepository interface {
	Revoke(ctx context.Context, userID string, token string, expiresAt time.Time) error
	// ListActive returns revocations whose token is still unexpired.
	ListActive(ctx context.Context) ([]RevokedToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
