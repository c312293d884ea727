package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	auth.TokenRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, tokenRepository auth.TokenRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:  userRepository,
		TokenRepository: tokenRepository,
		Service:         jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.LoginResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Role, userData.Department)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("User logged in", "user_id", userData.ID, "role", userData.Role)

	return auth.LoginResponse{
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
		MustChangePassword:   userData.IsTempPassword,
		User:                 user.NewUserResponse(userData),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, actor user.Actor, accessToken string, expiresAt time.Time) error {
	if accessToken == "" {
		return auth.ErrInvalidToken
	}

	if err := a.TokenRepository.Revoke(ctx, actor.UserID, accessToken, expiresAt); err != nil {
		return fmt.Errorf("failed to persist token revocation: %w", err)
	}
	a.Service.RevokeToken(accessToken, expiresAt.Unix())

	slog.Info("User logged out", "user_id", actor.UserID)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	u, err := a.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// LoadRevoked implements auth.AuthService.
func (a *AuthServiceImpl) LoadRevoked(ctx context.Context) (int, error) {
	if _, err := a.TokenRepository.DeleteExpired(ctx); err != nil {
		slog.Warn("Failed to purge expired revocations", "error", err)
	}

	tokens, err := a.TokenRepository.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load revoked tokens: %w", err)
	}
	for _, t := range tokens {
		a.Service.RestoreRevoked(t.TokenHash, t.ExpiresAt.Unix())
	}
	return len(tokens), nil
}
