package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const tempPasswordLength = 10

// Ambiguous characters (0/O, 1/l/I) are left out so temp passwords can be
// read out loud.
const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type UserServiceImpl struct {
	tx     database.TxManager
	ledger leave.Ledger
	user.UserRepository

	defaultAnnual decimal.Decimal
	defaultComp   decimal.Decimal
	now           func() time.Time
}

func NewUserService(tx database.TxManager, ledger leave.Ledger, userRepository user.UserRepository, defaultAnnual, defaultComp decimal.Decimal) *UserServiceImpl {
	return &UserServiceImpl{
		tx:             tx,
		ledger:         ledger,
		UserRepository: userRepository,
		defaultAnnual:  defaultAnnual,
		defaultComp:    defaultComp,
		now:            time.Now,
	}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// Create implements user.UserService. The new user's leave balances for the
// current year are created in the same transaction.
func (s *UserServiceImpl) Create(ctx context.Context, actor user.Actor, req user.CreateUserRequest) (user.CreateUserResponse, error) {
	if !actor.IsAdmin() {
		return user.CreateUserResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return user.CreateUserResponse{}, err
	}

	password, temp := req.Password, false
	if password == "" {
		generated, err := generateTempPassword()
		if err != nil {
			return user.CreateUserResponse{}, fmt.Errorf("failed to generate password: %w", err)
		}
		password, temp = generated, true
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return user.CreateUserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	year := s.now().Year()
	var created user.User
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err = s.UserRepository.Create(ctx, user.User{
			ID:             uuid.New().String(),
			Username:       req.Username,
			Name:           req.Name,
			Department:     req.Department,
			Role:           user.Role(req.Role),
			PasswordHash:   hash,
			IsTempPassword: temp,
		})
		if err != nil {
			return err
		}

		if _, err := s.ledger.Initialize(ctx, created.ID, year, s.defaultAnnual, s.defaultComp); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return user.CreateUserResponse{}, err
	}

	slog.Info("Created user", "actor_id", actor.UserID, "user_id", created.ID, "role", created.Role, "balance_year", year)

	resp := user.CreateUserResponse{
		User:          user.NewUserResponse(created),
		BalanceYear:   year,
		BalancesReady: true,
	}
	if temp {
		resp.TempPassword = password
	}
	return resp, nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, actor user.Actor, req user.UpdateUserRequest) (user.UserResponse, error) {
	if !actor.IsAdmin() {
		return user.UserResponse{}, user.ErrAdminAccessRequired
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Department != nil {
		existing.Department = *req.Department
	}
	if req.Role != nil {
		existing.Role = user.Role(*req.Role)
	}

	if err := s.UserRepository.Update(ctx, existing); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService. Records and balances go with the user.
func (s *UserServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminAccessRequired
	}
	if actor.UserID == id {
		return user.ErrCannotDeleteSelf
	}

	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Deleted user", "actor_id", actor.UserID, "user_id", id)
	return nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor user.Actor) ([]user.UserResponse, error) {
	if !actor.IsManager() {
		return nil, user.ErrManagerAccessRequired
	}

	users, err := s.UserRepository.List(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, user.NewUserResponse(u))
	}
	return out, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !actor.CanAccess(u) {
		return user.UserResponse{}, user.ErrForbidden
	}
	return user.NewUserResponse(u), nil
}

// ResetPassword implements user.UserService.
func (s *UserServiceImpl) ResetPassword(ctx context.Context, actor user.Actor, id string) (user.ResetPasswordResponse, error) {
	if !actor.IsAdmin() {
		return user.ResetPasswordResponse{}, user.ErrAdminAccessRequired
	}

	password, err := generateTempPassword()
	if err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.UserRepository.UpdatePassword(ctx, id, hash, true); err != nil {
		return user.ResetPasswordResponse{}, err
	}

	slog.Info("Reset user password", "actor_id", actor.UserID, "user_id", id)
	return user.ResetPasswordResponse{UserID: id, TempPassword: password}, nil
}

// ChangePassword implements user.UserService.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, actor user.Actor, req user.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return user.ErrInvalidPassword
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.UserRepository.UpdatePassword(ctx, u.ID, hash, false)
}

// EnsureAdmin implements user.UserService.
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.UserRepository.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if username == "" || password == "" {
		return errors.New("no users exist and ADMIN_USERNAME/ADMIN_PASSWORD are not set")
	}

	system := user.Actor{Role: user.RoleAdmin}
	resp, err := s.Create(ctx, system, user.CreateUserRequest{
		Username: username,
		Name:     "Administrator",
		Role:     string(user.RoleAdmin),
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	slog.Info("Created bootstrap admin", "user_id", resp.User.ID, "username", username)
	return nil
}
