package user

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	Role           string `json:"role"`
	IsTempPassword bool   `json:"isTempPassword"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Department:     u.Department,
		Role:           string(u.Role),
		IsTempPassword: u.IsTempPassword,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

var validRoles = []string{string(RoleUser), string(RoleManager), string(RoleAdmin)}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Password   string `json:"password,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	} else if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username must be 3-50 characters of letters, digits, '.', '_' or '-'",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !validator.IsInSlice(r.Role, validRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	// An empty password means a temporary one is generated.
	if r.Password != "" && len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateUserResponse struct {
	User          UserResponse `json:"user"`
	TempPassword  string       `json:"tempPassword,omitempty"`
	BalanceYear   int          `json:"balanceYear"`
	BalancesReady bool         `json:"balancesReady"`
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	ID         string  `json:"-"`
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Role       *string `json:"role,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Department != nil && len(*r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, validRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "invalid role",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "currentPassword",
			Message: "currentPassword is required",
		})
	}

	if len(r.NewPassword) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "newPassword",
			Message: "newPassword must be at least 8 characters",
		})
	} else if r.NewPassword == r.CurrentPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "newPassword",
			Message: "newPassword must differ from currentPassword",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetPasswordResponse struct {
	UserID       string `json:"userId"`
	TempPassword string `json:"tempPassword"`
}
