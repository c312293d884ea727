package user

import "time"

type Role string

const (
	RoleUser    Role = "user"    // Regular employee
	RoleManager Role = "manager" // Manages role=user members of the same department
	RoleAdmin   Role = "admin"   // Full access
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             string
	Username       string // employee number, used to log in
	Name           string
	Department     string
	Role           Role
	PasswordHash   string
	IsTempPassword bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID     string
	Role       Role
	Department string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsManager checks if actor is manager or admin
func (a Actor) IsManager() bool {
	return a.Role == RoleManager || a.Role == RoleAdmin
}

// CanAccess reports whether the actor may view or manage data owned by target.
// Managers only reach role=user members of their own department.
func (a Actor) CanAccess(target User) bool {
	if a.UserID == target.ID {
		return true
	}
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return target.Role == RoleUser && target.Department != "" && target.Department == a.Department
	}
	return false
}
