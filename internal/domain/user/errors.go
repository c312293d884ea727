package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameExists        = errors.New("username already exists")
	ErrForbidden             = errors.New("not allowed to access this user's data")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrManagerAccessRequired = errors.New("manager or admin access required")
	ErrInvalidPassword       = errors.New("current password is incorrect")
	ErrCannotDeleteSelf      = errors.New("cannot delete your own account")
)
