package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Balance errors carry the amounts the client shows
	var insufficient *leave.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		Error(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE", insufficient.Error(), map[string]string{
			"leaveType": string(insufficient.LeaveType),
			"year":      validator.Itoa(insufficient.Year),
			"remaining": insufficient.Remaining.String(),
			"required":  insufficient.Required.String(),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "USERNAME_EXISTS", "Username already exists")
	case errors.Is(err, user.ErrForbidden),
		errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInvalidPassword):
		BadRequest(w, "Current password is incorrect", nil)
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, "Cannot delete your own account", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDateAlreadyRecorded):
		Conflict(w, "DATE_ALREADY_RECORDED", err.Error())
	case errors.Is(err, attendance.ErrTimeOverlap):
		Conflict(w, "TIME_OVERLAP", err.Error())
	case errors.Is(err, attendance.ErrNoWorkingDays):
		Error(w, http.StatusUnprocessableEntity, "NO_WORKING_DAYS", err.Error(), nil)
	case errors.Is(err, attendance.ErrUnknownType):
		ValidationError(w, map[string]string{"type": err.Error()})
	case errors.Is(err, calendar.ErrInvalidRange), errors.Is(err, calendar.ErrRangeTooLong):
		ValidationError(w, map[string]string{"endDate": err.Error()})

	// Leave domain errors
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInvalidLeaveType):
		ValidationError(w, map[string]string{"leaveType": err.Error()})
	case errors.Is(err, leave.ErrTotalBelowUsed):
		ValidationError(w, map[string]string{"total": err.Error()})

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, "HOLIDAY_EXISTS", "A holiday already exists on this date")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
