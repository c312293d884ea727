package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListBalances(w http.ResponseWriter, r *http.Request)
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetUserBalances(w http.ResponseWriter, r *http.Request)
	SetTotal(w http.ResponseWriter, r *http.Request)
	BulkInitialize(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year, err := queryInt(r, "year", 0)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := l.leaveService.ListBalances(r.Context(), actor, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year, err := queryInt(r, "year", 0)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := l.leaveService.GetUserBalances(r.Context(), actor, actor.UserID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetUserBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetUserBalances(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year, err := queryInt(r, "year", 0)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	userID, err := pathID(r, "userId", user.ErrUserNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := l.leaveService.GetUserBalances(r.Context(), actor, userID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// SetTotal implements LeaveHandler.
func (l *LeaveHandlerImpl) SetTotal(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.SetTotalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetTotal decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := checkUUID("userId", req.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := l.leaveService.SetTotal(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave total updated", balance)
}

// BulkInitialize implements LeaveHandler.
func (l *LeaveHandlerImpl) BulkInitialize(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.BulkInitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("BulkInitialize decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.leaveService.BulkInitialize(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances initialized", result)
}
