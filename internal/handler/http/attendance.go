package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Check(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Types(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.ReportService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := r.URL.Query()
	if err := checkUUID("userId", q.Get("userId")); err != nil {
		response.HandleError(w, err)
		return
	}
	filter, err := attendance.NewAttendanceFilter(q.Get("userId"), q.Get("department"), q.Get("type"), q.Get("from"), q.Get("to"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := pathID(r, "id", attendance.ErrRecordNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.Get(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// Create implements AttendanceHandler.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CreateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := checkUUID("userId", req.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.attendanceService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", created)
}

// Check implements AttendanceHandler.
func (h *attendanceHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CreateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := checkUUID("userId", req.UserID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Check(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.ID, err = pathID(r, "id", attendance.ErrRecordNotFound); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.attendanceService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", updated)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := pathID(r, "id", attendance.ErrRecordNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	deleted, err := h.attendanceService.Delete(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", deleted)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := r.URL.Query()
	req := report.ExportRequest{
		From:       q.Get("from"),
		To:         q.Get("to"),
		Department: q.Get("department"),
	}

	buf, filename, err := h.reportService.ExportAttendance(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, response.XLSXContentType, filename, buf)
}

// Types implements AttendanceHandler.
func (h *attendanceHandlerImpl) Types(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.attendanceService.Types())
}
