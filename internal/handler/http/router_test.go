package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	calendarService "github.com/cmlabs-hris/hris-attendance-go/internal/service/calendarview"
	dashboardService "github.com/cmlabs-hris/hris-attendance-go/internal/service/dashboard"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	userService "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

var (
	testAdmin   = user.User{ID: "0b6f4c1e-2a7d-4f0e-9c3b-5d8e1a2f4b60", Username: "9001", Name: "Root", Role: user.RoleAdmin}
	testManager = user.User{ID: "2c9a7e5d-8b1f-4c3a-a6e2-7f0d9b4c1e83", Username: "2001", Name: "Mina", Department: "Dev", Role: user.RoleManager}
	testAlice   = user.User{ID: "5e1d3b7a-9c2f-4a8e-b0d6-3f7c2a9e1b45", Username: "1001", Name: "Alice", Department: "Dev", Role: user.RoleUser}
	testBob     = user.User{ID: "8a4f2c6e-1d9b-4e7a-9f3c-6b2e8d0a5c17", Username: "1002", Name: "Bob", Department: "Ops", Role: user.RoleUser}
)

type testServer struct {
	store  *memory.Store
	jwt    jwt.Service
	router *chi.Mux
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store := memory.NewStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	for _, u := range []user.User{testAdmin, testManager, testAlice, testBob} {
		u.PasswordHash = string(hashedPassword)
		store.PutUser(u)
		store.PutBalance(leave.NewBalance(u.ID, 2025, leave.LeaveTypeAnnual, decimal.NewFromInt(15)))
		store.PutBalance(leave.NewBalance(u.ID, 2025, leave.LeaveTypeCompensatory, decimal.Zero))
	}

	holidays := calendar.NewStaticHolidayCalendar(nil)
	workCalendar := calendar.New(holidays)
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, false)
	ledger := leaveService.NewLedger(store.Balances())
	annual := decimal.NewFromInt(15)
	hub := sse.NewHub()

	router := NewRouter(jwtSvc, Handlers{
		Auth:       NewAuthHandler(jwtSvc, authService.NewAuthService(store.Users(), store.Tokens(), jwtSvc)),
		User:       NewUserHandler(userService.NewUserService(store.TxManager(), ledger, store.Users(), annual, decimal.Zero)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(store.TxManager(), ledger, workCalendar, store.Attendance(), store.Users(), hub), reportService.NewReportService(store.Attendance(), store.Balances())),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(store.TxManager(), ledger, store.Balances(), store.Users(), annual, decimal.Zero)),
		Calendar:   NewCalendarHandler(calendarService.NewCalendarViewService(workCalendar, store.Attendance(), store.Users())),
		Holiday:    NewHolidayHandler(holidayService.NewHolidayService(store.Holidays(), holidays, nil)),
		Dashboard:  NewDashboardHandler(dashboardService.NewDashboardService(store.Attendance(), store.Balances())),
		Events:     NewEventsHandler(hub),
	}, RouterOptions{Env: "test", LogLevel: slog.LevelError})

	return testServer{store: store, jwt: jwtSvc, router: router}
}

func (s testServer) tokenFor(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(u.ID, u.Role, u.Department)
	require.NoError(t, err)
	return token
}

func (s testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	errObj, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "expected an error body")
	return errObj["code"].(string)
}

// ===== AUTH =====

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "1001", "password": "password123"})

	require.Equal(t, http.StatusOK, w.Code)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == jwt.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	resp := decode(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, cookie.Value, data["accessToken"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "1001", "password": "wrongpassword"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_RequiresJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("username=1001")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestAuthRequired_RejectsMissingToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/attendances", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_AcceptsCookie(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: jwt.CookieName, Value: s.tokenFor(t, testAlice)})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Alice", data["name"])
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, testAlice)

	w := s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	active, err := s.store.Tokens().ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

// ===== ATTENDANCE =====

func TestAttendanceHandler_CreateAndConflict(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, testAlice)
	body := map[string]string{"startDate": "2025-03-10", "type": "연차", "reason": "rest"}

	w := s.do(t, http.MethodPost, "/api/v1/attendances", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"2025-03-10"}, data["createdDates"])
	assert.Equal(t, 1.0, data["leaveUsage"])

	w = s.do(t, http.MethodPost, "/api/v1/attendances", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DATE_ALREADY_RECORDED", errorCode(t, w))
}

func TestAttendanceHandler_InsufficientBalance(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/attendances", s.tokenFor(t, testAlice), map[string]string{"startDate": "2025-03-10", "type": "대체휴가"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errObj := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "INSUFFICIENT_BALANCE", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, "compensatory", details["leaveType"])
	assert.Equal(t, "0", details["remaining"])
	assert.Equal(t, "1", details["required"])
}

func TestAttendanceHandler_ValidationAndScope(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/attendances", s.tokenFor(t, testAlice), map[string]string{"startDate": "2025-03-10", "type": "반반차"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendances", s.tokenFor(t, testManager), map[string]string{"userId": testBob.ID, "startDate": "2025-03-10", "type": "재택"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendances?from=2025-03-10&to=2025-03-01", s.tokenFor(t, testAlice), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAttendanceHandler_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, testAlice)

	w := s.do(t, http.MethodPost, "/api/v1/attendances", token, map[string]string{"startDate": "2025-03-10", "type": "연차"})
	require.Equal(t, http.StatusCreated, w.Code)
	records := decode(t, w)["data"].(map[string]interface{})["records"].([]interface{})
	id := records[0].(map[string]interface{})["id"].(string)

	w = s.do(t, http.MethodPut, "/api/v1/attendances/"+id, token, map[string]string{"date": "2025-03-10", "type": "오전반차"})
	require.Equal(t, http.StatusOK, w.Code)
	b, _ := s.store.Balance(leave.Key{UserID: testAlice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual})
	assert.True(t, b.Remaining.Equal(decimal.RequireFromString("14.5")))

	w = s.do(t, http.MethodDelete, "/api/v1/attendances/"+id, s.tokenFor(t, testBob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/attendances/"+id, s.tokenFor(t, testManager), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.5, decode(t, w)["data"].(map[string]interface{})["restoredLeave"])

	w = s.do(t, http.MethodGet, "/api/v1/attendances/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceHandler_MalformedIDs(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, testAdmin)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := s.do(t, method, "/api/v1/attendances/not-a-uuid", token, map[string]string{"date": "2025-03-10", "type": "재택"})
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}

	w := s.do(t, http.MethodGet, "/api/v1/attendances?userId=abc", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendances", token, map[string]string{"userId": "abc", "startDate": "2025-03-10", "type": "재택"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, s.store.RecordCount())

	w = s.do(t, http.MethodGet, "/api/v1/users/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/leave-balances/users/abc?year=2025", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceHandler_Check(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/attendances/check", s.tokenFor(t, testAlice), map[string]string{"startDate": "2025-03-08", "endDate": "2025-03-09", "type": "연차"})

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["ok"])
	assert.Zero(t, s.store.RecordCount())
}

func TestAttendanceHandler_Types(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/attendance-types", s.tokenFor(t, testAlice), nil)

	require.Equal(t, http.StatusOK, w.Code)
	types := decode(t, w)["data"].([]interface{})
	assert.Len(t, types, 11)
}

func TestAttendanceHandler_Export(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/attendances/export?from=2025-03-01&to=2025-03-31", s.tokenFor(t, testAlice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendances/export?from=2025-03-01&to=2025-03-31", s.tokenFor(t, testManager), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance_2025-03-01_2025-03-31.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotZero(t, w.Body.Len())
}

// ===== USERS / LEAVE / HOLIDAYS =====

func TestUserHandler_Permissions(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/users", s.tokenFor(t, testAlice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/users", s.tokenFor(t, testManager), map[string]string{"username": "3001", "name": "New", "role": "user"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/users", s.tokenFor(t, testAdmin), map[string]string{"username": "3001", "name": "New", "role": "user"})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["tempPassword"])

	w = s.do(t, http.MethodPost, "/api/v1/users", s.tokenFor(t, testAdmin), map[string]string{"username": "3001", "name": "Again", "role": "user"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USERNAME_EXISTS", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/api/v1/users", s.tokenFor(t, testManager), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]interface{}), 2)
}

func TestLeaveHandler_Balances(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/leave-balances/my?year=2025", s.tokenFor(t, testAlice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]interface{}), 2)

	w = s.do(t, http.MethodGet, "/api/v1/leave-balances?year=2025", s.tokenFor(t, testAlice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/leave-balances/users/"+testBob.ID+"?year=2025", s.tokenFor(t, testManager), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/leave-balances/my?year=abc", s.tokenFor(t, testAlice), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/leave-balances/total", s.tokenFor(t, testAdmin), map[string]interface{}{
		"userId": testAlice.ID, "year": 2025, "leaveType": "compensatory", "total": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decode(t, w)["data"].(map[string]interface{})["remaining"])
}

func TestHolidayHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, testAdmin)

	w := s.do(t, http.MethodPost, "/api/v1/holidays", s.tokenFor(t, testManager), map[string]string{"date": "2025-03-11", "name": "Company Day"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/holidays", admin, map[string]string{"date": "2025-03-11", "name": "Company Day"})
	require.Equal(t, http.StatusCreated, w.Code)

	// The new holiday is no longer a working day
	w = s.do(t, http.MethodPost, "/api/v1/attendances", s.tokenFor(t, testAlice), map[string]string{"startDate": "2025-03-11", "type": "재택"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "NO_WORKING_DAYS", errorCode(t, w))

	w = s.do(t, http.MethodDelete, "/api/v1/holidays/2025-03-11", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/holidays/2025-03-11", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendarAndDashboard(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, testAlice)

	w := s.do(t, http.MethodGet, "/api/v1/calendar?year=2025&month=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	days := decode(t, w)["data"].(map[string]interface{})["days"].([]interface{})
	assert.Len(t, days, 28)

	w = s.do(t, http.MethodGet, "/api/v1/calendar?year=2025&month=0", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/dashboard/my?year=2025", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].(map[string]interface{})["balances"].([]interface{}), 2)
}
