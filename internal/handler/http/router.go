package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
}

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Calendar   CalendarHandler
	Holiday    HolidayHandler
	Dashboard  DashboardHandler
	Events     EventsHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("application/json")).Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/users", func(r chi.Router) {
				r.Put("/me/password", h.User.ChangePassword)

				r.With(middleware.RequirePermission(user.PermissionUserView)).Get("/", h.User.List)
				r.Get("/{id}", h.User.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Post("/", h.User.Create)
					r.Put("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Delete)
					r.Post("/{id}/reset-password", h.User.ResetPassword)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/", h.Attendance.Create)
				r.Post("/check", h.Attendance.Check)
				r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)
				r.Get("/{id}", h.Attendance.Get)
				r.Put("/{id}", h.Attendance.Update)
				r.Delete("/{id}", h.Attendance.Delete)
			})
			r.Get("/attendance-types", h.Attendance.Types)

			r.Get("/calendar", h.Calendar.MonthView)

			r.Route("/leave-balances", func(r chi.Router) {
				r.Get("/my", h.Leave.GetMyBalances)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Leave.ListBalances)
					r.Get("/users/{userId}", h.Leave.GetUserBalances)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveManage))
					r.Put("/total", h.Leave.SetTotal)
					r.Post("/bulk", h.Leave.BulkInitialize)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.List)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
					r.Post("/", h.Holiday.Create)
					r.Delete("/{date}", h.Holiday.Delete)
				})
			})

			r.Get("/dashboard/my", h.Dashboard.GetMy)
			r.Get("/events", h.Events.Stream)
		})
	})
	return r
}
