package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	calendarService "github.com/cmlabs-hris/hris-attendance-go/internal/service/calendarview"
	dashboardService "github.com/cmlabs-hris/hris-attendance-go/internal/service/dashboard"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	userService "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "hris-attendance"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(dsn); err != nil {
			return err
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	// Repositories
	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	tokenRepo := postgresql.NewTokenRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	// Working-day calendar
	holidays := calendar.NewStaticHolidayCalendar(nil)
	workCalendar := calendar.New(holidays)

	// Live calendar change feed
	eventHub := sse.NewHub()

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.IsProduction())
	ledger := leaveService.NewLedger(balanceRepo)
	leaveSvc := leaveService.NewLeaveService(txManager, ledger, balanceRepo, userRepo, cfg.Leave.DefaultAnnualTotal, cfg.Leave.DefaultCompTotal)
	userSvc := userService.NewUserService(txManager, ledger, userRepo, cfg.Leave.DefaultAnnualTotal, cfg.Leave.DefaultCompTotal)
	authSvc := serviceAuth.NewAuthService(userRepo, tokenRepo, JWTService)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, holidays, fixtures.DefaultHolidays())
	attendanceSvc := attendanceService.NewAttendanceService(txManager, ledger, workCalendar, attendanceRepo, userRepo, eventHub)
	calendarSvc := calendarService.NewCalendarViewService(workCalendar, attendanceRepo, userRepo)
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, balanceRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, balanceRepo)

	// Startup state
	loaded, err := holidaySvc.Load(ctx)
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}
	slog.Info("Holidays loaded", "count", loaded)

	revoked, err := authSvc.LoadRevoked(ctx)
	if err != nil {
		return fmt.Errorf("load revoked tokens: %w", err)
	}
	slog.Info("Revoked tokens restored", "count", revoked)

	if cfg.Admin.Password != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// Scheduled jobs
	scheduler := cron.NewScheduler(ctx)
	cron.NewLeaveJobs(leaveSvc).RegisterJobs(scheduler)
	cron.NewTokenJobs(tokenRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, reportSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Calendar:   appHTTP.NewCalendarHandler(calendarSvc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Events:     appHTTP.NewEventsHandler(eventHub),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	srv.RegisterOnShutdown(eventHub.Close)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
