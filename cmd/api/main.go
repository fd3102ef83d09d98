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

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/domain"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/performance"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/settings"
	appHTTP "github.com/cmlabs-hris/hris-attendance/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hris-attendance/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hris-attendance/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hris-attendance/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance/internal/service/leave"
	performanceService "github.com/cmlabs-hris/hris-attendance/internal/service/performance"
	settingsService "github.com/cmlabs-hris/hris-attendance/internal/service/settings"
	shiftService "github.com/cmlabs-hris/hris-attendance/internal/service/shift"
	"github.com/prometheus/client_golang/prometheus"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type repositories struct {
	tx          domain.Transactor
	attendance  attendance.AttendanceRepository
	employees   employee.EmployeeRepository
	leaves      leave.LeaveRequestRepository
	holidays    holiday.HolidayRepository
	settings    settings.SettingsRepository
	performance performance.PerformanceRepository
	close       func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	if cfg.Redis.Addr != "" {
		client := cache.NewRedis(cfg.Redis.Addr)
		defer client.Close()
		if !cache.Healthy(ctx, client) {
			slog.Warn("Redis unreachable, settings will be read from storage until it recovers", "addr", cfg.Redis.Addr)
		}
		repos.settings = cache.NewSettingsRepository(repos.settings, client, cfg.Redis.SettingsTTL)
	}

	resolver, err := shiftService.NewResolver(cfg.Attendance.DatePolicy, cfg.Attendance.WindowBuffer)
	if err != nil {
		return fmt.Errorf("invalid attendance date policy: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, true)
	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	loc := cfg.App.Location

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.tx,
		repos.attendance,
		repos.employees,
		repos.leaves,
		repos.holidays,
		repos.settings,
		resolver,
		loc,
		m,
		hub,
	)
	employeeSvc := employeeService.NewEmployeeService(repos.employees)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, nil)
	holidaySvc := holidayService.NewHolidayService(repos.holidays)
	settingsSvc := settingsService.NewSettingsService(repos.settings)
	performanceSvc := performanceService.NewPerformanceService(repos.tx, repos.performance, repos.employees, loc, nil)
	dashboardSvc := dashboardService.NewDashboardService(repos.attendance, repos.employees, repos.leaves, repos.holidays, loc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		JWTService:     JWTService,
		Metrics:        m.Handler(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       cfg.SlogLevel(),
	}, appHTTP.Handlers{
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc, hub, nil),
		Leave:       appHTTP.NewLeaveHandler(leaveSvc, employeeSvc),
		Holiday:     appHTTP.NewHolidayHandler(holidaySvc),
		Settings:    appHTTP.NewSettingsHandler(settingsSvc),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		Performance: appHTTP.NewPerformanceHandler(performanceSvc),
		Dashboard:   appHTTP.NewDashboardHandler(dashboardSvc, nil),
	})

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(repos.attendance, m, cfg.Attendance.StaleSessionAfter, nil).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage, "date_policy", cfg.Attendance.DatePolicy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:          store.Transactor(),
			attendance:  memory.NewAttendanceRepository(store),
			employees:   memory.NewEmployeeRepository(store),
			leaves:      memory.NewLeaveRequestRepository(store),
			holidays:    memory.NewHolidayRepository(store),
			settings:    memory.NewSettingsRepository(store),
			performance: memory.NewPerformanceRepository(store),
			close:       func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	applied, err := postgresql.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}
	if len(applied) > 0 {
		slog.Info("Migrations applied", "files", applied)
	}

	return &repositories{
		tx:          postgresql.NewTransactor(db),
		attendance:  postgresql.NewAttendanceRepository(db),
		employees:   postgresql.NewEmployeeRepository(db),
		leaves:      postgresql.NewLeaveRequestRepository(db),
		holidays:    postgresql.NewHolidayRepository(db),
		settings:    postgresql.NewSettingsRepository(db),
		performance: postgresql.NewPerformanceRepository(db),
		close:       db.Close,
	}, nil
}
