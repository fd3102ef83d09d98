package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the non-handler dependencies of the router.
type RouterConfig struct {
	JWTService     jwt.Service
	Metrics        http.Handler
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

type Handlers struct {
	Attendance  AttendanceHandler
	Leave       LeaveHandler
	Holiday     HolidayHandler
	Settings    SettingsHandler
	Employee    EmployeeHandler
	Performance PerformanceHandler
	Dashboard   DashboardHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verify(cfg.JWTService.JWTAuth(), jwtauth.TokenFromHeader, middleware.TokenFromQuery))
		r.Use(middleware.AuthRequired)

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/clock-in", h.Attendance.ClockIn)
			r.Post("/clock-out", h.Attendance.ClockOut)
			r.Get("/today", h.Attendance.Today)
			r.Get("/active", h.Attendance.Active)
			r.Get("/my", h.Attendance.GetMyAttendance)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.Leave.Request)
			r.Get("/my", h.Leave.GetMyRequests)
			r.Get("/balance", h.Leave.Balance)
		})

		r.Route("/performance", func(r chi.Router) {
			r.Get("/my", h.Performance.GetMyPerformance)
			r.Put("/{id}/progress", h.Performance.UpdateProgress)
		})

		r.Get("/holidays", h.Holiday.List)
		r.Get("/settings", h.Settings.Get)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminOnly)

			r.Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Get("/stream", h.Attendance.Stream)
				r.Delete("/{id}", h.Attendance.Delete)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Post("/", h.Employee.Create)
				r.Get("/{id}", h.Employee.Get)
				r.Put("/{id}/shift", h.Employee.UpdateShift)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.List)
				r.Put("/{id}/status", h.Leave.Process)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Post("/", h.Holiday.Create)
				r.Delete("/{id}", h.Holiday.Delete)
			})

			r.Put("/settings", h.Settings.Update)

			r.Route("/performance", func(r chi.Router) {
				r.Get("/", h.Performance.List)
				r.Post("/", h.Performance.AssignLeads)
			})
		})
	})

	return r
}
