package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Clock       ClockHandler
	Leave       LeaveHandler
	Balance     BalanceHandler
	Attendance  AttendanceHandler
	Corrections CorrectionHandler
	Events      EventHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).
				Post("/clock-events", h.Clock.Record)

			r.Get("/leave-types", h.Leave.ListTypes)

			if h.Events != nil {
				r.Get("/events", h.Events.Stream)
			}

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Leave.GetRequest)
					r.Post("/cancel", h.Leave.CancelRequest)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Post("/approve", h.Leave.ApproveRequest)
						r.Post("/reject", h.Leave.RejectRequest)
					})
				})
			})

			r.Route("/attendance-corrections", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/", h.Corrections.Submit)
				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Get("/pending", h.Corrections.ListPending)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Corrections.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
						r.Post("/approve", h.Corrections.Approve)
						r.Post("/reject", h.Corrections.Reject)
					})
				})
			})

			r.With(middleware.RequirePermission(user.PermissionBalanceAccrue)).
				Post("/accruals", h.Balance.Accrue)

			r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).
				Get("/attendance/team", h.Attendance.TeamDay)

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.With(middleware.RequireSelfOr("employeeID", user.PermissionAttendanceViewAll)).
					Get("/clock-events", h.Clock.DayEvents)
				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
					Post("/clock-events", h.Clock.RecordFor)

				r.With(middleware.RequireSelfOr("employeeID", user.PermissionAttendanceViewAll)).
					Get("/attendance-corrections", h.Corrections.ListByEmployee)

				r.With(middleware.RequireSelfOr("employeeID", user.PermissionLeaveViewAll)).
					Get("/leave-requests", h.Leave.ListByEmployee)

				r.Route("/balances", func(r chi.Router) {
					r.Use(middleware.RequireSelfOr("employeeID", user.PermissionBalanceViewAll))
					r.Get("/", h.Balance.List)
					r.Get("/{leaveTypeID}", h.Balance.Get)
					r.Get("/{leaveTypeID}/entries", h.Balance.Entries)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Use(middleware.RequireSelfOr("employeeID", user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.Summary)
					r.Get("/days/{date}", h.Attendance.Day)
					r.With(middleware.RequireSelfOr("employeeID", user.PermissionReportsView)).
						Get("/export", h.Attendance.Export)
				})
			})
		})
	})
	return r
}
