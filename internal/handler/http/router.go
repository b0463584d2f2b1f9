package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-core-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, payrollHandler PayrollHandler, leaveHandler LeaveHandler, reportHandler ReportHandler, notificationHandler NotificationHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-core"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
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

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set headers, so the stream also accepts ?jwt=.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromQuery, jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired)
			r.Get("/notifications/stream", notificationHandler.Stream)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			// Flat so they share the /notifications prefix with the stream route.
			r.Get("/notifications", notificationHandler.List)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Post("/notifications/read", notificationHandler.MarkAsRead)
			r.Post("/notifications/read-all", notificationHandler.MarkAllAsRead)
			r.Delete("/notifications/{id}", notificationHandler.Delete)

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/structures", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/import", payrollHandler.ImportStructures)
					r.Put("/{employeeID}", payrollHandler.UpsertStructure)
					r.Get("/{employeeID}", payrollHandler.GetStructure)
				})

				r.Route("/runs", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/", payrollHandler.GeneratePayroll)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPayrollViewSlips))
						r.Get("/{id}", payrollHandler.GetRun)
						r.Get("/{id}/slips", payrollHandler.ListRunSlips)
					})
				})

				r.Route("/slips", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/recalculate", payrollHandler.RecalculateSlip)
					// Ownership is checked by the service.
					r.With(middleware.RequirePermission(user.PermissionPayrollViewOwn)).Get("/{employeeID}", payrollHandler.GetSlip)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/", leaveHandler.ListTypes)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
						r.Post("/", leaveHandler.CreateType)
						r.Delete("/{id}", leaveHandler.DisableType)
					})
				})

				r.Route("/plans", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveManageTypes)).Post("/", leaveHandler.CreatePlan)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/{id}", leaveHandler.GetPlan)
					r.With(middleware.RequirePermission(user.PermissionLeaveManageQuota)).Put("/{id}/employees/{employeeID}", leaveHandler.AssignPlan)
				})

				r.Route("/balances", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveManageQuota))
						r.Post("/initialize", leaveHandler.InitializeBalances)
						r.Post("/carry-forward", leaveHandler.CarryForward)
					})
					r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/{employeeID}", leaveHandler.GetBalance)
				})

				r.Route("/applications", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveCreate))
						r.Post("/", leaveHandler.Apply)
						r.Post("/{id}/cancel", leaveHandler.Cancel)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
						r.Post("/{id}/approve", leaveHandler.Approve)
						r.Post("/{id}/reject", leaveHandler.Reject)
					})
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollViewSlips)).Get("/payroll", reportHandler.GetPayrollSummaryReport)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/leave-balances", reportHandler.GetLeaveBalanceReport)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
