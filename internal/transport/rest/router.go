package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/admin"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	"github.com/frahmantamala/finance-tracker/internal/metrics"
	"github.com/frahmantamala/finance-tracker/internal/report"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	RBAC        *auth.RBACAuthorization
	User        *user.Handler
	Category    *category.Handler
	Transaction *transaction.Handler
	Goal        *goal.Handler
	Report      *report.Handler
	Admin       *admin.Handler
}

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Metrics        *metrics.Recorder
	MetricsPath    string
	RateLimiter    *middleware.RateLimiter
	Spec           *swagger.Spec
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}

	if opts.Spec != nil {
		router.Method(http.MethodGet, swagger.SpecRoute, opts.Spec)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}
		if opts.Metrics != nil && opts.MetricsPath != "" {
			r.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
		}

		r.Get("/categories", h.Category.GetCategories)

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(pub chi.Router) {
				if opts.RateLimiter != nil {
					pub.Use(opts.RateLimiter.Middleware)
				}
				pub.Post("/register", h.Auth.Register)
				pub.Post("/login", h.Auth.Login)
				pub.Get("/verify-email", h.Auth.VerifyEmail)
			})

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Get("/me", h.User.GetCurrentUser)
				pr.Put("/email", h.User.UpdateEmail)
				pr.Put("/password", h.User.ChangePassword)
				pr.Post("/send-verification", h.Auth.SendVerification)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/transactions", func(tr chi.Router) {
				tr.Post("/income", h.Transaction.CreateIncome)
				tr.Post("/expenses", h.Transaction.CreateExpense)
				tr.Get("/stats", h.Transaction.GetStats)
				tr.Get("/list", h.Transaction.List)
				tr.Get("/expenses-by-categories", h.Transaction.ExpensesByCategory)
				tr.Delete("/reset", h.Transaction.Reset)
				tr.Get("/export", h.Transaction.Export)
				tr.Get("/dashboard", h.Transaction.Dashboard)
				tr.Post("/dashboard/preview", h.Transaction.PreviewDashboard)
			})

			pr.Route("/goals", func(gr chi.Router) {
				gr.Get("/", h.Goal.List)
				gr.Post("/", h.Goal.Create)
				gr.Put("/{id}", h.Goal.Update)
				gr.Delete("/{id}", h.Goal.Delete)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Post("/", h.Report.Create)
				rr.Get("/my", h.Report.ListMine)
			})

			pr.Route("/admin", func(adm chi.Router) {
				adm.Group(func(staff chi.Router) {
					staff.Use(h.RBAC.RequireRoles(user.RoleAdmin, user.RoleModerator))
					staff.Get("/reports", h.Report.List)
					staff.Get("/reports/{id}", h.Report.Get)
					staff.Put("/reports/{id}/status", h.Report.UpdateStatus)
					staff.Delete("/reports/{id}", h.Report.Delete)
				})

				adm.Group(func(ad chi.Router) {
					ad.Use(h.RBAC.RequireRoles(user.RoleAdmin))
					ad.Get("/users", h.Admin.ListUsers)
					ad.Get("/users/{id}", h.Admin.GetUser)
					ad.Put("/users/{id}/status", h.Admin.UpdateUserStatus)
					ad.Put("/users/{id}/role", h.Admin.UpdateUserRole)
					ad.Delete("/users/{id}", h.Admin.DeleteUser)
					ad.Get("/stats", h.Admin.Stats)
					ad.Get("/logs", h.Admin.Logs)
				})
			})
		})
	})
}
