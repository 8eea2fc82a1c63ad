package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentfolio/rentfolio/internal/auth"
	"github.com/rentfolio/rentfolio/internal/dashboard"
	"github.com/rentfolio/rentfolio/internal/expenses"
	"github.com/rentfolio/rentfolio/internal/leases"
	"github.com/rentfolio/rentfolio/internal/maintenance"
	"github.com/rentfolio/rentfolio/internal/observability"
	"github.com/rentfolio/rentfolio/internal/payments"
	"github.com/rentfolio/rentfolio/internal/properties"
	"github.com/rentfolio/rentfolio/internal/shared"
	"github.com/rentfolio/rentfolio/internal/tenants"
	"github.com/rentfolio/rentfolio/internal/units"
	"github.com/rentfolio/rentfolio/internal/users"
	"github.com/rentfolio/rentfolio/jobs"
)

// RouterParams aggregates everything the HTTP surface needs.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	AuthHandler        *auth.Handler
	UserHandler        *users.Handler
	PropertyHandler    *properties.Handler
	UnitHandler        *units.Handler
	TenantHandler      *tenants.Handler
	LeaseHandler       *leases.Handler
	PaymentHandler     *payments.Handler
	ExpenseHandler     *expenses.Handler
	MaintenanceHandler *maintenance.Handler
	DashboardHandler   *dashboard.Handler
	JobsHandler        *jobs.Handler
}

// NewRouter builds the chi router with the full middleware stack and every
// module mounted under /api/v1.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(MiddlewareStack(MiddlewareConfig{
		Logger:         p.Logger,
		Config:         p.Config,
		SessionManager: p.SessionManager,
		CSRFManager:    p.CSRFManager,
		Metrics:        p.Metrics,
	})...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", p.AuthHandler.MountRoutes)
		r.Route("/users", p.UserHandler.MountRoutes)
		r.Route("/properties", p.PropertyHandler.MountRoutes)
		r.Route("/units", p.UnitHandler.MountRoutes)
		r.Route("/tenants", p.TenantHandler.MountRoutes)
		r.Route("/leases", p.LeaseHandler.MountRoutes)
		r.Route("/payments", p.PaymentHandler.MountRoutes)
		r.Route("/expenses", p.ExpenseHandler.MountRoutes)
		r.Route("/maintenance", p.MaintenanceHandler.MountRoutes)
		r.Route("/dashboard", p.DashboardHandler.MountRoutes)
		if p.JobsHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(shared.RequireRole(shared.RoleAdmin))
				p.JobsHandler.MountRoutes(r)
			})
		}
	})

	return r
}
