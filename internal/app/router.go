package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-pos/meridian-pos/internal/auth"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/checkout"
	"github.com/meridian-pos/meridian-pos/internal/customers"
	"github.com/meridian-pos/meridian-pos/internal/expenses"
	"github.com/meridian-pos/meridian-pos/internal/ledger"
	"github.com/meridian-pos/meridian-pos/internal/reports"
	"github.com/meridian-pos/meridian-pos/internal/settings"
	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/shifts"
	"github.com/meridian-pos/meridian-pos/internal/users"
	"github.com/meridian-pos/meridian-pos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	CheckoutHandler  *checkout.Handler
	LedgerHandler    *ledger.Handler
	ShiftsHandler    *shifts.Handler
	CustomersHandler *customers.Handler
	SettingsHandler  *settings.Handler
	UsersHandler     *users.Handler
	ReportsHandler   *reports.Handler
	ExpensesHandler  *expenses.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router serving the POS API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Sign-in endpoints are reachable without a session.
	params.AuthHandler.MountRoutes(r)

	// Register floor: every signed-in cashier.
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		params.CatalogHandler.MountRoutes(r)
		params.CheckoutHandler.MountRoutes(r)
		params.LedgerHandler.MountRoutes(r)
		params.ShiftsHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.SettingsHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
	})

	// Back office: admins only.
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)
		params.UsersHandler.MountRoutes(r)
		params.SettingsHandler.MountAdminRoutes(r)
		params.ExpensesHandler.MountRoutes(r)
		params.ReportsHandler.MountAdminRoutes(r)
		if params.JobsHandler != nil {
			params.JobsHandler.MountRoutes(r)
		}
	})

	return r
}
