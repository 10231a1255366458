package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cotizador-app/cotizador/internal/auth"
	"github.com/cotizador-app/cotizador/internal/catalog"
	"github.com/cotizador-app/cotizador/internal/customers"
	"github.com/cotizador-app/cotizador/internal/notify"
	"github.com/cotizador-app/cotizador/internal/observability"
	"github.com/cotizador-app/cotizador/internal/quotations"
	"github.com/cotizador-app/cotizador/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *auth.SessionManager
	AuthHandler       *auth.Handler
	CatalogHandler    *catalog.Handler
	CustomersHandler  *customers.Handler
	QuotationsHandler *quotations.Handler
	GuestHandler      *quotations.GuestHandler
	NotifyHandler     *notify.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router for the HTTP server. Staff routes
// live under /api behind the session gate; the guest surface is mounted
// at the root behind its own rate limit.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(GuestRateLimit())
		params.GuestHandler.MountRoutes(r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			params.CatalogHandler.MountRoutes(r)
			r.Route("/customers", params.CustomersHandler.MountRoutes)
			r.Route("/quotations", func(r chi.Router) {
				params.QuotationsHandler.MountRoutes(r)
				if params.NotifyHandler != nil {
					params.NotifyHandler.MountRoutes(r)
				}
			})
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
