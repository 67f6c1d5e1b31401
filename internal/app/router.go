package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petra-erp/petra-erp/internal/fleet"
	"github.com/petra-erp/petra-erp/internal/logistics"
	"github.com/petra-erp/petra-erp/internal/observability"
	"github.com/petra-erp/petra-erp/internal/serviceorders"
	"github.com/petra-erp/petra-erp/internal/workforce"
	"github.com/petra-erp/petra-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	FleetHandler         *fleet.Handler
	WorkforceHandler     *workforce.Handler
	LogisticsHandler     *logistics.Handler
	ServiceOrdersHandler *serviceorders.Handler
	JobHandler           *jobs.Handler
	Pool                 *pgxpool.Pool
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router with Petra defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		body := `{"status":"ok"}`
		if params.Pool != nil {
			if err := params.Pool.Ping(r.Context()); err != nil {
				params.Logger.Warn("healthz db ping", slog.Any("error", err))
				status = http.StatusServiceUnavailable
				body = `{"status":"degraded"}`
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.FleetHandler != nil {
		r.Route("/fleet/vehicles", params.FleetHandler.MountRoutes)
	}
	if params.WorkforceHandler != nil {
		r.Route("/workforce/employees", params.WorkforceHandler.MountRoutes)
	}
	if params.ServiceOrdersHandler != nil {
		r.Route("/service-orders", params.ServiceOrdersHandler.MountRoutes)
	}
	if params.LogisticsHandler != nil {
		r.Route("/logistics", params.LogisticsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
