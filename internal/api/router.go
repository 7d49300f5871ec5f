package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/appointment-dashboard/internal/appointment"
)

// RouterConfig wires the HTTP surface. PgPool and Redis are optional and
// only used by the readiness probe.
type RouterConfig struct {
	Dashboard *appointment.Dashboard
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoverMiddleware)

	health := NewHealthHandler(cfg.Dashboard, cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Dashboard))
		r.Post("/", quickAddHandler(cfg.Dashboard))
		r.Get("/buckets", bucketsHandler(cfg.Dashboard))
		r.Patch("/{id}/status", updateStatusHandler(cfg.Dashboard))
	})

	r.Get("/stats", statsHandler(cfg.Dashboard))
	r.Get("/view", getViewHandler(cfg.Dashboard))
	r.Put("/view", putViewHandler(cfg.Dashboard))

	return r
}
