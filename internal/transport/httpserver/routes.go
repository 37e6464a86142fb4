package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"weekly-tracker/internal/config"
	"weekly-tracker/internal/transport/httpserver/handler"
	"weekly-tracker/internal/transport/httpserver/middleware"
	"weekly-tracker/pkg/logger"
)

// NewRouter mounts the tracker API under /api. metrics may be nil.
func NewRouter(cfg config.Config, handlers *handler.Handlers, metrics *middleware.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRequestLogger(log))
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.NewCORS(cfg.CORSAllowedOrigins))
	if metrics != nil {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/weeks", handlers.CreateWeek)
		r.Get("/weeks", handlers.ListWeeks)
		r.Get("/weeks/{week_id}", handlers.GetWeek)
		r.Delete("/weeks/{week_id}", handlers.DeleteWeek)
		r.Get("/weeks/{week_id}/grid", handlers.GetWeekGrid)
		r.Post("/weeks/{week_id}/items", handlers.CreateItem)

		r.Put("/weekly-items/{item_id}", handlers.UpdateItem)
		r.Delete("/weekly-items/{item_id}", handlers.DeleteItem)

		r.Put("/daily-checks", handlers.UpsertCheck)
	})

	return r
}
