package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RouterConfig collects what the router serves. Admin may be nil.
type RouterConfig struct {
	Logger   zerolog.Logger
	GraphQL  *GraphQLHandler
	Admin    *AdminHandler
	Registry *prometheus.Registry
}

func NewRouter(cfg RouterConfig) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(hlog.NewHandler(cfg.Logger))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	router.Use(middleware.Recoverer)

	if cfg.Registry != nil {
		router.Use(NewMetrics(cfg.Registry).Middleware)
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	cfg.GraphQL.RegisterRoutes(router)
	if cfg.Admin != nil {
		cfg.Admin.RegisterRoutes(router)
	}
	return router
}
