package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/moi-restaurants/tracker/core/handler"
	"github.com/moi-restaurants/tracker/core/health"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/core/response"
	"github.com/moi-restaurants/tracker/core/router"
	"github.com/moi-restaurants/tracker/middleware"
)

type routeDeps struct {
	log          *slog.Logger
	bridge       http.Handler
	metrics      http.Handler
	records      recordstore.Store
	checks       []health.Check
	readyTimeout time.Duration
	maxPageViews int
}

func wrap(h http.Handler) handler.HandlerFunc[*router.Context] {
	return func(*router.Context) handler.Response { return response.Handler(h) }
}

// newRouter mounts the bridge, probes, metrics and the page-view API. Probes and metrics
// are not access-logged; the bridge logs its own connections.
func newRouter(d routeDeps) http.Handler {
	r := router.New[*router.Context](
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
		router.WithLogger[*router.Context](d.log),
	)
	r.Use(
		middleware.RequestID[*router.Context](),
		middleware.ClientIP[*router.Context](),
	)

	r.Get("/health/live", wrap(http.HandlerFunc(health.Liveness)))
	r.Get("/health/ready", wrap(health.Readiness(d.log, d.readyTimeout, d.checks...)))
	r.Get("/metrics", wrap(d.metrics))

	logged := r.With(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
		Logger:    d.log,
		Level:     slog.LevelInfo,
		Component: "http",
	}))
	logged.Get("/ws", wrap(d.bridge))
	logged.Get("/api/sessions/{id}/page-views", listPageViews(d.records, d.maxPageViews, d.log))

	return r
}
