// Command beacon serves the browser bridge: page scripts connect over WebSocket and
// their sessions, page views and interactions are written to the configured store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/config"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/server"
	"github.com/moi-restaurants/tracker/integration/beacon"
	trackerprom "github.com/moi-restaurants/tracker/integration/metrics/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	preset := logger.WithDevelopment(cfg.AppName)
	if cfg.AppEnv == "production" {
		preset = logger.WithProduction(cfg.AppName)
	}
	log := logger.New(preset, logger.WithLevel(logger.Level(cfg.LogLevel)))

	startCtx, cancel := context.WithTimeout(ctx, cfg.StartupTimeout)
	stores, err := openBackends(startCtx, cfg, log)
	cancel()
	if err != nil {
		log.Error("Failed to open stores",
			logger.Component("storage"),
			logger.Action(cfg.RecordStore+"/"+cfg.LocalStore),
			logger.Error(err),
		)
		os.Exit(1)
	}
	defer stores.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := trackerprom.NewObserver(reg)
	if err != nil {
		log.Error("Failed to register metrics", logger.Component("metrics"), logger.Error(err))
		os.Exit(1)
	}

	bridge := beacon.NewHandler(cfg.Beacon, stores.local, stores.records,
		beacon.WithLogger(log),
		beacon.WithConnectionObserver(metrics),
		beacon.WithTrackerOptions(
			analytics.WithConfig(cfg.Analytics),
			analytics.WithObserver(metrics),
		),
	)

	routes := newRouter(routeDeps{
		log:          log,
		bridge:       bridge,
		metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		records:      stores.records,
		checks:       stores.checks,
		readyTimeout: cfg.ReadyTimeout,
		maxPageViews: cfg.MaxPageViews,
	})

	srv, err := server.NewFromConfig(cfg.Server,
		server.WithLogger(log.With(logger.Component("server"))),
		server.WithShutdownHook(bridge.Shutdown),
	)
	if err != nil {
		log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(ctx, routes))

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}
