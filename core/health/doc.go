// Package health provides HTTP handlers for liveness and readiness probes.
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log, 2*time.Second,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	))
package health
