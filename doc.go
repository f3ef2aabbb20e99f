// Package tracker records visitor sessions, page views and interactions of a restaurant
// website and writes them to a remote table store.
//
// The module is organised the same way throughout:
//
//	core/analytics        the Tracker: sessions, page views, events, DOM listeners
//	core/localstore       browser localStorage analogue (memory, JSON file)
//	core/recordstore      remote table store contract and an in-memory implementation
//	core/config, logger   environment configuration and slog setup
//	core/server, health   HTTP lifecycle and probes
//	pkg/...               standalone helpers (async futures, debounce, user agent parsing)
//	integration/...       PostgREST, PostgreSQL, MongoDB, Redis, Prometheus, WebSocket bridge
//	cmd/beacon            the bridge service
//
// Embedding the tracker in a Go host that already has a browser context:
//
//	t := analytics.New(browser, localstore.NewMemory(), records,
//		analytics.WithLogger(log),
//	)
//	if err := t.Start(ctx); err != nil {
//		log.Warn("analytics disabled", logger.Error(err))
//	}
//	defer t.Stop(context.Background())
//
//	t.TrackMenuItem("Margherita", "pizza")
package tracker
