// Package analytics records visitor sessions, page views and interaction events for a
// browser context and mirrors them to a remote record store.
//
// A Tracker is an explicit service object: the host builds one at bootstrap, calls Start
// once tracking is allowed (for example after consent) and Stop on withdrawal or teardown.
// Tracking never blocks or fails the host. Every tracking call returns an *async.Future the
// caller may ignore; failures are logged and surface only as missing rows.
//
//	tr := analytics.New(browser, localStore, recordStore,
//		analytics.WithLogger(log),
//		analytics.WithObserver(metrics),
//	)
//	if err := tr.Start(ctx); err != nil {
//		log.Warn("analytics disabled", logger.Error(err))
//	}
//	defer tr.Stop(context.Background())
//
//	tr.TrackOrderComplete("ord_42", 349.0, 3)
//
// # Browser context
//
// Browser supplies the ambient reads (user agent, screen, language, referrer, location).
// When it also implements EventSource, clicks, scrolls and history navigation are tracked
// without further instrumentation. When it implements RouteNotifier, route changes come from
// that hook; otherwise the location is polled every Config.PollInterval.
//
// A nil Browser is a non-browser context: Start reports ErrNoBrowser and everything is a no-op.
// A nil record store leaves the tracker degraded: Start reports ErrNoStore.
//
// # Sessions
//
// The session blob lives in local storage under Config.SessionKey and is reused while
// now - lastActivity < Config.SessionTimeout. A heartbeat keeps it alive and mirrors
// last_activity and session_duration to the sessions table.
//
// # Ordering
//
// Remote writes of one Tracker run in the order they were issued, each bounded by
// Config.RequestTimeout. Page views carry a generated id and are closed by that id.
package analytics
