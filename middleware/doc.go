// Package middleware holds the HTTP middleware the beacon service runs in front of its
// routes: request ids, client address resolution and access logging.
//
//	r := router.New[*router.Context]()
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.ClientIP[*router.Context](),
//	)
//	api := r.With(middleware.LoggingWithLogger[*router.Context](log))
//	api.Get("/api/sessions/{id}/page-views", listPageViews)
package middleware
