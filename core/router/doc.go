// Package router is a small typed router over http.ServeMux.
//
// Handlers receive a handler.Context and return a handler.Response; errors returned while
// rendering, unknown paths, unsupported methods and panics all go to one error handler.
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/api/sessions/{id}/page-views", func(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"session_id": ctx.Param("id")})
//	})
//	http.ListenAndServe(":8080", r)
//
// Patterns follow net/http wildcard syntax without a method prefix; the method comes from
// Get, Post and friends. A HEAD request falls back to the GET handler. A 405 carries an
// Allow header listing the registered methods.
//
// Middleware added with Use runs for every route and must be added before routes.
// With and Group derive inline routers whose middleware runs only for their own routes.
//
// The response writer passed to handlers supports http.Flusher and http.Hijacker, so
// WebSocket upgrades work through the router.
package router
