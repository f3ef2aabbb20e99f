// Package server runs an http.Server with graceful shutdown.
//
// Run returns a function suited to errgroup:
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(20*time.Second),
//		server.WithShutdownHook(bridge.Shutdown),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	return g.Wait()
//
// On cancellation the listener stops and in-flight requests drain, then shutdown hooks
// run in registration order under the same deadline. Hooks cover connections the
// http.Server stops tracking once hijacked, such as WebSockets.
//
// Request contexts do not inherit the cancellation of the context passed to Start, so
// handlers keep working while shutdown drains them.
package server
