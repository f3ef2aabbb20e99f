// Package async runs error-only operations off the caller's goroutine and hands back a
// Future the caller may ignore.
//
// It is built for fire-and-forget work such as analytics writes: the caller is never
// blocked, panics inside the operation are recovered into ErrPanic, and an optional timeout
// bounds each operation so a hung call cannot pend forever.
//
// # Usage
//
//	future := async.Exec(ctx, rec, func(ctx context.Context, rec Record) error {
//		return store.Insert(ctx, "events", rec)
//	}, async.WithTimeout(10*time.Second))
//
//	// Fire and forget...
//	_ = future
//
//	// ...or wait for the outcome.
//	if err := future.Await(); err != nil {
//		log.Printf("write failed: %v", err)
//	}
//
// Resolved returns an already completed Future, which lets APIs return one uniformly even
// when the operation was skipped:
//
//	if !running {
//		return async.Resolved(ErrNotTracking)
//	}
//
// # Tracking in-flight work
//
// A Queue runs operations one at a time in submission order, so writes that depend on each
// other (insert a row, then update it) land in the order they were issued. Wait lets an owner
// drain outstanding operations before shutting down:
//
//	var q async.Queue
//	q.Go(ctx, func(ctx context.Context) error { return store.Insert(ctx, "sessions", rec) })
//	q.Go(ctx, func(ctx context.Context) error { return store.Update(ctx, "sessions", filter, patch) })
//	q.Wait(context.Background())
//
// # Errors
//
//   - ErrTimeout: AwaitWithTimeout gave up, or the operation exceeded WithTimeout
//   - ErrPanic: the operation panicked; the panic value is joined into the error
//   - ErrNoFutures: ExecAny was called without futures
package async
