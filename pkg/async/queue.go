package async

import (
	"context"
	"sync"
)

// Queue runs operations one at a time in submission order. Each operation's timeout starts
// when it begins executing, not when it is queued. The zero value is ready to use.
type Queue struct {
	mu   sync.Mutex
	tail *Future
	wg   sync.WaitGroup
}

// Go queues fn behind every previously queued operation and returns immediately.
func (q *Queue) Go(ctx context.Context, fn func(context.Context) error, opts ...ExecOption) *Future {
	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}

	f := newFuture()

	q.mu.Lock()
	prev := q.tail
	q.tail = f
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		if prev != nil {
			<-prev.done
		}

		err := run(ctx, fn, func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}, o.timeout)
		for _, cb := range o.onDone {
			cb(err)
		}
		f.resolve(err)
	}()

	return f
}

// Wait blocks until every queued operation completes or ctx is done.
// Returns ctx.Err() when it gave up first.
func (q *Queue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
