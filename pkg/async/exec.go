package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Future is the outcome of an asynchronous operation that only returns an error.
type Future struct {
	err  error
	once sync.Once
	done chan struct{}
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Resolved returns a Future that is already complete with err.
func Resolved(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

// Await blocks until the operation completes and returns its error.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout waits at most timeout for completion.
// Returns ErrTimeout if the operation is still running.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-f.done:
		return f.err
	case <-t.C:
		return ErrTimeout
	}
}

// Done returns a channel closed when the operation completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the operation has finished without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

type execOptions struct {
	timeout time.Duration
	onDone  []func(error)
}

// ExecOption configures a single Exec call.
type ExecOption func(*execOptions)

// WithTimeout bounds the operation. The context passed to fn is cancelled after d and the
// Future resolves with ErrTimeout joined with the context error. Zero disables the bound.
func WithTimeout(d time.Duration) ExecOption {
	return func(o *execOptions) {
		o.timeout = d
	}
}

// OnDone registers a callback invoked with the final error on the worker goroutine,
// before the Future resolves. Both success and failure reach it. May be given more than once.
func OnDone(fn func(error)) ExecOption {
	return func(o *execOptions) {
		o.onDone = append(o.onDone, fn)
	}
}

// Exec runs fn(ctx, param) on a new goroutine and returns immediately.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error, opts ...ExecOption) *Future {
	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}

	f := newFuture()

	go func() {
		err := run(ctx, param, fn, o.timeout)
		for _, cb := range o.onDone {
			cb(err)
		}
		f.resolve(err)
	}()

	return f
}

func run[T any](ctx context.Context, param T, fn func(context.Context, T) error, timeout time.Duration) (err error) {
	// Pre-cancelled contexts never start the operation.
	if err := ctx.Err(); err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(ErrPanic, fmt.Errorf("%v", r))
		}
	}()

	err = fn(ctx, param)
	if err != nil && timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}

// ExecAll waits for every future and returns the first non-nil error in argument order.
func ExecAll(futures ...*Future) error {
	var first error
	for _, f := range futures {
		if err := f.Await(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ExecAny waits for the first future to complete and returns its index and error.
func ExecAny(futures ...*Future) (int, error) {
	if len(futures) == 0 {
		return -1, ErrNoFutures
	}

	type result struct {
		index int
		err   error
	}
	done := make(chan result, len(futures))

	for i, f := range futures {
		go func(index int, f *Future) {
			done <- result{index, f.Await()}
		}(i, f)
	}

	res := <-done
	return res.index, res.err
}
