package debounce

import (
	"sync"
	"time"
)

// Func is a cancelable trailing-edge debounced callback.
type Func[T any] struct {
	mu      sync.Mutex
	wait    time.Duration
	fn      func(T)
	timer   *time.Timer
	pending bool
	last    T
	seq     uint64
}

// New returns a Func that invokes fn with the latest value once wait has passed without a
// new Call.
func New[T any](wait time.Duration, fn func(T)) *Func[T] {
	return &Func[T]{wait: wait, fn: fn}
}

// Call records v and restarts the quiet period.
func (d *Func[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = v
	d.pending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(seq) })
}

// fire runs the callback unless a newer Call, Cancel or Flush superseded this timer.
func (d *Func[T]) fire(seq uint64) {
	d.mu.Lock()
	if !d.pending || seq != d.seq {
		d.mu.Unlock()
		return
	}
	v := d.last
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Cancel drops the pending invocation, if any.
func (d *Func[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.seq++
}

// Flush runs the pending invocation now. Reports whether one was pending.
func (d *Func[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.last
	d.pending = false
	d.seq++
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Func[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
