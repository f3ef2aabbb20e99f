package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/pkg/debounce"
)

type recorder struct {
	mu    sync.Mutex
	calls []int
}

func (r *recorder) record(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

func TestFunc_Call(t *testing.T) {
	t.Parallel()

	t.Run("collapses a burst into one trailing call with the last value", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		d := debounce.New(30*time.Millisecond, rec.record)

		for i := 1; i <= 5; i++ {
			d.Call(i)
			time.Sleep(5 * time.Millisecond)
		}

		require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, []int{5}, rec.snapshot())
		assert.False(t, d.Pending())
	})

	t.Run("separate bursts fire separately", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		d := debounce.New(10*time.Millisecond, rec.record)

		d.Call(1)
		require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 2*time.Millisecond)
		d.Call(2)
		require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 2*time.Millisecond)

		assert.Equal(t, []int{1, 2}, rec.snapshot())
	})
}

func TestFunc_Cancel(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := debounce.New(20*time.Millisecond, rec.record)

	d.Call(1)
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestFunc_Flush(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := debounce.New(time.Hour, rec.record)

	assert.False(t, d.Flush())

	d.Call(7)
	assert.True(t, d.Flush())
	assert.Equal(t, []int{7}, rec.snapshot())
	assert.False(t, d.Flush())
}
