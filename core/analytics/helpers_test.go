package analytics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/localstore"
	"github.com/moi-restaurants/tracker/core/recordstore"
)

const (
	iPhoneUA    = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	iPadUA      = "Mozilla/5.0 (iPad; CPU OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1"
	desktopUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

var baseTime = time.Date(2026, 5, 17, 18, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: baseTime} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeBrowser is a Browser and EventSource.
type fakeBrowser struct {
	mu       sync.Mutex
	ua       string
	lang     string
	referrer string
	screen   analytics.Screen
	loc      analytics.Location
	handlers *analytics.Handlers
}

func newFakeBrowser(path string) *fakeBrowser {
	return &fakeBrowser{
		ua:       desktopUA,
		lang:     "nb-NO",
		referrer: "https://www.google.com/",
		screen:   analytics.Screen{Width: 1920, Height: 1080},
		loc:      analytics.Location{Origin: "https://moi.no", Path: path},
	}
}

func (b *fakeBrowser) UserAgent() string         { return b.ua }
func (b *fakeBrowser) Screen() analytics.Screen  { return b.screen }
func (b *fakeBrowser) Language() string          { return b.lang }
func (b *fakeBrowser) Referrer() string          { return b.referrer }
func (b *fakeBrowser) Location() analytics.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loc
}

func (b *fakeBrowser) Subscribe(h analytics.Handlers) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = &h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers = nil
	}
}

func (b *fakeBrowser) navigate(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loc.Path = path
}

func (b *fakeBrowser) current() *analytics.Handlers {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handlers
}

func (b *fakeBrowser) subscribed() bool { return b.current() != nil }

func (b *fakeBrowser) click(target *analytics.Element) {
	if h := b.current(); h != nil && h.Click != nil {
		h.Click(analytics.ClickEvent{Target: target})
	}
}

func (b *fakeBrowser) scroll(pos analytics.ScrollPosition) {
	if h := b.current(); h != nil && h.Scroll != nil {
		h.Scroll(pos)
	}
}

func (b *fakeBrowser) popState() {
	if h := b.current(); h != nil && h.PopState != nil {
		h.PopState()
	}
}

// plainBrowser exposes only the Browser reads, so the tracker falls back to polling.
type plainBrowser struct{ b *fakeBrowser }

func (p plainBrowser) UserAgent() string            { return p.b.UserAgent() }
func (p plainBrowser) Screen() analytics.Screen     { return p.b.Screen() }
func (p plainBrowser) Language() string             { return p.b.Language() }
func (p plainBrowser) Referrer() string             { return p.b.Referrer() }
func (p plainBrowser) Location() analytics.Location { return p.b.Location() }

// routerBrowser reports route changes through a hook.
type routerBrowser struct {
	*fakeBrowser
	hookMu sync.Mutex
	hook   func(string)
}

func (r *routerBrowser) OnRouteChange(fn func(string)) func() {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.hook = fn
	return func() {
		r.hookMu.Lock()
		defer r.hookMu.Unlock()
		r.hook = nil
	}
}

func (r *routerBrowser) route(path string) {
	r.navigate(path)
	r.hookMu.Lock()
	hook := r.hook
	r.hookMu.Unlock()
	if hook != nil {
		hook(path)
	}
}

type storeOp struct {
	kind   string
	table  string
	filter []recordstore.Condition
	rec    recordstore.Record
}

// recordingStore logs every call before delegating to an in-memory store.
type recordingStore struct {
	*recordstore.Memory
	mu  sync.Mutex
	log []storeOp
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Memory: recordstore.NewMemory()}
}

func (s *recordingStore) Insert(ctx context.Context, table string, rec recordstore.Record) error {
	s.record(storeOp{kind: analytics.OpInsert, table: table, rec: rec})
	return s.Memory.Insert(ctx, table, rec)
}

func (s *recordingStore) Update(ctx context.Context, table string, filter []recordstore.Condition, patch recordstore.Record) error {
	s.record(storeOp{kind: analytics.OpUpdate, table: table, filter: filter, rec: patch})
	return s.Memory.Update(ctx, table, filter, patch)
}

func (s *recordingStore) record(op storeOp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, op)
}

func (s *recordingStore) ops(kind, table string) []storeOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storeOp
	for _, op := range s.log {
		if op.kind == kind && op.table == table {
			out = append(out, op)
		}
	}
	return out
}

func (s *recordingStore) rows(t *testing.T, table string, filter ...recordstore.Condition) []recordstore.Record {
	t.Helper()
	rows, err := s.Select(context.Background(), table, recordstore.Query{
		Filter: filter,
		Order:  &recordstore.Order{Column: "created_at"},
	})
	if err != nil {
		t.Fatalf("select %s: %v", table, err)
	}
	return rows
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Insert(ctx context.Context, table string, rec recordstore.Record) error {
	return m.Called(ctx, table, rec).Error(0)
}

func (m *mockStore) Update(ctx context.Context, table string, filter []recordstore.Condition, patch recordstore.Record) error {
	return m.Called(ctx, table, filter, patch).Error(0)
}

func (m *mockStore) Select(ctx context.Context, table string, q recordstore.Query) ([]recordstore.Record, error) {
	args := m.Called(ctx, table, q)
	rows, _ := args.Get(0).([]recordstore.Record)
	return rows, args.Error(1)
}

// newTestTracker builds a tracker with timers disabled or shortened, stopped on cleanup.
func newTestTracker(t *testing.T, b analytics.Browser, local localstore.Store, store recordstore.Store, opts ...analytics.Option) *analytics.Tracker {
	t.Helper()

	base := []analytics.Option{
		analytics.WithHeartbeatInterval(0),
		analytics.WithPollInterval(0),
		analytics.WithScrollDebounce(10 * time.Millisecond),
		analytics.WithPopStateDelay(5 * time.Millisecond),
		analytics.WithRequestTimeout(time.Second),
		analytics.WithFlushTimeout(time.Second),
	}
	tr := analytics.New(b, local, store, append(base, opts...)...)
	t.Cleanup(func() { _ = tr.Stop(context.Background()) })
	return tr
}
