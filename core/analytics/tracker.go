package analytics

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/moi-restaurants/tracker/core/localstore"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/pkg/async"
	"github.com/moi-restaurants/tracker/pkg/debounce"
)

// Tracker owns the session, page view and listener state of one browser context.
// All methods are safe for concurrent use.
type Tracker struct {
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
	observer Observer

	browser Browser
	local   localstore.Store
	records recordstore.Store
	info    UserInfo

	writes async.Queue

	mu          sync.Mutex
	running     bool
	baseCtx     context.Context
	stopLoops   context.CancelFunc
	loops       *sync.WaitGroup
	session     *sessionState
	page        *pageView
	unsubscribe []func()
	scroll      *debounce.Func[ScrollPosition]
	popTimer    *time.Timer
}

// New builds a stopped Tracker. browser may be nil outside a browser context; a nil local
// store falls back to process memory; a nil record store leaves the tracker degraded.
func New(browser Browser, local localstore.Store, records recordstore.Store, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:      DefaultConfig(),
		log:      logger.Discard(),
		now:      time.Now,
		observer: nopObserver{},
		browser:  browser,
		local:    local,
		records:  records,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.local == nil {
		t.local = localstore.NewMemory()
	}
	t.log = t.log.With(logger.Component("analytics"))
	t.info = ProbeEnvironment(browser)
	return t
}

// Start resumes or creates the session, starts the heartbeat, attaches listeners and
// records the landing page. Calling Start while running is a no-op.
//
// ctx supplies values for background work; its cancellation does not stop tracking.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return nil
	}
	if t.browser == nil {
		t.log.Debug("tracking skipped outside a browser context")
		return ErrNoBrowser
	}
	if t.records == nil {
		t.log.Warn("tracking disabled: record store is not configured")
		return ErrNoStore
	}

	t.baseCtx = context.WithoutCancel(ctx)
	t.initializeSession()
	t.running = true

	loopCtx, cancel := context.WithCancel(t.baseCtx)
	t.stopLoops = cancel
	t.loops = &sync.WaitGroup{}
	if t.cfg.HeartbeatInterval > 0 {
		t.every(loopCtx, t.cfg.HeartbeatInterval, t.heartbeat)
	}
	t.attachListeners(loopCtx)

	t.log.Info("tracking started",
		logger.SessionID(t.session.id),
		slog.Bool("returning", t.session.returning),
	)

	t.trackPageViewLocked(t.browser.Location().Path)
	return nil
}

// Stop closes the open page view, marks the session inactive, detaches listeners and waits
// up to Config.FlushTimeout (or ctx) for pending writes. Calling Stop while stopped is a no-op.
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}

	t.running = false
	t.stopLoops()
	loops := t.loops
	t.detachListenersLocked()

	now := t.now()
	t.endPageViewLocked(now)

	s := t.session
	s.lastActivity = now
	t.persistSessionLocked()
	t.enqueueSessionUpdate(recordstore.Record{
		"is_active":        false,
		"ended_at":         now.UTC(),
		"last_activity":    now.UTC(),
		"session_duration": wholeSeconds(now.Sub(s.startTime)),
	})
	t.session = nil
	t.mu.Unlock()

	loops.Wait()
	t.log.Info("tracking stopped", logger.SessionID(s.id), logger.Count("page_views", s.pageViews))

	if t.cfg.FlushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.FlushTimeout)
		defer cancel()
	}
	return t.Flush(ctx)
}

// Flush blocks until every write issued so far has completed or ctx is done.
func (t *Tracker) Flush(ctx context.Context) error {
	if err := t.writes.Wait(ctx); err != nil {
		t.log.Warn("pending analytics writes abandoned", logger.Error(err))
		return errors.Join(ErrFlushTimeout, err)
	}
	return nil
}

// Running reports whether tracking is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Session returns a snapshot of the active session.
func (t *Tracker) Session() (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return Session{}, false
	}
	return t.session.snapshot(), true
}

// CurrentPage returns a snapshot of the open page view.
func (t *Tracker) CurrentPage() (PageView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.page == nil {
		return PageView{}, false
	}
	return PageView{ID: t.page.id, Path: t.page.path, StartTime: t.page.start}, true
}

// UserInfo returns the environment classified at construction.
func (t *Tracker) UserInfo() UserInfo {
	return t.info
}

// every runs fn on each tick of d until ctx is done.
func (t *Tracker) every(ctx context.Context, d time.Duration, fn func()) {
	t.loops.Add(1)
	go func() {
		defer t.loops.Done()
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// write queues a remote write. Must be called with t.mu held so the queue order matches
// the state transitions.
func (t *Tracker) write(table, op string, fn func(context.Context) error) *async.Future {
	start := time.Now()
	return t.writes.Go(t.baseCtx, fn,
		async.WithTimeout(t.cfg.RequestTimeout),
		async.OnDone(func(err error) {
			elapsed := time.Since(start)
			t.observer.ObserveWrite(table, op, elapsed, err)
			if err != nil {
				t.log.Warn("analytics write failed",
					logger.Table(table),
					logger.Action(op),
					logger.Duration(elapsed),
					logger.Error(err),
				)
				return
			}
			t.log.Debug("analytics write", logger.Table(table), logger.Action(op), logger.Duration(elapsed))
		}),
	)
}

func (t *Tracker) insert(table string, rec recordstore.Record) *async.Future {
	return t.write(table, OpInsert, func(ctx context.Context) error {
		return t.records.Insert(ctx, table, rec)
	})
}

func (t *Tracker) update(table string, filter []recordstore.Condition, patch recordstore.Record) *async.Future {
	return t.write(table, OpUpdate, func(ctx context.Context) error {
		return t.records.Update(ctx, table, filter, patch)
	})
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
