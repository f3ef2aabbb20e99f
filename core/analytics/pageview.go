package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/pkg/async"
)

type pageView struct {
	id    string
	path  string
	start time.Time
}

// TrackPageView closes the open page view and opens one for path. Repeating the open path
// is a no-op, so overlapping navigation signals count once. The returned future completes
// with the insert of the new page view.
func (t *Tracker) TrackPageView(path string) *async.Future {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trackPageViewLocked(path)
}

func (t *Tracker) trackPageViewLocked(path string) *async.Future {
	if !t.running || t.session == nil {
		return async.Resolved(ErrNotTracking)
	}

	path = normalizePath(path)
	if t.page != nil && t.page.path == path {
		return async.Resolved(nil)
	}

	now := t.now()
	referrer := t.browser.Referrer()
	if t.page != nil {
		referrer = t.page.path
	}
	t.endPageViewLocked(now)

	view := &pageView{id: uuid.NewString(), path: path, start: now}
	t.page = view

	s := t.session
	s.pageViews++
	s.isBounce = s.pageViews <= 1
	s.lastActivity = now
	t.persistSessionLocked()

	future := t.insert(TablePageViews, recordstore.Record{
		"id":         view.id,
		"session_id": s.id,
		"page_path":  path,
		"referrer":   referrer,
		"created_at": now.UTC(),
	})
	t.enqueueSessionUpdate(recordstore.Record{
		"page_views":    s.pageViews,
		"is_bounce":     s.isBounce,
		"last_activity": now.UTC(),
	})

	t.log.Debug("page view", logger.SessionID(s.id), logger.Path(path), logger.Count("page_views", s.pageViews))
	return future
}

// EndCurrentPageView closes the open page view, recording its time on page.
// It is a no-op when no page view is open.
func (t *Tracker) EndCurrentPageView() *async.Future {
	t.mu.Lock()
	defer t.mu.Unlock()

	future := t.endPageViewLocked(t.now())
	if future == nil {
		return async.Resolved(nil)
	}
	return future
}

// endPageViewLocked returns nil when no page view was open.
func (t *Tracker) endPageViewLocked(now time.Time) *async.Future {
	view := t.page
	if view == nil {
		return nil
	}
	t.page = nil

	seconds := wholeSeconds(now.Sub(view.start))
	t.log.Debug("page view ended", logger.Path(view.path), logger.Duration(now.Sub(view.start)))

	return t.update(TablePageViews,
		[]recordstore.Condition{recordstore.Eq("id", view.id)},
		recordstore.Record{
			"ended_at":     now.UTC(),
			"time_on_page": seconds,
		},
	)
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
