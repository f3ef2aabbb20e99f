package analytics

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"math"
	"strconv"
	"time"

	"github.com/moi-restaurants/tracker/core/localstore"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/pkg/async"
)

const (
	sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	sessionIDSuffix   = 9
	// Largest multiple of len(sessionIDAlphabet) that fits in a byte.
	sessionIDCutoff = 252
)

type sessionState struct {
	id           string
	startTime    time.Time
	lastActivity time.Time
	pageViews    int
	isBounce     bool
	returning    bool
}

func (s *sessionState) snapshot() Session {
	return Session{
		ID:           s.id,
		StartTime:    s.startTime,
		LastActivity: s.lastActivity,
		PageViews:    s.pageViews,
		IsBounce:     s.isBounce,
		IsReturning:  s.returning,
	}
}

// initializeSession reuses the stored session while it is fresh and creates one otherwise.
// Must be called with t.mu held.
func (t *Tracker) initializeSession() {
	now := t.now()

	if stored, ok := t.loadStoredSession(); ok && now.Sub(time.UnixMilli(stored.LastActivity).UTC()) < t.cfg.SessionTimeout {
		t.session = &sessionState{
			id:           stored.SessionID,
			startTime:    time.UnixMilli(stored.StartTime).UTC(),
			lastActivity: now,
			pageViews:    stored.PageViews,
			isBounce:     stored.IsBounce,
			returning:    t.localGet(t.cfg.VisitedKey) == "true",
		}
		t.persistSessionLocked()
		// A previous Stop marked the row ended; tracking continues on it.
		t.enqueueSessionUpdate(recordstore.Record{
			"is_active":     true,
			"ended_at":      nil,
			"last_activity": now.UTC(),
		})
		t.observer.ObserveSession(SessionResumed)
		t.log.Debug("session resumed", logger.SessionID(stored.SessionID))
		return
	}

	returning := t.localGet(t.cfg.VisitedKey) == "true"
	if !returning {
		t.localSet(t.cfg.VisitedKey, "true")
	}

	t.session = &sessionState{
		id:           newSessionID(now),
		startTime:    now,
		lastActivity: now,
		isBounce:     true,
		returning:    returning,
	}
	t.persistSessionLocked()

	loc := t.browser.Location()
	t.insert(TableSessions, recordstore.Record{
		"session_id":        t.session.id,
		"user_agent":        t.info.UserAgent,
		"device_type":       t.info.DeviceType,
		"browser":           t.info.Browser,
		"os":                t.info.OS,
		"screen_resolution": t.info.ScreenResolution,
		"language":          t.info.Language,
		"referrer":          t.browser.Referrer(),
		"landing_page":      normalizePath(loc.Path),
		"is_returning":      returning,
		"page_views":        0,
		"is_bounce":         true,
		"is_active":         true,
		"started_at":        now.UTC(),
		"last_activity":     now.UTC(),
	})

	kind := SessionNew
	if returning {
		kind = SessionReturning
	}
	t.observer.ObserveSession(kind)
	t.log.Debug("session created", logger.SessionID(t.session.id), slog.Bool("returning", returning))
}

// heartbeat keeps the session alive locally and remotely.
func (t *Tracker) heartbeat() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || t.session == nil {
		return
	}

	now := t.now()
	t.session.lastActivity = now
	t.persistSessionLocked()
	t.enqueueSessionUpdate(recordstore.Record{
		"last_activity":    now.UTC(),
		"session_duration": wholeSeconds(now.Sub(t.session.startTime)),
	})
}

// UpdateSession pushes patch to the active session's row. The patch is copied.
func (t *Tracker) UpdateSession(patch map[string]any) *async.Future {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || t.session == nil {
		return async.Resolved(ErrNotTracking)
	}
	if len(patch) == 0 {
		return async.Resolved(nil)
	}
	return t.enqueueSessionUpdate(maps.Clone(patch))
}

// Must be called with t.mu held and t.session set.
func (t *Tracker) enqueueSessionUpdate(patch recordstore.Record) *async.Future {
	return t.update(TableSessions,
		[]recordstore.Condition{recordstore.Eq("session_id", t.session.id)},
		patch,
	)
}

// Must be called with t.mu held and t.session set.
func (t *Tracker) persistSessionLocked() {
	s := t.session
	raw, err := json.Marshal(storedSession{
		SessionID:    s.id,
		StartTime:    s.startTime.UnixMilli(),
		LastActivity: s.lastActivity.UnixMilli(),
		PageViews:    s.pageViews,
		IsBounce:     s.isBounce,
	})
	if err != nil {
		t.log.Error("encode session", logger.Error(err))
		return
	}
	t.localSet(t.cfg.SessionKey, string(raw))
}

func (t *Tracker) loadStoredSession() (storedSession, bool) {
	raw := t.localGet(t.cfg.SessionKey)
	if raw == "" {
		return storedSession{}, false
	}

	var s storedSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.SessionID == "" {
		t.log.Debug("ignoring unreadable stored session", logger.Error(err))
		return storedSession{}, false
	}
	return s, true
}

func (t *Tracker) localGet(key string) string {
	ctx, cancel := t.localContext()
	defer cancel()

	v, err := t.local.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			t.log.Warn("local storage read failed", slog.String("key", key), logger.Error(err))
		}
		return ""
	}
	return v
}

func (t *Tracker) localSet(key, value string) {
	ctx, cancel := t.localContext()
	defer cancel()

	if err := t.local.Set(ctx, key, value); err != nil {
		t.log.Warn("local storage write failed", slog.String("key", key), logger.Error(err))
	}
}

func (t *Tracker) localContext() (context.Context, context.CancelFunc) {
	base := t.baseCtx
	if base == nil {
		base = context.Background()
	}
	if t.cfg.RequestTimeout > 0 {
		return context.WithTimeout(base, t.cfg.RequestTimeout)
	}
	return context.WithCancel(base)
}

// newSessionID returns "<unix ms>-<9 base36 chars>".
func newSessionID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + randomBase36(sessionIDSuffix)
}

// randomBase36 draws n uniformly distributed characters from sessionIDAlphabet.
// Bytes at or above sessionIDCutoff are rejected so every character is equally likely.
func randomBase36(n int) string {
	out := make([]byte, 0, n)
	var buf [16]byte
	for len(out) < n {
		_, _ = rand.Read(buf[:])
		for _, c := range buf {
			if c >= sessionIDCutoff {
				continue
			}
			out = append(out, sessionIDAlphabet[int(c)%len(sessionIDAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}

func wholeSeconds(d time.Duration) int {
	return int(math.Round(max(d, 0).Seconds()))
}
