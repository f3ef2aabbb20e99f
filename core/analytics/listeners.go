package analytics

import (
	"context"
	"math"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/moi-restaurants/tracker/pkg/debounce"
)

// attachListeners subscribes to DOM activity and navigation. Must be called with t.mu held.
func (t *Tracker) attachListeners(loopCtx context.Context) {
	t.scroll = debounce.New(t.cfg.ScrollDebounce, t.recordScrollDepth)

	if es, ok := t.browser.(EventSource); ok {
		t.unsubscribe = append(t.unsubscribe, es.Subscribe(Handlers{
			Click:    t.handleClick,
			Scroll:   t.handleScroll,
			PopState: t.handlePopState,
		}))
	}

	if rn, ok := t.browser.(RouteNotifier); ok {
		t.unsubscribe = append(t.unsubscribe, rn.OnRouteChange(func(path string) {
			t.TrackPageView(path)
		}))
		return
	}
	if t.cfg.PollInterval > 0 {
		t.every(loopCtx, t.cfg.PollInterval, t.pollLocation)
	}
}

// Must be called with t.mu held.
func (t *Tracker) detachListenersLocked() {
	for _, unsub := range t.unsubscribe {
		if unsub != nil {
			unsub()
		}
	}
	t.unsubscribe = nil

	if t.scroll != nil {
		t.scroll.Cancel()
		t.scroll = nil
	}
	if t.popTimer != nil {
		t.popTimer.Stop()
		t.popTimer = nil
	}
}

func (t *Tracker) pollLocation() {
	// TrackPageView ignores the open path, so an unchanged location costs nothing remote.
	t.TrackPageView(t.browser.Location().Path)
}

func (t *Tracker) handlePopState() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	if t.popTimer != nil {
		t.popTimer.Stop()
	}
	t.popTimer = time.AfterFunc(t.cfg.PopStateDelay, func() {
		t.TrackPageView(t.browser.Location().Path)
	})
}

func (t *Tracker) handleScroll(pos ScrollPosition) {
	t.mu.Lock()
	scroll := t.scroll
	t.mu.Unlock()

	if scroll != nil {
		scroll.Call(pos)
	}
}

func (t *Tracker) recordScrollDepth(pos ScrollPosition) {
	depth, ok := scrollDepth(pos)
	if !ok {
		return
	}
	t.TrackEvent(EventTypeScroll, EventScrollDepth, map[string]any{"depth": depth})
}

// scrollDepth is the scrolled share of the scrollable height, in whole percent.
// Reports false outside (0, 100].
func scrollDepth(pos ScrollPosition) (int, bool) {
	scrollable := pos.DocumentHeight - pos.ViewportHeight
	if scrollable <= 0 {
		return 0, false
	}
	depth := int(math.Round(pos.Top / scrollable * 100))
	if depth <= 0 || depth > 100 {
		return 0, false
	}
	return depth, true
}

func (t *Tracker) handleClick(ev ClickEvent) {
	el := ev.Target
	for el != nil && el.Tag != "a" && el.Tag != "button" {
		el = el.Parent
	}
	if el == nil {
		return
	}

	text := truncateRunes(strings.TrimSpace(el.Text), t.cfg.MaxClickText)
	if el.Tag == "a" {
		t.TrackEvent(EventTypeClick, EventLinkClick, map[string]any{
			"href":        el.Href,
			"text":        text,
			"is_internal": sameOrigin(el.Href, t.browser.Location().Origin),
		})
		return
	}
	t.TrackEvent(EventTypeClick, EventButtonClick, map[string]any{
		"text":  text,
		"id":    el.ID,
		"class": el.Class,
	})
}

// sameOrigin reports whether href points at origin. Relative and protocol-relative
// hrefs on origin's host are same-origin.
func sameOrigin(href, origin string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return u.Scheme == ""
	}
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	scheme := u.Scheme
	if scheme == "" {
		// Protocol-relative "//host/path" inherits the page's scheme.
		scheme = o.Scheme
	}
	return strings.EqualFold(scheme, o.Scheme) && strings.EqualFold(u.Host, o.Host)
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
