package analytics

import (
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/pkg/async"
)

// Event types and names recorded by the tracker itself and by the wrappers below.
const (
	EventTypeClick  = "click"
	EventTypeScroll = "scroll"
	EventTypeMenu   = "menu"
	EventTypeOrder  = "order"
	EventTypeSearch = "search"

	EventLinkClick     = "link_click"
	EventButtonClick   = "button_click"
	EventScrollDepth   = "scroll_depth"
	EventMenuItemClick = "item_click"
	EventOrderStart    = "order_start"
	EventOrderComplete = "order_complete"
	EventSearchQuery   = "search_query"
)

// TrackEvent records one event against the active session and the open page.
// metadata is copied. Resolves with ErrNotTracking while stopped.
func (t *Tracker) TrackEvent(eventType, eventName string, metadata map[string]any) *async.Future {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running || t.session == nil {
		return async.Resolved(ErrNotTracking)
	}

	pagePath := ""
	if t.page != nil {
		pagePath = t.page.path
	}

	t.observer.ObserveEvent(eventType, eventName)
	t.log.Debug("event", logger.Event(eventType+"/"+eventName), logger.SessionID(t.session.id))

	return t.insert(TableEvents, recordstore.Record{
		"session_id": t.session.id,
		"event_type": eventType,
		"event_name": eventName,
		"page_path":  pagePath,
		"metadata":   cloneMetadata(metadata),
		"created_at": t.now().UTC(),
	})
}

// TrackMenuItem records interaction with a menu item.
func (t *Tracker) TrackMenuItem(itemName, category string) *async.Future {
	return t.TrackEvent(EventTypeMenu, EventMenuItemClick, map[string]any{
		"item_name": itemName,
		"category":  category,
	})
}

// TrackOrderStart records the start of an order, for example "takeaway" or "delivery".
func (t *Tracker) TrackOrderStart(orderType string) *async.Future {
	return t.TrackEvent(EventTypeOrder, EventOrderStart, map[string]any{
		"order_type": orderType,
	})
}

// TrackOrderComplete records a completed order.
func (t *Tracker) TrackOrderComplete(orderID string, total float64, items int) *async.Future {
	return t.TrackEvent(EventTypeOrder, EventOrderComplete, map[string]any{
		"order_id": orderID,
		"total":    total,
		"items":    items,
	})
}

// TrackSearch records a search and the number of results shown.
func (t *Tracker) TrackSearch(query string, results int) *async.Future {
	return t.TrackEvent(EventTypeSearch, EventSearchQuery, map[string]any{
		"query":   query,
		"results": results,
	})
}
