package analytics

// Screen is the display size in CSS pixels.
type Screen struct {
	Width  int
	Height int
}

// Location is the current document location.
type Location struct {
	Origin string // scheme://host[:port]
	Path   string // pathname, always starting with "/"
}

// Browser is the ambient state of one browser context.
// Implementations must be safe for concurrent use.
type Browser interface {
	UserAgent() string
	Screen() Screen
	Language() string
	Referrer() string
	Location() Location
}

// Element is a DOM node as seen by the click listener.
type Element struct {
	Tag    string // lower case tag name
	ID     string
	Class  string
	Text   string // text content
	Href   string // resolved href for anchors
	Parent *Element
}

// ClickEvent is a click on Target.
type ClickEvent struct {
	Target *Element
}

// ScrollPosition is the viewport state after a scroll.
type ScrollPosition struct {
	Top            float64
	DocumentHeight float64
	ViewportHeight float64
}

// Handlers receive DOM activity. Nil fields are never called.
type Handlers struct {
	Click    func(ClickEvent)
	Scroll   func(ScrollPosition)
	PopState func()
}

// EventSource is implemented by a Browser that can report DOM activity.
//
// Subscribe must not invoke handlers before it returns, and the returned function
// detaches them.
type EventSource interface {
	Subscribe(h Handlers) (unsubscribe func())
}

// RouteNotifier is implemented by a Browser whose router reports navigations.
// When present it replaces location polling.
type RouteNotifier interface {
	OnRouteChange(fn func(path string)) (unsubscribe func())
}
