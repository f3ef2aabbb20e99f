package analytics

import "time"

// Remote tables.
const (
	TableSessions  = "sessions"
	TablePageViews = "page_views"
	TableEvents    = "events"
)

// Local storage keys.
const (
	DefaultSessionKey = "moi_analytics_session"
	DefaultVisitedKey = "moi_has_visited"
)

// UserInfo is the classified browser environment, computed once per Tracker.
type UserInfo struct {
	UserAgent        string
	DeviceType       string
	Browser          string
	OS               string
	ScreenResolution string
	Language         string
	// IsBot marks crawler user agents. DeviceType stays within desktop, mobile and tablet.
	IsBot bool
}

// Session is a snapshot of the active session.
type Session struct {
	ID           string
	StartTime    time.Time
	LastActivity time.Time
	PageViews    int
	IsBounce     bool
	IsReturning  bool
}

// PageView is a snapshot of the open page view.
type PageView struct {
	ID        string
	Path      string
	StartTime time.Time
}

// storedSession is the JSON blob kept in local storage. Times are ms since epoch.
type storedSession struct {
	SessionID    string `json:"sessionId"`
	StartTime    int64  `json:"startTime"`
	LastActivity int64  `json:"lastActivity"`
	PageViews    int    `json:"pageViews"`
	IsBounce     bool   `json:"isBounce"`
}
