package analytics

import (
	"log/slog"
	"time"
)

// Default tuning values.
const (
	DefaultSessionTimeout    = 30 * time.Minute
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultPollInterval      = time.Second
	DefaultPopStateDelay     = 100 * time.Millisecond
	DefaultScrollDebounce    = time.Second
	DefaultRequestTimeout    = 10 * time.Second
	DefaultFlushTimeout      = 5 * time.Second
	DefaultMaxClickText      = 100
)

// Config holds tracker tuning with environment variable support.
type Config struct {
	// SessionTimeout is the inactivity window after which a stored session is replaced.
	SessionTimeout time.Duration `env:"ANALYTICS_SESSION_TIMEOUT" envDefault:"30m"`
	// HeartbeatInterval refreshes session liveness. Zero disables the heartbeat.
	HeartbeatInterval time.Duration `env:"ANALYTICS_HEARTBEAT_INTERVAL" envDefault:"30s"`
	// PollInterval is used only when the Browser has no RouteNotifier. Shorter intervals
	// detect client-side route changes sooner at the cost of more Location reads; a route
	// change can go unseen for up to one interval. Zero disables polling.
	PollInterval time.Duration `env:"ANALYTICS_POLL_INTERVAL" envDefault:"1s"`
	// PopStateDelay lets the URL settle after history navigation before it is read.
	PopStateDelay time.Duration `env:"ANALYTICS_POPSTATE_DELAY" envDefault:"100ms"`
	// ScrollDebounce is the quiet period before scroll depth is recorded.
	ScrollDebounce time.Duration `env:"ANALYTICS_SCROLL_DEBOUNCE" envDefault:"1s"`
	// RequestTimeout bounds every remote write.
	RequestTimeout time.Duration `env:"ANALYTICS_REQUEST_TIMEOUT" envDefault:"10s"`
	// FlushTimeout bounds how long Stop waits for pending writes.
	FlushTimeout time.Duration `env:"ANALYTICS_FLUSH_TIMEOUT" envDefault:"5s"`
	// MaxClickText caps the recorded text of clicked elements, in characters.
	MaxClickText int `env:"ANALYTICS_MAX_CLICK_TEXT" envDefault:"100"`

	SessionKey string `env:"ANALYTICS_SESSION_KEY" envDefault:"moi_analytics_session"`
	VisitedKey string `env:"ANALYTICS_VISITED_KEY" envDefault:"moi_has_visited"`
}

// DefaultConfig returns a Config with the default tuning.
func DefaultConfig() Config {
	return Config{
		SessionTimeout:    DefaultSessionTimeout,
		HeartbeatInterval: DefaultHeartbeatInterval,
		PollInterval:      DefaultPollInterval,
		PopStateDelay:     DefaultPopStateDelay,
		ScrollDebounce:    DefaultScrollDebounce,
		RequestTimeout:    DefaultRequestTimeout,
		FlushTimeout:      DefaultFlushTimeout,
		MaxClickText:      DefaultMaxClickText,
		SessionKey:        DefaultSessionKey,
		VisitedKey:        DefaultVisitedKey,
	}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithConfig replaces the whole tuning. Empty storage keys and a non-positive
// SessionTimeout or MaxClickText fall back to defaults.
func WithConfig(cfg Config) Option {
	return func(t *Tracker) {
		if cfg.SessionTimeout <= 0 {
			cfg.SessionTimeout = DefaultSessionTimeout
		}
		if cfg.MaxClickText <= 0 {
			cfg.MaxClickText = DefaultMaxClickText
		}
		if cfg.SessionKey == "" {
			cfg.SessionKey = DefaultSessionKey
		}
		if cfg.VisitedKey == "" {
			cfg.VisitedKey = DefaultVisitedKey
		}
		t.cfg = cfg
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithObserver reports writes and sessions to o.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		if o != nil {
			t.observer = o
		}
	}
}

func WithSessionTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.cfg.SessionTimeout = d
		}
	}
}

func WithHeartbeatInterval(d time.Duration) Option {
	return func(t *Tracker) { t.cfg.HeartbeatInterval = max(d, 0) }
}

func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) { t.cfg.PollInterval = max(d, 0) }
}

func WithPopStateDelay(d time.Duration) Option {
	return func(t *Tracker) { t.cfg.PopStateDelay = max(d, 0) }
}

func WithScrollDebounce(d time.Duration) Option {
	return func(t *Tracker) { t.cfg.ScrollDebounce = max(d, 0) }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.cfg.RequestTimeout = max(d, 0) }
}

func WithFlushTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.cfg.FlushTimeout = max(d, 0) }
}
