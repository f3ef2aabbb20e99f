package beacon

import "time"

// Config tunes the browser bridge.
type Config struct {
	// HelloTimeout bounds the wait for the first message of a connection.
	HelloTimeout time.Duration `env:"BEACON_HELLO_TIMEOUT" envDefault:"10s"`
	// PingInterval is how often the server pings the browser. Zero disables pings.
	PingInterval time.Duration `env:"BEACON_PING_INTERVAL" envDefault:"30s"`
	// PongWait is how long a silent connection is kept. Must exceed PingInterval.
	PongWait  time.Duration `env:"BEACON_PONG_WAIT" envDefault:"60s"`
	WriteWait time.Duration `env:"BEACON_WRITE_WAIT" envDefault:"10s"`
	// MaxMessageSize caps one inbound frame, in bytes.
	MaxMessageSize int64 `env:"BEACON_MAX_MESSAGE_SIZE" envDefault:"16384"`
	// AllowedOrigins lists page origins allowed to connect. Empty means same host only;
	// a single "*" allows any origin.
	AllowedOrigins []string `env:"BEACON_ALLOWED_ORIGINS" envSeparator:","`
}

// DefaultConfig returns the default bridge tuning.
func DefaultConfig() Config {
	return Config{
		HelloTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 16 << 10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HelloTimeout <= 0 {
		c.HelloTimeout = d.HelloTimeout
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	return c
}
