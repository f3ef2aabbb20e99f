package redis

import "time"

// Config holds Redis connection settings with environment variable support.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	// KeyPrefix namespaces local storage keys.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"localstore:"`
	// KeyTTL expires untouched local storage keys. Zero keeps them forever.
	KeyTTL time.Duration `env:"REDIS_KEY_TTL" envDefault:"720h"`
}
