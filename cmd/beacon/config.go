package main

import (
	"time"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/server"
	"github.com/moi-restaurants/tracker/integration/beacon"
)

// Backend settings (PG_*, MONGODB_*, SUPABASE_*, REDIS_*) are loaded only for the
// selected stores, since each carries required variables.
type Config struct {
	AppName        string        `env:"APP_NAME" envDefault:"beacon"`
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	StartupTimeout time.Duration `env:"STARTUP_TIMEOUT" envDefault:"1m"`

	// RecordStore is one of postgrest, pg, mongo or memory.
	RecordStore string `env:"RECORD_STORE" envDefault:"postgrest"`
	// LocalStore is one of redis, file or memory.
	LocalStore     string `env:"LOCAL_STORE" envDefault:"memory"`
	LocalStorePath string `env:"LOCAL_STORE_PATH" envDefault:"localstore.json"`

	ReadyTimeout time.Duration `env:"READY_CHECK_TIMEOUT" envDefault:"2s"`
	// MaxPageViews caps the limit query parameter of the page view listing.
	MaxPageViews int `env:"API_MAX_PAGE_VIEWS" envDefault:"500"`

	Server    server.Config
	Beacon    beacon.Config
	Analytics analytics.Config
}
