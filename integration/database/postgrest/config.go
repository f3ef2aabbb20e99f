package postgrest

import "time"

// Config holds the hosted REST endpoint and its public credential.
type Config struct {
	// URL is the project base URL, for example https://xyz.supabase.co.
	URL string `env:"SUPABASE_URL,required"`
	// AnonKey is the public anonymous key; row level security limits what it can do.
	AnonKey string `env:"SUPABASE_ANON_KEY,required"`
	// Schema selects a non-default schema through the Content-Profile headers.
	Schema  string        `env:"SUPABASE_SCHEMA"`
	Timeout time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"10s"`
	// HealthTable is read with limit=1 by Healthcheck.
	HealthTable string `env:"SUPABASE_HEALTH_TABLE" envDefault:"sessions"`
}
