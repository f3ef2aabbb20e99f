// Package config loads environment variables into typed structs with per-type caching.
//
// A .env file in the working directory is applied once on first use (variables already set
// in the process environment win), and caarlos0/env parses struct tags:
//
//	type TrackerConfig struct {
//		SupabaseURL string        `env:"SUPABASE_URL,required"`
//		Heartbeat   time.Duration `env:"ANALYTICS_HEARTBEAT_INTERVAL" envDefault:"30s"`
//	}
//
//	var cfg TrackerConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic at startup
//	config.MustLoad(&cfg)
//
// Each configuration type is parsed once; later calls with the same type copy the cached
// value. Different types are cached independently.
package config
