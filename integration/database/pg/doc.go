// Package pg provides PostgreSQL connection management, the tracking schema migrations and a
// recordstore.Store over the sessions, page_views and events tables.
//
//   - Connect: creates a pgx pool with retry and ping verification
//   - Migrate: applies the embedded goose migrations
//   - Healthcheck: returns a probe for readiness endpoints
//   - RecordStore: Insert, filtered Update and filtered Select with parameterised SQL
//
// Connection attempts back off exponentially from Config.RetryInterval.
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
//	tracker := analytics.New(browser, local, pg.NewRecordStore(pool))
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context; RecordStore runs its statements on it:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	ctx = pg.WithTx(ctx, tx)
//	if err := store.Insert(ctx, "sessions", rec); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
//
// # Errors
//
// IsDuplicateKeyError, IsNotFoundError and IsTxClosedError classify driver errors.
// Insert wraps unique violations in ErrDuplicateRecord.
package pg
