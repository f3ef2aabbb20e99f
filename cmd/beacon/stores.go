package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moi-restaurants/tracker/core/config"
	"github.com/moi-restaurants/tracker/core/health"
	"github.com/moi-restaurants/tracker/core/localstore"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/integration/database/mongo"
	"github.com/moi-restaurants/tracker/integration/database/pg"
	"github.com/moi-restaurants/tracker/integration/database/postgrest"
	"github.com/moi-restaurants/tracker/integration/database/redis"
)

// backends holds the opened stores, their readiness probes and their closers.
type backends struct {
	records recordstore.Store
	local   localstore.Store
	checks  []health.Check
	closers []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg Config, log *slog.Logger) (*backends, error) {
	b := &backends{}
	if err := b.openRecords(ctx, cfg.RecordStore, log); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openLocal(ctx, cfg, log); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) openRecords(ctx context.Context, kind string, log *slog.Logger) error {
	switch kind {
	case "postgrest":
		var cfg postgrest.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		client, err := postgrest.New(cfg)
		if err != nil {
			return err
		}
		b.records = client
		b.checks = append(b.checks, client.Healthcheck)

	case "pg":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, pool.Close)
		if err := pg.Migrate(ctx, pool, cfg, log.With(logger.Component("migration"))); err != nil {
			return err
		}
		b.records = pg.NewRecordStore(pool)
		b.checks = append(b.checks, pg.Healthcheck(pool))

	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() { _ = client.Disconnect(context.Background()) })
		b.records = mongo.NewRecordStore(client.Database(cfg.Database))
		b.checks = append(b.checks, mongo.Healthcheck(client))

	case "memory":
		log.Warn("records are kept in memory and lost on restart")
		b.records = recordstore.NewMemory()

	default:
		return fmt.Errorf("unknown RECORD_STORE %q", kind)
	}
	return nil
}

func (b *backends) openLocal(ctx context.Context, cfg Config, log *slog.Logger) error {
	switch cfg.LocalStore {
	case "redis":
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.local = redis.NewLocalStore(client, rcfg.KeyPrefix, rcfg.KeyTTL)
		b.checks = append(b.checks, redis.Healthcheck(client))

	case "file":
		f, err := localstore.OpenFile(cfg.LocalStorePath)
		if err != nil {
			return err
		}
		b.local = f

	case "memory":
		log.Debug("local storage is kept in memory")
		b.local = localstore.NewMemory()

	default:
		return fmt.Errorf("unknown LOCAL_STORE %q", cfg.LocalStore)
	}
	return nil
}
