package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-draft/go/internal/config"
	"github.com/mcdev12/dynasty-draft/go/internal/dbconfig"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/repository"
)

// openStore builds the configured engine store. The returned func releases
// its connections.
func openStore(ctx context.Context, cfg *config.Config) (engine.Store, func(), error) {
	switch cfg.Draft.Store {
	case config.StorePostgres:
		dbCfg := dbconfig.NewConfigFromEnv()
		db, err := sql.Open("postgres", dbCfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate draft schema: %w", err)
		}
		log.Info().
			Str("host", dbCfg.Host).
			Int("port", dbCfg.Port).
			Str("database", dbCfg.Database).
			Msg("using postgres draft store")
		return repository.NewPostgres(db), func() { db.Close() }, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store, err := repository.NewRedis(&repository.RedisConfig{
			RedisClient: client,
			KeyPrefix:   cfg.Redis.KeyPrefix,
		})
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis draft store")
		return store, func() { client.Close() }, nil

	default:
		log.Warn().Msg("using in-memory draft store, drafts are lost on restart")
		return engine.NewMemoryStore(), func() {}, nil
	}
}
