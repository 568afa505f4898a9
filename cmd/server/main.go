package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/cache"
	"github.com/nbu-it/website-backend/internal/config"
	"github.com/nbu-it/website-backend/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := initStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	if cfg.RedisAddress != "" {
		c := cache.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword, "cms")
		store = db.NewCachedStore(store, c, cfg.CacheTTL)
		log.Info().Dur("ttl", cfg.CacheTTL).Msg("read cache enabled")
	}

	if err := db.EnsureDefaultAdmin(store); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	storageSystem := initStorage(cfg)

	r := gin.Default()
	RegisterRoutes(r, cfg, store, storageSystem)

	log.Info().Str("address", cfg.ServerAddress).Str("backend", cfg.StoreBackend).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// initStore builds the configured store backend: flat JSON files or
// Postgres.
func initStore(cfg *config.Config) (db.Store, error) {
	if cfg.StoreBackend == "postgres" {
		if err := db.Init(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			return nil, err
		}
		return db.NewPGStore(), nil
	}
	return db.NewJSONStore(cfg.DataDir)
}
