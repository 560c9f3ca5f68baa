package main

import (
	"context"

	"estates-backend/internal/app"
	"estates-backend/internal/config"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	fiberApp, db, rdb, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	// Verify connections before accepting traffic.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle failed")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("Postgres connected")

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	log.Info().Msg("Redis connected")

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
