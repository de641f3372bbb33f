package main

import (
	"resort/config"
	"resort/di"
	"resort/helper"
	"resort/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate bookings schema")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
