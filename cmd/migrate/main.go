package main

import (
	"os"
	"resort/config"
	"resort/helper"
	"resort/shared/logger"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up/down/step-up/drop/version/force <n>) is required")
	}

	cfg := config.Get()
	logger.Configure(cfg)

	action := os.Args[1]

	if err := helper.Run(cfg, action, os.Args[2:]...); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("Migration failed")
	}
}
