package main

import (
	"context"
	"os"
	"time"

	"badir-backend/internal/app"
	"badir-backend/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("application init failed")
	}

	// Email outbox dispatcher. Rows that failed an immediate send are retried
	// here until they hit the attempt cap.
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		if err := application.Notifications.DispatchPending(ctx); err != nil {
			log.Error().Err(err).Msg("outbox dispatch failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("cron setup failed")
	}
	c.Start()
	defer c.Stop()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api")
	if err := application.Fiber.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
