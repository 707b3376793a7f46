package main

import (
	"github.com/rs/zerolog/log"

	"bibliotech/internal/config"
	"bibliotech/internal/infrastructure/queue"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	if err := scheduler.RegisterSnapshot(cfg.Snapshot.Cron); err != nil {
		log.Fatal().Err(err).Msg("failed to register scheduled jobs")
	}

	log.Info().Msg("scheduler starting")
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler failed")
	}

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	s.Scheduler.Shutdown()
	log.Info().Msg("scheduler stopped")
}
