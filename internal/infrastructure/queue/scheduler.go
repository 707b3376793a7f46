// Package queue wraps the asynq client and scheduler used for snapshot tasks.
package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bibliotech/internal/snapshot"
)

// Queue names and their worker priorities.
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

var Priorities = map[string]int{
	QueueDefault: 10,
	QueueLow:     5,
}

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, password string, db int) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db},
			&asynq.SchedulerOpts{
				Location: time.UTC,
				LogLevel: asynq.InfoLevel,
			},
		),
	}
}

// RegisterSnapshot schedules a snapshot on cronspec.
func (s *Scheduler) RegisterSnapshot(cronspec string) error {
	task, err := snapshot.NewTask("scheduled")
	if err != nil {
		return err
	}

	entryID, err := s.scheduler.Register(
		cronspec,
		task,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to register snapshot job: %w", err)
	}

	log.Info().Str("entry", entryID).Str("cron", cronspec).Msg("snapshot job registered")
	return nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
