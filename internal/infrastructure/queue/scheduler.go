package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"pttech-backend/internal/config"
)

// Scheduler registers the periodic jobs. Each entry enqueues a task on its
// cron spec; the worker process executes them. Every job is an idempotent
// sweep, so overlapping or repeated runs are harmless.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobs      config.JobConfig
}

func NewScheduler(redisCfg config.RedisConfig, jobs config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler, jobs: jobs}
}

func (s *Scheduler) RegisterPeriodicJobs() error {
	entries := []struct {
		spec     string
		taskType string
		queue    string
	}{
		{s.jobs.PublishSweepSpec, TypeScheduledPublishSweep, QueueDefault},
		{s.jobs.DiscountExpirySpec, TypeDiscountExpirySweep, QueueLow},
		{s.jobs.OrderConfirmSpec, TypeOrderAutoConfirm, QueueDefault},
	}

	for _, e := range entries {
		task := asynq.NewTask(e.taskType, nil)
		if _, err := s.scheduler.Register(e.spec, task, asynq.Queue(e.queue)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
