// Package scheduler runs background tasks over asynq: a periodic job that
// recomputes dashboard snapshots and publishes them for push refresh.
package scheduler

import (
	"fmt"

	"leadflow_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Scheduler enqueues the periodic stats broadcast task.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg config.SchedulerConfig) (*Scheduler, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	s := asynq.NewScheduler(opt, nil)
	spec := "@every " + cfg.GetStatsBroadcastInterval().String()
	if _, err := s.Register(spec, NewStatsBroadcastTask(), asynq.Queue(queue)); err != nil {
		return nil, err
	}

	return &Scheduler{scheduler: s}, nil
}

// Run starts the scheduler loop and blocks until shutdown.
func (s *Scheduler) Run() error {
	if s == nil || s.scheduler == nil {
		return nil
	}
	return s.scheduler.Run()
}

// Shutdown stops the scheduler loop.
func (s *Scheduler) Shutdown() {
	if s == nil || s.scheduler == nil {
		return
	}
	s.scheduler.Shutdown()
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
