package scheduler

import (
	"context"
	"fmt"

	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// StatsBroadcaster recomputes role-scoped stats snapshots and publishes
// them on the event bus.
type StatsBroadcaster interface {
	BroadcastStats(ctx context.Context) error
}

type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	broadcaster StatsBroadcaster
	log         *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, broadcaster StatsBroadcaster, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		broadcaster: broadcaster,
		log:         log,
	}

	mux.HandleFunc(TaskStatsBroadcast, w.handleStatsBroadcast)

	return w, nil
}

func (w *Worker) handleStatsBroadcast(ctx context.Context, task *asynq.Task) error {
	return w.broadcaster.BroadcastStats(ctx)
}

// Run starts the worker and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
