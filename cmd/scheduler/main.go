package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"leadflow_backend/internal/scheduler"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
)

// The scheduler process enqueues the periodic stats broadcast task. The API
// process consumes it, so snapshots reach the bus that feeds the open SSE
// connections.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "interval", cfg.StatsBroadcastInterval.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := scheduler.NewScheduler(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler", "error", err)
		panic("failed to initialize scheduler: " + err.Error())
	}

	go func() {
		<-ctx.Done()
		sched.Shutdown()
	}()

	if err := sched.Run(); err != nil {
		log.Error("scheduler stopped", "error", err)
	}
}
