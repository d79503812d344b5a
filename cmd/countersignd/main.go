package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"countersign/internal/config"
	"countersign/internal/infrastructure"
	"countersign/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("init failed: ", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("start failed: ", err)
	}
	infra.Lifecycle.WaitForStartup()

	rt, err := infra.Followup()
	if err != nil {
		log.Fatal("followup init failed: ", err)
	}

	sched := scheduler.New(&cfg.Scheduler, func(ctx context.Context) {
		rt.Run(ctx)
		if stats, err := infra.Tracker.Stats(ctx); err == nil {
			infra.Logger.InfoContext(ctx, "tracker stats",
				"total", stats.Total,
				"pending", stats.Pending,
				"completed", stats.Completed,
			)
		}
	}, infra.Logger)
	sched.Start(infra.Lifecycle)

	infra.Logger.Info(
		"countersignd starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"schedule", cfg.Scheduler.Time,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		infra.Logger.Error("shutdown incomplete", "error", err)
	}

	infra.Logger.Info("countersignd stopped")
}
