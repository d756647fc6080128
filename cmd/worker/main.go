package main

import (
	"log/slog"
	"os"

	"github.com/okalmanwa/heart-monitor/internal/config"
	"github.com/okalmanwa/heart-monitor/internal/database"
	"github.com/okalmanwa/heart-monitor/internal/logging"
	"github.com/okalmanwa/heart-monitor/internal/worker"
)

// Standalone worker + scheduler process. Run this alongside the API server
// with WORKER_EMBEDDED=false on the server side.
func main() {
	logging.Setup()

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// The scheduler enqueues through the shared client
	if err := worker.InitClient(cfg.RedisURL); err != nil {
		slog.Error("task queue client init failed", "error", err)
		os.Exit(1)
	}
	defer worker.CloseClient()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		slog.Error("scheduler failed to start", "error", err)
		os.Exit(1)
	}
	defer stopScheduler()

	// Blocks until SIGINT/SIGTERM; asynq handles signal interception.
	if err := worker.Run(cfg, database.DB); err != nil {
		slog.Error("worker exited with error", "error", err)
		os.Exit(1)
	}
}
