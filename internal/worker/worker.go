package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, db *gorm.DB) error {
	srv, mux, rdb, err := newServer(cfg, db)
	if err != nil {
		return err
	}
	defer rdb.Close()
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop
// function. Use this for embedded mode so the caller coordinates shutdown.
func Start(cfg *config.Config, db *gorm.DB) (stop func(), err error) {
	srv, mux, rdb, err := newServer(cfg, db)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() {
		srv.Shutdown()
		rdb.Close()
	}, nil
}

func newServer(cfg *config.Config, db *gorm.DB) (*asynq.Server, *asynq.ServeMux, *redis.Client, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := slog.Default()

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	// Dedicated Redis client for the reminder scan's once-per-day send cache.
	// This is separate from the Asynq internal connection; the caller owns
	// closing it on shutdown.
	rdb, err := newRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create Redis client: %w", err)
	}

	dispatcher := NewDispatcher(db, NewSMTPMailer(cfg), cfg.FrontendURL, logger)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskBPReminder, handleBPReminder(logger, dispatcher))
	mux.HandleFunc(TaskMedicationReminder, handleMedicationReminder(logger, dispatcher))
	mux.HandleFunc(TaskInsightCreated, handleInsightCreated(logger, dispatcher))
	mux.HandleFunc(TaskReminderScan, handleReminderScan(logger, db, rdb))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, rdb, nil
}

func handleBPReminder(logger *slog.Logger, dispatcher *Dispatcher) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload reminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		logger.Info("Processing notify:bp_reminder task", "user_id", payload.UserID.String())
		return dispatcher.SendBPReminder(ctx, payload.UserID)
	}
}

func handleMedicationReminder(logger *slog.Logger, dispatcher *Dispatcher) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload medicationReminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		logger.Info("Processing notify:medication_reminder task",
			"user_id", payload.UserID.String(),
			"medication", payload.MedicationName)
		return dispatcher.SendMedicationReminder(ctx, payload.UserID, payload.MedicationName)
	}
}

func handleInsightCreated(logger *slog.Logger, dispatcher *Dispatcher) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload insightPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		logger.Info("Processing notify:insight task", "user_id", payload.UserID.String())
		return dispatcher.SendInsightNotification(ctx, payload.UserID, payload.InsightText)
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
