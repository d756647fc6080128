package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/okalmanwa/heart-monitor/internal/apps/medications"
	"github.com/okalmanwa/heart-monitor/internal/apps/notifications"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StartScheduler creates and starts an Asynq Scheduler that fires the
// reminder scan task once a minute. Returns a stop function for graceful
// shutdown. The scan runs in UTC; preference times are interpreted as UTC.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := slog.Default()

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	task := asynq.NewTask(
		TaskReminderScan,
		nil, // the handler derives everything from the clock
		asynq.MaxRetry(0),
		asynq.Timeout(time.Minute),
		asynq.Unique(time.Minute), // prevent duplicate if scheduler runs twice
	)

	entryID, err := scheduler.Register(cfg.ReminderScanSchedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register reminder scan: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("Scheduler started", "schedule", cfg.ReminderScanSchedule, "entry_id", entryID)
	return func() { scheduler.Shutdown() }, nil
}

func newRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// reminderDedup marks a reminder key as claimed at most once per day.
// Release undoes a claim whose enqueue never happened, so the reminder is
// not lost for the rest of the day.
type reminderDedup interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string)
}

// redisDedup backs the dedup cache with Redis SETNX keys. The 48h TTL
// outlives the day the key guards; expiry is cleanup, not the dedup rule.
type redisDedup struct {
	rdb *redis.Client
}

func (d redisDedup) Claim(ctx context.Context, key string) (bool, error) {
	return d.rdb.SetNX(ctx, key, 1, 48*time.Hour).Result()
}

func (d redisDedup) Release(ctx context.Context, key string) {
	d.rdb.Del(ctx, key)
}

// reminderSink enqueues the reminder tasks found by a scan.
type reminderSink interface {
	BPReminder(userID uuid.UUID) error
	MedicationReminder(userID uuid.UUID, medicationName string) error
}

type queueSink struct{}

func (queueSink) BPReminder(userID uuid.UUID) error {
	return EnqueueBPReminder(userID)
}

func (queueSink) MedicationReminder(userID uuid.UUID, medicationName string) error {
	return EnqueueMedicationReminder(userID, medicationName)
}

// handleReminderScan runs once a minute. It finds users whose reminder time
// matches the current UTC minute and whose frequency rule makes today a send
// day, then enqueues one BP reminder per user and one medication reminder per
// active medication. A dedup key per user per day keeps a rescheduled or
// double-fired scan from sending twice.
func handleReminderScan(logger *slog.Logger, db *gorm.DB, rdb *redis.Client) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		return runReminderScan(ctx, logger, db, redisDedup{rdb: rdb}, queueSink{}, time.Now().UTC())
	}
}

func runReminderScan(ctx context.Context, logger *slog.Logger, db *gorm.DB, dedup reminderDedup, sink reminderSink, now time.Time) error {
	hhmm := now.Format("15:04")
	day := now.Format("2006-01-02")

	var prefs []notifications.NotificationPreferences
	if err := db.WithContext(ctx).
		Where("bp_reminder_time = ?", hhmm).
		Find(&prefs).Error; err != nil {
		return fmt.Errorf("scan preferences: %w", err)
	}

	for _, p := range prefs {
		if p.BPReminderEnabled && reminderDueToday(p.BPReminderFrequency, now) {
			key := fmt.Sprintf("reminder:bp:%s:%s", p.UserID, day)
			ok, err := dedup.Claim(ctx, key)
			if err != nil {
				logger.Error("reminder dedup check failed", "key", key, "error", err.Error())
			} else if ok {
				if err := sink.BPReminder(p.UserID); err != nil {
					// Release the claim so a later scan this day can retry.
					dedup.Release(ctx, key)
					logger.Error("failed to enqueue bp reminder",
						"user_id", p.UserID.String(), "error", err.Error())
				}
			}
		}

		if !p.MedicationReminderEnabled {
			continue
		}
		var meds []medications.Medication
		if err := db.WithContext(ctx).
			Where("user_id = ? AND is_active = ?", p.UserID, true).
			Find(&meds).Error; err != nil {
			logger.Error("failed to load active medications",
				"user_id", p.UserID.String(), "error", err.Error())
			continue
		}
		for _, m := range meds {
			key := fmt.Sprintf("reminder:med:%s:%s:%s", p.UserID, m.ID, day)
			ok, err := dedup.Claim(ctx, key)
			if err != nil {
				logger.Error("reminder dedup check failed", "key", key, "error", err.Error())
				continue
			}
			if !ok {
				continue
			}
			if err := sink.MedicationReminder(p.UserID, m.Name); err != nil {
				dedup.Release(ctx, key)
				logger.Error("failed to enqueue medication reminder",
					"user_id", p.UserID.String(), "error", err.Error())
			}
		}
	}

	return nil
}

// reminderDueToday applies the frequency rule to the current date.
// Unknown values behave as daily.
func reminderDueToday(frequency string, now time.Time) bool {
	switch frequency {
	case "twice_weekly":
		return now.Weekday() == time.Monday || now.Weekday() == time.Thursday
	case "weekly":
		return now.Weekday() == time.Monday
	case "biweekly":
		_, week := now.ISOWeek()
		return now.Weekday() == time.Monday && week%2 == 0
	default:
		return true
	}
}
