package worker

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskBPReminder         = "notify:bp_reminder"
	TaskMedicationReminder = "notify:medication_reminder"
	TaskInsightCreated     = "notify:insight"
	TaskReminderScan       = "notify:reminder_scan"
)

type reminderPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type medicationReminderPayload struct {
	UserID         uuid.UUID `json:"user_id"`
	MedicationName string    `json:"medication_name"`
}

type insightPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	InsightText string    `json:"insight_text"`
}

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

func EnqueueBPReminder(userID uuid.UUID) error {
	payload, err := json.Marshal(reminderPayload{UserID: userID})
	if err != nil {
		return err
	}
	return enqueue(TaskBPReminder, payload)
}

func EnqueueMedicationReminder(userID uuid.UUID, medicationName string) error {
	payload, err := json.Marshal(medicationReminderPayload{UserID: userID, MedicationName: medicationName})
	if err != nil {
		return err
	}
	return enqueue(TaskMedicationReminder, payload)
}

func EnqueueInsightCreated(userID uuid.UUID, insightText string) error {
	payload, err := json.Marshal(insightPayload{UserID: userID, InsightText: insightText})
	if err != nil {
		return err
	}
	return enqueue(TaskInsightCreated, payload)
}

func enqueue(taskType string, payload []byte) error {
	task := asynq.NewTask(
		taskType,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err := client.Enqueue(task)
	return err
}

// QueueNotifier adapts the package-level enqueue functions to the notifier
// interfaces the HTTP layer expects. Enqueue failures are logged and
// swallowed: a notification must never fail the request that triggered it.
type QueueNotifier struct{}

func (QueueNotifier) EnqueueInsightCreated(userID uuid.UUID, insightText string) {
	if err := EnqueueInsightCreated(userID, insightText); err != nil {
		slog.Error("failed to enqueue insight notification",
			"module", "worker",
			"user_id", userID.String(),
			"error", err.Error())
	}
}
