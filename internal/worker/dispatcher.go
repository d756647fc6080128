package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/apps/notifications"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"gorm.io/gorm"
)

// Dispatcher sends one notification email and records the attempt.
//
// Preference gating happens here, at send time rather than enqueue time, so a
// user who disables reminders after a task is queued still gets nothing.
// A missing or disabled preference row is a silent no-op: no email, no log
// row. A transport failure is recorded as an unsuccessful log row and not
// retried; the next scheduled scan tries again.
type Dispatcher struct {
	db     *gorm.DB
	mailer Mailer
	logger *slog.Logger

	// FrontendURL is embedded in every email body.
	frontendURL string
}

func NewDispatcher(db *gorm.DB, mailer Mailer, frontendURL string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{db: db, mailer: mailer, frontendURL: frontendURL, logger: logger}
}

const bpReminderBody = `Hello %s,

This is a friendly reminder to take your daily blood pressure reading.

Tracking your BP regularly helps you:
- Monitor your cardiovascular health
- Identify patterns and trends
- Share accurate data with your healthcare provider

Log in to Moyo to record your reading: %s

Stay healthy!
The Moyo Team ❤️`

const medicationReminderBody = `Hello %s,

This is a reminder to take your medication: %s

Log in to Moyo to log your dose: %s

Stay healthy!
The Moyo Team ❤️`

const insightBody = `Hello %s,

You have a new health insight:

%s

Log in to Moyo to view all your insights: %s

Stay healthy!
The Moyo Team ❤️`

func (d *Dispatcher) SendBPReminder(ctx context.Context, userID uuid.UUID) error {
	user, prefs, err := d.loadRecipient(userID)
	if err != nil || user == nil {
		return err
	}
	if !prefs.BPReminderEnabled {
		return nil
	}

	subject := "Reminder: Take Your Blood Pressure Reading ❤️"
	body := fmt.Sprintf(bpReminderBody, user.DisplayName(), d.frontendURL)
	return d.deliver(ctx, user, notifications.TypeBPReminder, subject, body)
}

func (d *Dispatcher) SendMedicationReminder(ctx context.Context, userID uuid.UUID, medicationName string) error {
	user, prefs, err := d.loadRecipient(userID)
	if err != nil || user == nil {
		return err
	}
	if !prefs.MedicationReminderEnabled {
		return nil
	}

	subject := "Reminder: Take Your Medication - " + medicationName
	body := fmt.Sprintf(medicationReminderBody, user.DisplayName(), medicationName, d.frontendURL)
	return d.deliver(ctx, user, notifications.TypeMedicationReminder, subject, body)
}

func (d *Dispatcher) SendInsightNotification(ctx context.Context, userID uuid.UUID, insightText string) error {
	user, prefs, err := d.loadRecipient(userID)
	if err != nil || user == nil {
		return err
	}
	if !prefs.InsightNotificationsEnabled {
		return nil
	}

	subject := "New Health Insight Available ❤️"
	body := fmt.Sprintf(insightBody, user.DisplayName(), strings.TrimSpace(insightText), d.frontendURL)
	return d.deliver(ctx, user, notifications.TypeInsight, subject, body)
}

// loadRecipient returns (nil, nil, nil) for the silent-skip cases: unknown
// user, or user without a preference row.
func (d *Dispatcher) loadRecipient(userID uuid.UUID) (*models.User, *notifications.NotificationPreferences, error) {
	var user models.User
	if err := d.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	var prefs notifications.NotificationPreferences
	if err := d.db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("load preferences: %w", err)
	}

	return &user, &prefs, nil
}

func (d *Dispatcher) deliver(ctx context.Context, user *models.User, notificationType, subject, body string) error {
	sendErr := d.mailer.Send(ctx, user.Email, subject, body)

	entry := notifications.NotificationLog{
		ID:               uuid.New(),
		UserID:           user.ID,
		NotificationType: notificationType,
		Subject:          subject,
		Message:          body,
		SentSuccessfully: sendErr == nil,
	}
	if sendErr != nil {
		entry.ErrorMessage = sendErr.Error()
		d.logger.Error("notification delivery failed",
			"module", "worker",
			"user_id", user.ID.String(),
			"notification_type", notificationType,
			"error", sendErr.Error())
	}

	if err := d.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("record notification log: %w", err)
	}
	return nil
}
