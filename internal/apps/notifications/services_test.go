package notifications_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/apps/notifications"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"github.com/okalmanwa/heart-monitor/internal/testutil"
)

func ownerScope(u *models.User) access.Scope {
	return access.Scope{UserID: u.ID, Email: u.Email}
}

func TestGetOrCreatePreferencesDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := notifications.NewNotificationService(db)

	prefs, err := svc.GetOrCreatePreferences(user.ID)
	if err != nil {
		t.Fatalf("get or create preferences: %v", err)
	}
	if !prefs.BPReminderEnabled || !prefs.MedicationReminderEnabled || !prefs.InsightNotificationsEnabled {
		t.Fatalf("defaults must enable all notification kinds: %+v", prefs)
	}
	if prefs.BPReminderFrequency != "daily" || prefs.BPReminderTime != "09:00" {
		t.Fatalf("default schedule = %s %s, want daily 09:00", prefs.BPReminderFrequency, prefs.BPReminderTime)
	}

	// A second call returns the same row.
	again, err := svc.GetOrCreatePreferences(user.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != prefs.ID {
		t.Fatalf("second call created a new row")
	}

	var count int64
	if err := db.Model(&notifications.NotificationPreferences{}).Count(&count).Error; err != nil {
		t.Fatalf("count preferences: %v", err)
	}
	if count != 1 {
		t.Fatalf("preference rows = %d, want 1", count)
	}
}

func TestUpdatePreferences(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := notifications.NewNotificationService(db)

	prefs, err := svc.UpdatePreferences(user.ID, notifications.UpdatePreferencesRequest{
		BPReminderEnabled:           false,
		BPReminderFrequency:         "weekly",
		BPReminderTime:              "21:30",
		MedicationReminderEnabled:   true,
		InsightNotificationsEnabled: false,
	})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if prefs.BPReminderEnabled || prefs.BPReminderFrequency != "weekly" || prefs.BPReminderTime != "21:30" {
		t.Fatalf("update not applied: %+v", prefs)
	}
	if prefs.InsightNotificationsEnabled {
		t.Fatalf("insight notifications still enabled")
	}
}

func TestUpdatePreferencesValidation(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := notifications.NewNotificationService(db)

	if _, err := svc.UpdatePreferences(user.ID, notifications.UpdatePreferencesRequest{
		BPReminderFrequency: "hourly",
		BPReminderTime:      "09:00",
	}); !errors.Is(err, notifications.ErrInvalidFrequency) {
		t.Fatalf("frequency err = %v, want %v", err, notifications.ErrInvalidFrequency)
	}

	if _, err := svc.UpdatePreferences(user.ID, notifications.UpdatePreferencesRequest{
		BPReminderFrequency: "daily",
		BPReminderTime:      "9 o'clock",
	}); !errors.Is(err, notifications.ErrInvalidTime) {
		t.Fatalf("time err = %v, want %v", err, notifications.ErrInvalidTime)
	}
}

func TestNotificationLogsScoped(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	svc := notifications.NewNotificationService(db)

	entry := notifications.NotificationLog{
		ID:               uuid.New(),
		UserID:           alice.ID,
		NotificationType: notifications.TypeBPReminder,
		Subject:          "Reminder",
		SentSuccessfully: true,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed log: %v", err)
	}

	if _, err := svc.GetLog(ownerScope(bob), entry.ID); !errors.Is(err, notifications.ErrLogNotFound) {
		t.Fatalf("cross-user get err = %v, want %v", err, notifications.ErrLogNotFound)
	}

	logs, total, err := svc.ListLogs(ownerScope(alice), 1, 20)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if total != 1 || len(logs) != 1 {
		t.Fatalf("owner list total = %d, want 1", total)
	}

	_, total, err = svc.ListLogs(access.Scope{UserID: admin.ID, Email: admin.Email, Admin: true}, 1, 20)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if total != 1 {
		t.Fatalf("admin list total = %d, want 1", total)
	}
}
