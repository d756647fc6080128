package notifications

import (
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/models"
)

// Reminder frequency values.
var ValidFrequencies = []string{"daily", "twice_weekly", "weekly", "biweekly"}

// Notification type values, one per dispatch event kind.
const (
	TypeBPReminder         = "bp_reminder"
	TypeMedicationReminder = "medication_reminder"
	TypeInsight            = "insight"
	TypeSystem             = "system"
)

// NotificationPreferences holds the per-user email notification settings.
// Exactly one row per user, created lazily on first access.
type NotificationPreferences struct {
	ID                          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BPReminderEnabled           bool        `gorm:"default:true" json:"bp_reminder_enabled"`
	BPReminderFrequency         string      `gorm:"size:20;default:'daily'" json:"bp_reminder_frequency"`
	BPReminderTime              string      `gorm:"size:5;default:'09:00'" json:"bp_reminder_time"`
	MedicationReminderEnabled   bool        `gorm:"default:true" json:"medication_reminder_enabled"`
	InsightNotificationsEnabled bool        `gorm:"default:true" json:"insight_notifications_enabled"`
	CreatedAt                   time.Time   `json:"created_at"`
	UpdatedAt                   time.Time   `json:"updated_at"`
	User                        models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationLog is append-only: one row per dispatch attempt, success or
// failure. Never updated after insert.
type NotificationLog struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID   `gorm:"type:uuid;not null;index:idx_notification_logs_user_sent" json:"user_id"`
	NotificationType string      `gorm:"size:50;not null" json:"notification_type"`
	Subject          string      `gorm:"size:200" json:"subject"`
	Message          string      `gorm:"type:text" json:"message"`
	SentAt           time.Time   `gorm:"autoCreateTime;index:idx_notification_logs_user_sent,sort:desc" json:"sent_at"`
	SentSuccessfully bool        `gorm:"default:true" json:"sent_successfully"`
	ErrorMessage     string      `gorm:"type:text" json:"error_message"`
	User             models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// --- DTOs ---

type UpdatePreferencesRequest struct {
	BPReminderEnabled           bool   `json:"bp_reminder_enabled"`
	BPReminderFrequency         string `json:"bp_reminder_frequency"`
	BPReminderTime              string `json:"bp_reminder_time"`
	MedicationReminderEnabled   bool   `json:"medication_reminder_enabled"`
	InsightNotificationsEnabled bool   `json:"insight_notifications_enabled"`
}

type NotificationLogListResponse struct {
	Logs     []NotificationLog `json:"logs"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
