package notifications

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"gorm.io/gorm"
)

var (
	ErrInvalidFrequency = errors.New("invalid reminder frequency")
	ErrInvalidTime      = errors.New("reminder time must be in HH:MM format")
	ErrLogNotFound      = errors.New("notification log not found")
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// GetOrCreatePreferences returns the user's preferences, creating the row
// with defaults on first access.
func (s *NotificationService) GetOrCreatePreferences(userID uuid.UUID) (*NotificationPreferences, error) {
	var prefs NotificationPreferences
	err := s.db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prefs = NotificationPreferences{
		ID:                          uuid.New(),
		UserID:                      userID,
		BPReminderEnabled:           true,
		BPReminderFrequency:         "daily",
		BPReminderTime:              "09:00",
		MedicationReminderEnabled:   true,
		InsightNotificationsEnabled: true,
	}
	if err := s.db.Create(&prefs).Error; err != nil {
		// Lost a get-or-create race; the winner's row is the one to use.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
				return nil, err
			}
			return &prefs, nil
		}
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences replaces the user's preferences (PUT semantics).
func (s *NotificationService) UpdatePreferences(userID uuid.UUID, req UpdatePreferencesRequest) (*NotificationPreferences, error) {
	frequency := req.BPReminderFrequency
	if frequency == "" {
		frequency = "daily"
	}
	if !isValidFrequency(frequency) {
		return nil, ErrInvalidFrequency
	}

	reminderTime := req.BPReminderTime
	if reminderTime == "" {
		reminderTime = "09:00"
	}
	if _, err := time.Parse("15:04", reminderTime); err != nil {
		return nil, ErrInvalidTime
	}

	prefs, err := s.GetOrCreatePreferences(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"bp_reminder_enabled":           req.BPReminderEnabled,
		"bp_reminder_frequency":         frequency,
		"bp_reminder_time":              reminderTime,
		"medication_reminder_enabled":   req.MedicationReminderEnabled,
		"insight_notifications_enabled": req.InsightNotificationsEnabled,
	}
	if err := s.db.Model(prefs).Updates(updates).Error; err != nil {
		return nil, err
	}

	return prefs, nil
}

func (s *NotificationService) ListLogs(scope access.Scope, page, pageSize int) ([]NotificationLog, int64, error) {
	var total int64
	if err := s.db.Model(&NotificationLog{}).Scopes(access.Scoped(scope)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []NotificationLog
	err := s.db.Scopes(access.Scoped(scope)).
		Order("sent_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *NotificationService) GetLog(scope access.Scope, id uuid.UUID) (*NotificationLog, error) {
	var entry NotificationLog
	err := s.db.Scopes(access.Scoped(scope)).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func isValidFrequency(f string) bool {
	for _, v := range ValidFrequencies {
		if v == f {
			return true
		}
	}
	return false
}
