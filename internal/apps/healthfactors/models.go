package healthfactors

import (
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"gorm.io/datatypes"
)

// HealthFactor captures the lifestyle context for a single calendar day.
// At most one row per (user, date); the unique index is the race backstop
// behind the service-level conflict check.
type HealthFactor struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_health_factors_user_date" json:"user_id"`
	Date             datatypes.Date `gorm:"not null;uniqueIndex:idx_health_factors_user_date" json:"-"`
	SleepQuality     *int           `json:"sleep_quality"`
	StressLevel      *int           `json:"stress_level"`
	ExerciseDuration *int           `json:"exercise_duration"`
	Notes            string         `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	User             models.User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

const dateLayout = "2006-01-02"

// --- DTOs ---

type CreateHealthFactorRequest struct {
	User             *uuid.UUID `json:"user"`
	Date             string     `json:"date"`
	SleepQuality     *int       `json:"sleep_quality"`
	StressLevel      *int       `json:"stress_level"`
	ExerciseDuration *int       `json:"exercise_duration"`
	Notes            string     `json:"notes"`
}

type UpdateHealthFactorRequest struct {
	SleepQuality     *int    `json:"sleep_quality"`
	StressLevel      *int    `json:"stress_level"`
	ExerciseDuration *int    `json:"exercise_duration"`
	Notes            *string `json:"notes"`
}

type HealthFactorResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user"`
	Date             string    `json:"date"`
	SleepQuality     *int      `json:"sleep_quality"`
	StressLevel      *int      `json:"stress_level"`
	ExerciseDuration *int      `json:"exercise_duration"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type HealthFactorListResponse struct {
	HealthFactors []HealthFactorResponse `json:"health_factors"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

func toResponse(f *HealthFactor) HealthFactorResponse {
	return HealthFactorResponse{
		ID:               f.ID,
		UserID:           f.UserID,
		Date:             time.Time(f.Date).Format(dateLayout),
		SleepQuality:     f.SleepQuality,
		StressLevel:      f.StressLevel,
		ExerciseDuration: f.ExerciseDuration,
		Notes:            f.Notes,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}
