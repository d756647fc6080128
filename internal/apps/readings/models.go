package readings

import (
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/models"
)

// Reading is one blood-pressure measurement. The clinical category is not a
// column; it is recomputed from systolic/diastolic at serialization time.
type Reading struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_readings_user_recorded" json:"user_id"`
	Systolic   int         `gorm:"not null" json:"systolic"`
	Diastolic  int         `gorm:"not null" json:"diastolic"`
	HeartRate  *int        `json:"heart_rate"`
	RecordedAt time.Time   `gorm:"not null;index:idx_readings_user_recorded,sort:desc" json:"recorded_at"`
	Notes      string      `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	User       models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// --- DTOs ---

type CreateReadingRequest struct {
	// User is honored only for administrators; otherwise the owner is
	// forced to the requester.
	User       *uuid.UUID `json:"user"`
	Systolic   int        `json:"systolic"`
	Diastolic  int        `json:"diastolic"`
	HeartRate  *int       `json:"heart_rate"`
	RecordedAt time.Time  `json:"recorded_at"`
	Notes      string     `json:"notes"`
}

type UpdateReadingRequest struct {
	Systolic   *int       `json:"systolic"`
	Diastolic  *int       `json:"diastolic"`
	HeartRate  *int       `json:"heart_rate"`
	RecordedAt *time.Time `json:"recorded_at"`
	Notes      *string    `json:"notes"`
}

type ReadingResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user"`
	UserEmail  string    `json:"user_email"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	HeartRate  *int      `json:"heart_rate"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes"`
	Category   Category  `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReadingListResponse struct {
	Readings []ReadingResponse `json:"readings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func toResponse(r *Reading) ReadingResponse {
	return ReadingResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		UserEmail:  r.User.Email,
		Systolic:   r.Systolic,
		Diastolic:  r.Diastolic,
		HeartRate:  r.HeartRate,
		RecordedAt: r.RecordedAt,
		Notes:      r.Notes,
		Category:   Classify(r.Systolic, r.Diastolic),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
