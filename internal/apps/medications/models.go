package medications

import (
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"gorm.io/datatypes"
)

// Frequency values for a medication schedule.
var ValidFrequencies = []string{
	"once_daily",
	"twice_daily",
	"three_times_daily",
	"four_times_daily",
	"as_needed",
	"weekly",
	"other",
}

func isValidFrequency(f string) bool {
	for _, v := range ValidFrequencies {
		if v == f {
			return true
		}
	}
	return false
}

type Medication struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_medications_user_active" json:"user_id"`
	Name      string          `gorm:"size:200;not null" json:"name"`
	Dosage    string          `gorm:"size:100;not null" json:"dosage"`
	Frequency string          `gorm:"size:50;not null;default:'once_daily'" json:"frequency"`
	StartDate datatypes.Date  `gorm:"not null" json:"-"`
	EndDate   *datatypes.Date `json:"-"`
	IsActive  bool            `gorm:"default:true;index:idx_medications_user_active" json:"is_active"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	User      models.User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Logs      []MedicationLog `gorm:"foreignKey:MedicationID;constraint:OnDelete:CASCADE" json:"-"`
}

type MedicationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MedicationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_medication_logs_med_taken" json:"medication_id"`
	TakenAt      time.Time  `gorm:"not null;index:idx_medication_logs_med_taken,sort:desc" json:"taken_at"`
	Notes        string     `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	Medication   Medication `gorm:"foreignKey:MedicationID" json:"-"`
}

const dateLayout = "2006-01-02"

// --- DTOs ---

type CreateMedicationRequest struct {
	User      *uuid.UUID `json:"user"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	StartDate string     `json:"start_date"`
	EndDate   *string    `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
	Notes     string     `json:"notes"`
}

type UpdateMedicationRequest struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
	Notes     *string `json:"notes"`
}

type LogDoseRequest struct {
	TakenAt time.Time `json:"taken_at"`
	Notes   string    `json:"notes"`
}

type CreateLogRequest struct {
	Medication uuid.UUID `json:"medication"`
	TakenAt    time.Time `json:"taken_at"`
	Notes      string    `json:"notes"`
}

type MedicationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	StartDate string    `json:"start_date"`
	EndDate   *string   `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MedicationWithLogsResponse struct {
	MedicationResponse
	Logs []MedicationLogResponse `json:"logs"`
}

type MedicationLogResponse struct {
	ID           uuid.UUID `json:"id"`
	MedicationID uuid.UUID `json:"medication"`
	TakenAt      time.Time `json:"taken_at"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

type MedicationListResponse struct {
	Medications []MedicationResponse `json:"medications"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

type MedicationLogListResponse struct {
	Logs     []MedicationLogResponse `json:"logs"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

func toResponse(m *Medication) MedicationResponse {
	var endDate *string
	if m.EndDate != nil {
		s := time.Time(*m.EndDate).Format(dateLayout)
		endDate = &s
	}
	return MedicationResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		StartDate: time.Time(m.StartDate).Format(dateLayout),
		EndDate:   endDate,
		IsActive:  m.IsActive,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toLogResponse(l *MedicationLog) MedicationLogResponse {
	return MedicationLogResponse{
		ID:           l.ID,
		MedicationID: l.MedicationID,
		TakenAt:      l.TakenAt,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
	}
}
