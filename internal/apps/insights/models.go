package insights

import (
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/models"
)

var ValidInsightTypes = []string{"trend", "anomaly", "correlation", "alert"}
var ValidSeverities = []string{"low", "medium", "high"}

// Insight is an analysis result surfaced to the user. Text, type and
// severity are immutable after generation; only is_read can change.
type Insight struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index:idx_insights_user_generated" json:"user_id"`
	InsightText string      `gorm:"type:text;not null" json:"insight_text"`
	InsightType string      `gorm:"size:50;not null" json:"insight_type"`
	Severity    string      `gorm:"size:20;not null;default:'low'" json:"severity"`
	IsRead      bool        `gorm:"default:false" json:"is_read"`
	GeneratedAt time.Time   `gorm:"autoCreateTime;index:idx_insights_user_generated,sort:desc" json:"generated_at"`
	User        models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// --- DTOs ---

type GenerateInsightRequest struct {
	User        uuid.UUID `json:"user"`
	InsightText string    `json:"insight_text"`
	InsightType string    `json:"insight_type"`
	Severity    string    `json:"severity"`
}

type InsightListResponse struct {
	Insights []Insight `json:"insights"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
