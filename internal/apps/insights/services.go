package insights

import (
	"errors"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInsightNotFound = errors.New("insight not found")
	ErrTextRequired    = errors.New("insight text is required")
	ErrInvalidType     = errors.New("invalid insight type")
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrOwnerRequired   = errors.New("target user is required")
	ErrOwnerUnknown    = errors.New("target user does not exist")
)

// Notifier enqueues the insight-created notification. Wired to the task
// queue client in production; tests substitute a recorder.
type Notifier interface {
	EnqueueInsightCreated(userID uuid.UUID, insightText string)
}

type InsightService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewInsightService(db *gorm.DB, notifier Notifier) *InsightService {
	return &InsightService{db: db, notifier: notifier}
}

func (s *InsightService) List(scope access.Scope, page, pageSize int) ([]Insight, int64, error) {
	var total int64
	if err := s.db.Model(&Insight{}).Scopes(access.Scoped(scope)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Insight
	err := s.db.Scopes(access.Scoped(scope)).
		Order("generated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *InsightService) Get(scope access.Scope, id uuid.UUID) (*Insight, error) {
	var insight Insight
	err := s.db.Scopes(access.Scoped(scope)).First(&insight, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsightNotFound
		}
		return nil, err
	}
	return &insight, nil
}

// MarkRead flips is_read. The other fields never change after generation.
func (s *InsightService) MarkRead(scope access.Scope, id uuid.UUID) error {
	result := s.db.Model(&Insight{}).
		Scopes(access.Scoped(scope)).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsightNotFound
	}
	return nil
}

// Generate creates an insight for the target user and enqueues the
// insight-created notification. Admin-only; the caller supplies the owner.
func (s *InsightService) Generate(req GenerateInsightRequest) (*Insight, error) {
	if req.InsightText == "" {
		return nil, ErrTextRequired
	}
	if !containsString(ValidInsightTypes, req.InsightType) {
		return nil, ErrInvalidType
	}
	severity := req.Severity
	if severity == "" {
		severity = "low"
	}
	if !containsString(ValidSeverities, severity) {
		return nil, ErrInvalidSeverity
	}
	if req.User == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", req.User).Error; err != nil {
		return nil, ErrOwnerUnknown
	}

	insight := Insight{
		ID:          uuid.New(),
		UserID:      req.User,
		InsightText: req.InsightText,
		InsightType: req.InsightType,
		Severity:    severity,
	}

	if err := s.db.Create(&insight).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.EnqueueInsightCreated(insight.UserID, insight.InsightText)
	}

	return &insight, nil
}

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
