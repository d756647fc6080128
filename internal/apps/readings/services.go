package readings

import (
	"errors"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"gorm.io/gorm"
)

var (
	ErrSystolicRange   = errors.New("systolic pressure must be between 50 and 250")
	ErrDiastolicRange  = errors.New("diastolic pressure must be between 30 and 200")
	ErrHeartRateRange  = errors.New("heart rate must be between 30 and 200")
	ErrReadingNotFound = errors.New("reading not found")
)

type ReadingService struct {
	db *gorm.DB
}

func NewReadingService(db *gorm.DB) *ReadingService {
	return &ReadingService{db: db}
}

func validateReading(systolic, diastolic int, heartRate *int) error {
	if systolic < 50 || systolic > 250 {
		return ErrSystolicRange
	}
	if diastolic < 30 || diastolic > 200 {
		return ErrDiastolicRange
	}
	if heartRate != nil && (*heartRate < 30 || *heartRate > 200) {
		return ErrHeartRateRange
	}
	return nil
}

func (s *ReadingService) Create(scope access.Scope, req CreateReadingRequest) (*ReadingResponse, error) {
	if err := validateReading(req.Systolic, req.Diastolic, req.HeartRate); err != nil {
		return nil, err
	}

	var requested uuid.UUID
	if req.User != nil {
		requested = *req.User
	}

	reading := Reading{
		ID:         uuid.New(),
		UserID:     access.ResolveOwner(scope, requested),
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		HeartRate:  req.HeartRate,
		RecordedAt: req.RecordedAt,
		Notes:      req.Notes,
	}

	if err := s.db.Create(&reading).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&reading, "id = ?", reading.ID).Error; err != nil {
		return nil, err
	}

	resp := toResponse(&reading)
	return &resp, nil
}

func (s *ReadingService) List(scope access.Scope, page, pageSize int) ([]ReadingResponse, int64, error) {
	var total int64
	if err := s.db.Model(&Reading{}).Scopes(access.Scoped(scope)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Reading
	err := s.db.Scopes(access.Scoped(scope)).
		Preload("User").
		Order("recorded_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]ReadingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *ReadingService) Get(scope access.Scope, id uuid.UUID) (*ReadingResponse, error) {
	var reading Reading
	err := s.db.Scopes(access.Scoped(scope)).Preload("User").First(&reading, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}
	resp := toResponse(&reading)
	return &resp, nil
}

func (s *ReadingService) Update(scope access.Scope, id uuid.UUID, req UpdateReadingRequest) (*ReadingResponse, error) {
	var reading Reading
	err := s.db.Scopes(access.Scoped(scope)).First(&reading, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}

	if req.Systolic != nil {
		reading.Systolic = *req.Systolic
	}
	if req.Diastolic != nil {
		reading.Diastolic = *req.Diastolic
	}
	if req.HeartRate != nil {
		reading.HeartRate = req.HeartRate
	}
	if req.RecordedAt != nil {
		reading.RecordedAt = *req.RecordedAt
	}
	if req.Notes != nil {
		reading.Notes = *req.Notes
	}

	if err := validateReading(reading.Systolic, reading.Diastolic, reading.HeartRate); err != nil {
		return nil, err
	}

	if err := s.db.Save(&reading).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&reading, "id = ?", reading.ID).Error; err != nil {
		return nil, err
	}

	resp := toResponse(&reading)
	return &resp, nil
}

func (s *ReadingService) Delete(scope access.Scope, id uuid.UUID) error {
	result := s.db.Scopes(access.Scoped(scope)).Where("id = ?", id).Delete(&Reading{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReadingNotFound
	}
	return nil
}

// AllForUser returns every reading owned by the given user in descending
// recorded-time order. Used by the PDF export, which always reports the
// requester's own history.
func (s *ReadingService) AllForUser(userID uuid.UUID) ([]Reading, error) {
	var rows []Reading
	err := s.db.Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Find(&rows).Error
	return rows, err
}
