package healthfactors

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
	ErrSleepQualityRange    = errors.New("sleep quality must be between 1 and 5")
	ErrStressLevelRange     = errors.New("stress level must be between 1 and 5")
	ErrExerciseNegative     = errors.New("exercise duration must not be negative")
	ErrDuplicateDate        = errors.New("a health factor entry already exists for this date")
	ErrHealthFactorNotFound = errors.New("health factor entry not found")
)

type HealthFactorService struct {
	db *gorm.DB
}

func NewHealthFactorService(db *gorm.DB) *HealthFactorService {
	return &HealthFactorService{db: db}
}

func validateFactors(sleepQuality, stressLevel, exerciseDuration *int) error {
	if sleepQuality != nil && (*sleepQuality < 1 || *sleepQuality > 5) {
		return ErrSleepQualityRange
	}
	if stressLevel != nil && (*stressLevel < 1 || *stressLevel > 5) {
		return ErrStressLevelRange
	}
	if exerciseDuration != nil && *exerciseDuration < 0 {
		return ErrExerciseNegative
	}
	return nil
}

func (s *HealthFactorService) Create(scope access.Scope, req CreateHealthFactorRequest) (*HealthFactorResponse, error) {
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := validateFactors(req.SleepQuality, req.StressLevel, req.ExerciseDuration); err != nil {
		return nil, err
	}

	var requested uuid.UUID
	if req.User != nil {
		requested = *req.User
	}
	owner := access.ResolveOwner(scope, requested)

	var existing HealthFactor
	if err := s.db.Where("user_id = ? AND date = ?", owner, datatypes.Date(day)).First(&existing).Error; err == nil {
		return nil, ErrDuplicateDate
	}

	factor := HealthFactor{
		ID:               uuid.New(),
		UserID:           owner,
		Date:             datatypes.Date(day),
		SleepQuality:     req.SleepQuality,
		StressLevel:      req.StressLevel,
		ExerciseDuration: req.ExerciseDuration,
		Notes:            req.Notes,
	}

	if err := s.db.Create(&factor).Error; err != nil {
		// Concurrent create for the same (user, date): the unique index
		// serializes the race and the loser gets the conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateDate
		}
		return nil, err
	}

	resp := toResponse(&factor)
	return &resp, nil
}

func (s *HealthFactorService) List(scope access.Scope, page, pageSize int) ([]HealthFactorResponse, int64, error) {
	var total int64
	if err := s.db.Model(&HealthFactor{}).Scopes(access.Scoped(scope)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []HealthFactor
	err := s.db.Scopes(access.Scoped(scope)).
		Order("date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]HealthFactorResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *HealthFactorService) Get(scope access.Scope, id uuid.UUID) (*HealthFactorResponse, error) {
	var factor HealthFactor
	err := s.db.Scopes(access.Scoped(scope)).First(&factor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHealthFactorNotFound
		}
		return nil, err
	}
	resp := toResponse(&factor)
	return &resp, nil
}

func (s *HealthFactorService) Update(scope access.Scope, id uuid.UUID, req UpdateHealthFactorRequest) (*HealthFactorResponse, error) {
	var factor HealthFactor
	err := s.db.Scopes(access.Scoped(scope)).First(&factor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHealthFactorNotFound
		}
		return nil, err
	}

	if req.SleepQuality != nil {
		factor.SleepQuality = req.SleepQuality
	}
	if req.StressLevel != nil {
		factor.StressLevel = req.StressLevel
	}
	if req.ExerciseDuration != nil {
		factor.ExerciseDuration = req.ExerciseDuration
	}
	if req.Notes != nil {
		factor.Notes = *req.Notes
	}

	if err := validateFactors(factor.SleepQuality, factor.StressLevel, factor.ExerciseDuration); err != nil {
		return nil, err
	}

	if err := s.db.Save(&factor).Error; err != nil {
		return nil, err
	}

	resp := toResponse(&factor)
	return &resp, nil
}

func (s *HealthFactorService) Delete(scope access.Scope, id uuid.UUID) error {
	result := s.db.Scopes(access.Scoped(scope)).Where("id = ?", id).Delete(&HealthFactor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHealthFactorNotFound
	}
	return nil
}
