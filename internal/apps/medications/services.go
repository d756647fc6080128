package medications

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNameRequired       = errors.New("medication name is required")
	ErrDosageRequired     = errors.New("dosage is required")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidStartDate   = errors.New("start date must be in YYYY-MM-DD format")
	ErrInvalidEndDate     = errors.New("end date must be in YYYY-MM-DD format")
	ErrMedicationNotFound = errors.New("medication not found")
	ErrLogNotFound        = errors.New("medication log not found")
	ErrLogNotPermitted    = errors.New("you don't have permission to log this medication")
)

type MedicationService struct {
	db *gorm.DB
}

func NewMedicationService(db *gorm.DB) *MedicationService {
	return &MedicationService{db: db}
}

func (s *MedicationService) Create(scope access.Scope, req CreateMedicationRequest) (*MedicationResponse, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.Dosage == "" {
		return nil, ErrDosageRequired
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = "once_daily"
	}
	if !isValidFrequency(frequency) {
		return nil, ErrInvalidFrequency
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}

	// end_date is deliberately not checked against start_date; the shipped
	// product accepts either ordering.
	var endDate *datatypes.Date
	if req.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrInvalidEndDate
		}
		d := datatypes.Date(parsed)
		endDate = &d
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var requested uuid.UUID
	if req.User != nil {
		requested = *req.User
	}

	medication := Medication{
		ID:        uuid.New(),
		UserID:    access.ResolveOwner(scope, requested),
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: frequency,
		StartDate: datatypes.Date(startDate),
		EndDate:   endDate,
		IsActive:  isActive,
		Notes:     req.Notes,
	}

	if err := s.db.Create(&medication).Error; err != nil {
		return nil, err
	}

	resp := toResponse(&medication)
	return &resp, nil
}

func (s *MedicationService) List(scope access.Scope, activeOnly bool, page, pageSize int) ([]MedicationResponse, int64, error) {
	query := s.db.Model(&Medication{}).Scopes(access.Scoped(scope))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Medication
	err := query.
		Order("is_active DESC, start_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]MedicationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, total, nil
}

// Get returns a medication with its recent dose logs.
func (s *MedicationService) Get(scope access.Scope, id uuid.UUID) (*MedicationWithLogsResponse, error) {
	var medication Medication
	err := s.db.Scopes(access.Scoped(scope)).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("taken_at DESC").Limit(50)
		}).
		First(&medication, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}

	logs := make([]MedicationLogResponse, 0, len(medication.Logs))
	for i := range medication.Logs {
		logs = append(logs, toLogResponse(&medication.Logs[i]))
	}

	return &MedicationWithLogsResponse{
		MedicationResponse: toResponse(&medication),
		Logs:               logs,
	}, nil
}

func (s *MedicationService) Update(scope access.Scope, id uuid.UUID, req UpdateMedicationRequest) (*MedicationResponse, error) {
	var medication Medication
	err := s.db.Scopes(access.Scoped(scope)).First(&medication, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrNameRequired
		}
		medication.Name = *req.Name
	}
	if req.Dosage != nil {
		if *req.Dosage == "" {
			return nil, ErrDosageRequired
		}
		medication.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		if !isValidFrequency(*req.Frequency) {
			return nil, ErrInvalidFrequency
		}
		medication.Frequency = *req.Frequency
	}
	if req.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
		medication.StartDate = datatypes.Date(parsed)
	}
	if req.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrInvalidEndDate
		}
		d := datatypes.Date(parsed)
		medication.EndDate = &d
	}
	if req.IsActive != nil {
		medication.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		medication.Notes = *req.Notes
	}

	if err := s.db.Save(&medication).Error; err != nil {
		return nil, err
	}

	resp := toResponse(&medication)
	return &resp, nil
}

func (s *MedicationService) Delete(scope access.Scope, id uuid.UUID) error {
	var medication Medication
	err := s.db.Scopes(access.Scoped(scope)).First(&medication, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMedicationNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medication_id = ?", medication.ID).Delete(&MedicationLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&medication).Error
	})
}

// LogDose records a dose against a medication visible to the scope.
func (s *MedicationService) LogDose(scope access.Scope, medicationID uuid.UUID, req LogDoseRequest) (*MedicationLogResponse, error) {
	var medication Medication
	err := s.db.Scopes(access.Scoped(scope)).First(&medication, "id = ?", medicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}

	return s.createLog(&medication, req.TakenAt, req.Notes)
}

// CreateLog handles the standalone log collection endpoint. Unlike the
// general write rule, logging against someone else's medication is an
// explicit permission error, not a silent owner override.
func (s *MedicationService) CreateLog(scope access.Scope, req CreateLogRequest) (*MedicationLogResponse, error) {
	var medication Medication
	if err := s.db.First(&medication, "id = ?", req.Medication).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}

	if medication.UserID != scope.UserID && !scope.Admin {
		return nil, ErrLogNotPermitted
	}

	return s.createLog(&medication, req.TakenAt, req.Notes)
}

func (s *MedicationService) createLog(medication *Medication, takenAt time.Time, notes string) (*MedicationLogResponse, error) {
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	entry := MedicationLog{
		ID:           uuid.New(),
		MedicationID: medication.ID,
		TakenAt:      takenAt,
		Notes:        notes,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}

	resp := toLogResponse(&entry)
	return &resp, nil
}

// ListLogs returns dose logs visible to the scope, optionally filtered by
// medication. Log visibility follows the owning medication's owner.
func (s *MedicationService) ListLogs(scope access.Scope, medicationID *uuid.UUID, page, pageSize int) ([]MedicationLogResponse, int64, error) {
	query := s.db.Model(&MedicationLog{}).
		Joins("JOIN medications ON medications.id = medication_logs.medication_id")
	if !scope.Admin {
		query = query.Where("medications.user_id = ?", scope.UserID)
	}
	if medicationID != nil {
		query = query.Where("medication_logs.medication_id = ?", *medicationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []MedicationLog
	err := query.
		Order("medication_logs.taken_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]MedicationLogResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toLogResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *MedicationService) DeleteLog(scope access.Scope, id uuid.UUID) error {
	var entry MedicationLog
	err := s.db.Preload("Medication").First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLogNotFound
		}
		return err
	}

	if entry.Medication.UserID != scope.UserID && !scope.Admin {
		// Out-of-scope deletes look like missing rows, consistent with reads.
		return ErrLogNotFound
	}

	return s.db.Delete(&entry).Error
}
