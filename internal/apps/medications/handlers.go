package medications

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/dto"
	"gorm.io/gorm"
)

type MedicationHandler struct {
	service *MedicationService
	db      *gorm.DB
}

func NewMedicationHandler(service *MedicationService, db *gorm.DB) *MedicationHandler {
	return &MedicationHandler{service: service, db: db}
}

func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNameRequired):
		return "name", true
	case errors.Is(err, ErrDosageRequired):
		return "dosage", true
	case errors.Is(err, ErrInvalidFrequency):
		return "frequency", true
	case errors.Is(err, ErrInvalidStartDate):
		return "start_date", true
	case errors.Is(err, ErrInvalidEndDate):
		return "end_date", true
	}
	return "", false
}

func pageParams(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func (h *MedicationHandler) Create(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateMedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.Create(scope, req)
	if err != nil {
		if field, ok := validationField(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{field: err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create medication",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *MedicationHandler) List(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, pageSize := pageParams(c)
	rows, total, err := h.service.List(scope, false, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch medications",
		})
	}

	return c.JSON(MedicationListResponse{
		Medications: rows,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	})
}

// Active lists the scope's currently active medications.
func (h *MedicationHandler) Active(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, pageSize := pageParams(c)
	rows, total, err := h.service.List(scope, true, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch medications",
		})
	}

	return c.JSON(MedicationListResponse{
		Medications: rows,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (h *MedicationHandler) Get(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid medication ID",
		})
	}

	resp, err := h.service.Get(scope, id)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch medication",
		})
	}

	return c.JSON(resp)
}

func (h *MedicationHandler) Update(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid medication ID",
		})
	}

	var req UpdateMedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.Update(scope, id, req)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if field, ok := validationField(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{field: err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update medication",
		})
	}

	return c.JSON(resp)
}

func (h *MedicationHandler) Delete(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid medication ID",
		})
	}

	if err := h.service.Delete(scope, id); err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete medication",
		})
	}

	return c.JSON(dto.StatusResponse{Status: "medication deleted"})
}

// LogDose records a dose against a single medication.
func (h *MedicationHandler) LogDose(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid medication ID",
		})
	}

	var req LogDoseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.LogDose(scope, id, req)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to log dose",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *MedicationHandler) CreateLog(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.CreateLog(scope, req)
	if err != nil {
		if errors.Is(err, ErrLogNotPermitted) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, ErrMedicationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create medication log",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *MedicationHandler) ListLogs(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var medicationID *uuid.UUID
	if raw := c.Query("medication"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid medication ID",
			})
		}
		medicationID = &parsed
	}

	page, pageSize := pageParams(c)
	rows, total, err := h.service.ListLogs(scope, medicationID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch medication logs",
		})
	}

	return c.JSON(MedicationLogListResponse{
		Logs:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *MedicationHandler) DeleteLog(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid log ID",
		})
	}

	if err := h.service.DeleteLog(scope, id); err != nil {
		if errors.Is(err, ErrLogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete medication log",
		})
	}

	return c.JSON(dto.StatusResponse{Status: "log deleted"})
}
