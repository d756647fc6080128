package healthfactors

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/dto"
	"gorm.io/gorm"
)

type HealthFactorHandler struct {
	service *HealthFactorService
	db      *gorm.DB
}

func NewHealthFactorHandler(service *HealthFactorService, db *gorm.DB) *HealthFactorHandler {
	return &HealthFactorHandler{service: service, db: db}
}

func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return "date", true
	case errors.Is(err, ErrSleepQualityRange):
		return "sleep_quality", true
	case errors.Is(err, ErrStressLevelRange):
		return "stress_level", true
	case errors.Is(err, ErrExerciseNegative):
		return "exercise_duration", true
	}
	return "", false
}

func (h *HealthFactorHandler) Create(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateHealthFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.Create(scope, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateDate) {
			return c.Status(fiber.StatusConflict).JSON(dto.FieldConflict("date", err.Error()))
		}
		if field, ok := validationField(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{field: err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create health factor entry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *HealthFactorHandler) List(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	rows, total, err := h.service.List(scope, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch health factors",
		})
	}

	return c.JSON(HealthFactorListResponse{
		HealthFactors: rows,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	})
}

func (h *HealthFactorHandler) Get(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	resp, err := h.service.Get(scope, id)
	if err != nil {
		if errors.Is(err, ErrHealthFactorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch health factor entry",
		})
	}

	return c.JSON(resp)
}

func (h *HealthFactorHandler) Update(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	var req UpdateHealthFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.Update(scope, id, req)
	if err != nil {
		if errors.Is(err, ErrHealthFactorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if field, ok := validationField(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{field: err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update health factor entry",
		})
	}

	return c.JSON(resp)
}

func (h *HealthFactorHandler) Delete(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	if err := h.service.Delete(scope, id); err != nil {
		if errors.Is(err, ErrHealthFactorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete health factor entry",
		})
	}

	return c.JSON(dto.StatusResponse{Status: "entry deleted"})
}
