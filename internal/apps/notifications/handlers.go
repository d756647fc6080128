package notifications

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/dto"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	service *NotificationService
	db      *gorm.DB
}

func NewNotificationHandler(service *NotificationService, db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{service: service, db: db}
}

// MyPreferences returns the caller's preferences, creating defaults on
// first access.
func (h *NotificationHandler) MyPreferences(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	prefs, err := h.service.GetOrCreatePreferences(scope.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch preferences",
		})
	}

	return c.JSON(prefs)
}

// UpdateMyPreferences replaces the caller's preferences.
func (h *NotificationHandler) UpdateMyPreferences(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	prefs, err := h.service.UpdatePreferences(scope.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFrequency):
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{"bp_reminder_frequency": err.Error()}))
		case errors.Is(err, ErrInvalidTime):
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{"bp_reminder_time": err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update preferences",
		})
	}

	return c.JSON(prefs)
}

func (h *NotificationHandler) ListLogs(c *fiber.Ctx) error {
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

	rows, total, err := h.service.ListLogs(scope, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch notification logs",
		})
	}

	return c.JSON(NotificationLogListResponse{
		Logs:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *NotificationHandler) GetLog(c *fiber.Ctx) error {
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

	entry, err := h.service.GetLog(scope, id)
	if err != nil {
		if errors.Is(err, ErrLogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch notification log",
		})
	}

	return c.JSON(entry)
}
