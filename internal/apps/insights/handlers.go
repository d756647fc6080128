package insights

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/dto"
	"gorm.io/gorm"
)

type InsightHandler struct {
	service *InsightService
	db      *gorm.DB
}

func NewInsightHandler(service *InsightService, db *gorm.DB) *InsightHandler {
	return &InsightHandler{service: service, db: db}
}

func (h *InsightHandler) List(c *fiber.Ctx) error {
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
			Error: true, Message: "Failed to fetch insights",
		})
	}

	return c.JSON(InsightListResponse{
		Insights: rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *InsightHandler) Get(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid insight ID",
		})
	}

	insight, err := h.service.Get(scope, id)
	if err != nil {
		if errors.Is(err, ErrInsightNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch insight",
		})
	}

	return c.JSON(insight)
}

func (h *InsightHandler) MarkRead(c *fiber.Ctx) error {
	scope, err := access.Resolve(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid insight ID",
		})
	}

	if err := h.service.MarkRead(scope, id); err != nil {
		if errors.Is(err, ErrInsightNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to mark insight as read",
		})
	}

	return c.JSON(dto.StatusResponse{Status: "marked as read"})
}

// Generate is mounted under the admin group.
func (h *InsightHandler) Generate(c *fiber.Ctx) error {
	var req GenerateInsightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	insight, err := h.service.Generate(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrTextRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{"insight_text": err.Error()}))
		case errors.Is(err, ErrInvalidType):
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{"insight_type": err.Error()}))
		case errors.Is(err, ErrInvalidSeverity):
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{"severity": err.Error()}))
		case errors.Is(err, ErrOwnerRequired), errors.Is(err, ErrOwnerUnknown):
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{"user": err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate insight",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(insight)
}
