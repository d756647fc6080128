package readings

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/dto"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"gorm.io/gorm"
)

type ReadingHandler struct {
	service *ReadingService
	db      *gorm.DB
}

func NewReadingHandler(service *ReadingService, db *gorm.DB) *ReadingHandler {
	return &ReadingHandler{service: service, db: db}
}

func (h *ReadingHandler) scope(c *fiber.Ctx) (access.Scope, error) {
	return access.Resolve(c, h.db)
}

func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrSystolicRange):
		return "systolic", true
	case errors.Is(err, ErrDiastolicRange):
		return "diastolic", true
	case errors.Is(err, ErrHeartRateRange):
		return "heart_rate", true
	}
	return "", false
}

func (h *ReadingHandler) Create(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateReadingRequest
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
			Error: true, Message: "Failed to create reading",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ReadingHandler) List(c *fiber.Ctx) error {
	scope, err := h.scope(c)
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
			Error: true, Message: "Failed to fetch readings",
		})
	}

	return c.JSON(ReadingListResponse{
		Readings: rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ReadingHandler) Get(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reading ID",
		})
	}

	resp, err := h.service.Get(scope, id)
	if err != nil {
		if errors.Is(err, ErrReadingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reading",
		})
	}

	return c.JSON(resp)
}

func (h *ReadingHandler) Update(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reading ID",
		})
	}

	var req UpdateReadingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.service.Update(scope, id, req)
	if err != nil {
		if errors.Is(err, ErrReadingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if field, ok := validationField(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.FieldErrors(map[string]string{field: err.Error()}))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update reading",
		})
	}

	return c.JSON(resp)
}

func (h *ReadingHandler) Delete(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reading ID",
		})
	}

	if err := h.service.Delete(scope, id); err != nil {
		if errors.Is(err, ErrReadingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete reading",
		})
	}

	return c.JSON(dto.StatusResponse{Status: "reading deleted"})
}

// ExportPDF streams the requester's full reading history as a PDF attachment.
func (h *ReadingHandler) ExportPDF(c *fiber.Ctx) error {
	scope, err := h.scope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	rows, err := h.service.AllForUser(scope.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch readings",
		})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", scope.UserID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load user",
		})
	}

	pdfBytes, err := BuildReport(&user, rows)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate report",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+ReportFilename+`"`)
	return c.Send(pdfBytes)
}
