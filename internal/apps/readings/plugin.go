package readings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"gorm.io/gorm"
)

type ReadingsPlugin struct{}

func New() *ReadingsPlugin {
	return &ReadingsPlugin{}
}

func (p *ReadingsPlugin) ID() string { return "readings" }

func (p *ReadingsPlugin) Models() []interface{} {
	return []interface{}{
		&Reading{},
	}
}

func (p *ReadingsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewReadingService(db)
	handler := NewReadingHandler(svc, db)

	// export-pdf must register before the :id route
	router.Get("/readings/export-pdf", handler.ExportPDF)
	router.Post("/readings", handler.Create)
	router.Get("/readings", handler.List)
	router.Get("/readings/:id", handler.Get)
	router.Put("/readings/:id", handler.Update)
	router.Delete("/readings/:id", handler.Delete)
}
