package healthfactors

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"gorm.io/gorm"
)

type HealthFactorsPlugin struct{}

func New() *HealthFactorsPlugin {
	return &HealthFactorsPlugin{}
}

func (p *HealthFactorsPlugin) ID() string { return "healthfactors" }

func (p *HealthFactorsPlugin) Models() []interface{} {
	return []interface{}{
		&HealthFactor{},
	}
}

func (p *HealthFactorsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewHealthFactorService(db)
	handler := NewHealthFactorHandler(svc, db)

	router.Post("/health-factors", handler.Create)
	router.Get("/health-factors", handler.List)
	router.Get("/health-factors/:id", handler.Get)
	router.Put("/health-factors/:id", handler.Update)
	router.Delete("/health-factors/:id", handler.Delete)
}
