package insights

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"gorm.io/gorm"
)

type InsightsPlugin struct {
	notifier Notifier
}

func New(notifier Notifier) *InsightsPlugin {
	return &InsightsPlugin{notifier: notifier}
}

func (p *InsightsPlugin) ID() string { return "insights" }

func (p *InsightsPlugin) Models() []interface{} {
	return []interface{}{
		&Insight{},
	}
}

func (p *InsightsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewInsightService(db, p.notifier)
	handler := NewInsightHandler(svc, db)

	router.Get("/insights", handler.List)
	router.Get("/insights/:id", handler.Get)
	router.Post("/insights/:id/mark-read", handler.MarkRead)
}

func (p *InsightsPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewInsightService(db, p.notifier)
	handler := NewInsightHandler(svc, db)

	router.Post("/insights", handler.Generate)
}
