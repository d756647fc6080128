package medications

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"gorm.io/gorm"
)

type MedicationsPlugin struct{}

func New() *MedicationsPlugin {
	return &MedicationsPlugin{}
}

func (p *MedicationsPlugin) ID() string { return "medications" }

func (p *MedicationsPlugin) Models() []interface{} {
	return []interface{}{
		&Medication{},
		&MedicationLog{},
	}
}

func (p *MedicationsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewMedicationService(db)
	handler := NewMedicationHandler(svc, db)

	router.Get("/medications/active", handler.Active)
	router.Post("/medications", handler.Create)
	router.Get("/medications", handler.List)
	router.Get("/medications/:id", handler.Get)
	router.Put("/medications/:id", handler.Update)
	router.Delete("/medications/:id", handler.Delete)
	router.Post("/medications/:id/log-dose", handler.LogDose)

	router.Post("/medication-logs", handler.CreateLog)
	router.Get("/medication-logs", handler.ListLogs)
	router.Delete("/medication-logs/:id", handler.DeleteLog)
}
