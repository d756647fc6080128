package notifications

import (
	"github.com/gofiber/fiber/v2"
	"github.com/okalmanwa/heart-monitor/internal/config"
	"gorm.io/gorm"
)

type NotificationsPlugin struct{}

func New() *NotificationsPlugin {
	return &NotificationsPlugin{}
}

func (p *NotificationsPlugin) ID() string { return "notifications" }

func (p *NotificationsPlugin) Models() []interface{} {
	return []interface{}{
		&NotificationPreferences{},
		&NotificationLog{},
	}
}

func (p *NotificationsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewNotificationService(db)
	handler := NewNotificationHandler(svc, db)

	router.Get("/notifications/my-preferences", handler.MyPreferences)
	router.Put("/notifications/my-preferences", handler.UpdateMyPreferences)
	router.Get("/notifications/logs", handler.ListLogs)
	router.Get("/notifications/logs/:id", handler.GetLog)
}

func (p *NotificationsPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewNotificationService(db)
	handler := NewNotificationHandler(svc, db)

	// Admin scope already widens ListLogs to every user's rows.
	router.Get("/notifications/logs", handler.ListLogs)
}
