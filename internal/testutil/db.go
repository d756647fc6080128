package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/apps/healthfactors"
	"github.com/okalmanwa/heart-monitor/internal/apps/insights"
	"github.com/okalmanwa/heart-monitor/internal/apps/medications"
	"github.com/okalmanwa/heart-monitor/internal/apps/notifications"
	"github.com/okalmanwa/heart-monitor/internal/apps/readings"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory SQLite database with the full schema
// migrated. Each call returns an isolated database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.SystemLog{},
		&readings.Reading{},
		&healthfactors.HealthFactor{},
		&medications.Medication{},
		&medications.MedicationLog{},
		&insights.Insight{},
		&notifications.NotificationPreferences{},
		&notifications.NotificationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateUser inserts a user with a bcrypt-hashed password.
func CreateUser(t *testing.T, db *gorm.DB, email string, staff bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		IsStaff:  staff,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
