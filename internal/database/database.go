package database

import (
	"log"

	"github.com/rocfit/classtrack-api/internal/config"
	"github.com/rocfit/classtrack-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// Migrate applies the schema. Split out so tests can run it against an
// in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.Organization{},
		&models.Session{},
		&models.Activity{},
		&models.Student{},
		&models.Enrollment{},
		&models.Meeting{},
		&models.AttendanceRecord{},
		&models.Cancellation{},
	)
}
