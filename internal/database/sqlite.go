package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/config"
	"github.com/andragastia/tiktok-prediction-system-nighmode/internal/models"
)

var DB *gorm.DB

func ConnectDB() error {
	cfg := config.GlobalConfig

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("✅ Database connected successfully (SQLite at %s)", cfg.DBPath)
	return nil
}

func AutoMigrate() error {
	entities := []interface{}{
		&models.User{},
		&models.VideoRecord{},
	}

	for _, entity := range entities {
		if err := DB.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}

	log.Println("✅ Database migration completed")
	return nil
}
