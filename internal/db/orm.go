package db

import (
	"fmt"

	gormModels "propertyhub/listingsync/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables owned by the listing sync.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&gormModels.Listing{}, &gormModels.SyncLogEntry{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
