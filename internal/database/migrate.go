package database

import (
	"fmt"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.FastFood{},
		&models.Combo{},
		&models.ComboItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusChange{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	}
}

// Migrate creates or updates the schema for all entities
func Migrate(db *gorm.DB) error {
	log.Info("Running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}
