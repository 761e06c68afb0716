package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/database"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	user := &models.User{
		Username: email,
		Email:    email,
		FullName: "Test " + email,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createFastFood(t *testing.T, db *gorm.DB, name string, price string, active bool) *models.FastFood {
	food := &models.FastFood{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		IsActive:    true,
	}
	require.NoError(t, db.Create(food).Error)
	if !active {
		require.NoError(t, db.Model(food).Update("is_active", false).Error)
		food.IsActive = false
	}
	return food
}

func createCombo(t *testing.T, db *gorm.DB, name string, price string, items ...models.ComboItem) *models.Combo {
	combo := &models.Combo{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		IsActive:    true,
		Items:       items,
	}
	require.NoError(t, db.Create(combo).Error)
	return combo
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

var testCustomer = models.CustomerInfo{
	Name:    "Jane Doe",
	Address: "12 Main Street",
	Phone:   "0987654321",
}

func placeOrder(t *testing.T, svc OrderService, userID uint, lines ...models.RequestedLine) *models.Order {
	order, err := svc.ComposeOrder(context.Background(), userID, testCustomer, lines)
	require.NoError(t, err)
	return order
}
