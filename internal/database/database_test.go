package database

import (
	"context"
	"os"
	"testing"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func TestDatabaseConfigDSN(t *testing.T) {
	testCases := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "postgres",
			config: DatabaseConfig{
				Driver: "postgres", Host: "db", Port: "5432", User: "app",
				Password: "pw", Name: "fastfood", SSLMode: "disable",
			},
			expected: "host=db user=app password=pw dbname=fastfood port=5432 sslmode=disable",
		},
		{
			name:     "sqlite enables foreign keys",
			config:   DatabaseConfig{Driver: "sqlite", Path: "fastfood.sqlite"},
			expected: "fastfood.sqlite?_foreign_keys=on",
		},
		{
			name:     "sqlite path with existing params",
			config:   DatabaseConfig{Driver: "sqlite", Path: "file::memory:?cache=shared"},
			expected: "file::memory:?cache=shared&_foreign_keys=on",
		},
		{
			name:     "unknown driver",
			config:   DatabaseConfig{Driver: "oracle"},
			expected: "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestDatabaseConfigStringRedactsPassword(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Password: "very-secret"}
	assert.NotContains(t, cfg.String(), "very-secret")
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_PATH"} {
			os.Unsetenv(key)
		}

		cfg, err := LoadDatabaseConfig()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Driver)
		assert.Equal(t, "fastfood.sqlite", cfg.Path)
		assert.Equal(t, "5432", cfg.Port)
	})

	t.Run("ignores unprefixed variables", func(t *testing.T) {
		for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_PATH"} {
			os.Unsetenv(key)
		}
		t.Setenv("PATH", "/usr/local/bin:/usr/bin")
		t.Setenv("USER", "deploy")
		t.Setenv("HOST", "workstation")
		t.Setenv("NAME", "someone")
		t.Setenv("PORT", "9999")

		cfg, err := LoadDatabaseConfig()
		require.NoError(t, err)
		assert.Equal(t, "fastfood.sqlite", cfg.Path)
		assert.Equal(t, "postgres", cfg.User)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, "fastfood", cfg.Name)
		assert.Equal(t, "5432", cfg.Port)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "POSTGRES")
		t.Setenv("DB_HOST", "postgres.internal")
		t.Setenv("DB_NAME", "orders")

		cfg, err := LoadDatabaseConfig()
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Driver)
		assert.Equal(t, "postgres.internal", cfg.Host)
		assert.Equal(t, "orders", cfg.Name)
	})
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	db, err := InitDatabase(context.Background(), DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestInitDatabaseSQLite(t *testing.T) {
	path := t.TempDir() + "/test.sqlite"

	db, err := InitDatabase(context.Background(), DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	opts := SeedOptions{AdminEmail: "admin@test.local", AdminPassword: "admin123"}

	require.NoError(t, Seed(db, opts))

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@test.local").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.CheckPassword("admin123"))

	var categories, foods, combos, comboItems int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.FastFood{}).Count(&foods)
	db.Model(&models.Combo{}).Count(&combos)
	db.Model(&models.ComboItem{}).Count(&comboItems)
	assert.Equal(t, int64(3), categories)
	assert.Equal(t, int64(15), foods)
	assert.Equal(t, int64(5), combos)
	assert.Equal(t, int64(15), comboItems)

	var beef models.FastFood
	require.NoError(t, db.Where("name = ?", "Beef Burger").First(&beef).Error)
	assert.True(t, beef.Price.Equal(beef.Price.Truncate(2)))
	assert.Equal(t, "55000", beef.Price.String())

	t.Run("second run is a no-op", func(t *testing.T) {
		require.NoError(t, Seed(db, opts))

		var users, foodsAfter int64
		db.Model(&models.User{}).Count(&users)
		db.Model(&models.FastFood{}).Count(&foodsAfter)
		assert.Equal(t, int64(1), users)
		assert.Equal(t, int64(15), foodsAfter)
	})
}

func TestComboItemsCascadeOnComboDelete(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Seed(db, SeedOptions{AdminEmail: "a@test.local", AdminPassword: "secret1"}))

	var combo models.Combo
	require.NoError(t, db.First(&combo).Error)
	require.NoError(t, db.Delete(&combo).Error)

	var remaining int64
	db.Model(&models.ComboItem{}).Where("combo_id = ?", combo.ID).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestMigrateCreatesForeignKeys(t *testing.T) {
	db := setupTestDB(t)

	type foreignKey struct {
		Table    string
		From     string
		OnDelete string
	}

	testCases := []struct {
		table    string
		expected []foreignKey
	}{
		{"order_items", []foreignKey{
			{Table: "orders", From: "order_id", OnDelete: "CASCADE"},
			{Table: "fast_foods", From: "fast_food_id", OnDelete: "RESTRICT"},
			{Table: "combos", From: "combo_id", OnDelete: "RESTRICT"},
		}},
		{"orders", []foreignKey{{Table: "users", From: "user_id", OnDelete: "CASCADE"}}},
		{"combo_items", []foreignKey{
			{Table: "combos", From: "combo_id", OnDelete: "CASCADE"},
			{Table: "fast_foods", From: "fast_food_id", OnDelete: "CASCADE"},
		}},
		{"fast_foods", []foreignKey{{Table: "categories", From: "category_id", OnDelete: "SET NULL"}}},
	}

	for _, tt := range testCases {
		t.Run(tt.table, func(t *testing.T) {
			var keys []foreignKey
			require.NoError(t, db.Raw("PRAGMA foreign_key_list(" + tt.table + ")").Scan(&keys).Error)
			assert.ElementsMatch(t, tt.expected, keys)
		})
	}
}
