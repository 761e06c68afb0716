package database

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds database connection configuration.
// Values are read from DB_* environment variables only; the tags carry the
// full names so unprefixed variables such as PATH or USER are never used.
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string `envconfig:"DB_DRIVER" default:"sqlite"`

	// PostgreSQL-specific configuration
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"fastfood"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// SQLite-specific configuration
	Path string `envconfig:"DB_PATH" default:"fastfood.sqlite"`
}

// LoadDatabaseConfig reads DB_DRIVER, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,
// DB_NAME, DB_SSLMODE and DB_PATH
func LoadDatabaseConfig() (DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return DatabaseConfig{}, fmt.Errorf("loading database config: %w", err)
	}
	cfg.Driver = strings.ToLower(cfg.Driver)
	return cfg, nil
}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// DSN builds a Data Source Name string based on the driver.
// SQLite connections always enable foreign key enforcement.
func (c *DatabaseConfig) DSN() string {
	switch strings.ToLower(c.Driver) {
	case "postgres", "postgresql":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite", "":
		if strings.Contains(c.Path, "?") {
			return c.Path + "&_foreign_keys=on"
		}
		return c.Path + "?_foreign_keys=on"
	default:
		return ""
	}
}
