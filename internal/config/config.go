package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

const defaultJWTSecret = "secret"

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// LevelForEnvironment maps APP_ENV to the default log level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int      `json:"port"`
	Host        string   `json:"host"`
	Environment string   `json:"environment"`
	CORSOrigins []string `json:"cors_origins"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret     string `json:"jwt_secret"`
	TokenTTLHours int    `json:"token_ttl_hours"`

	// Uploads
	UploadDir     string `json:"upload_dir"`
	PublicBaseURL string `json:"public_base_url"`

	// Fixed window request limits per route group
	RateLimitEnabled bool `json:"rate_limit_enabled"`

	// Orders listed on the admin dashboard: today plus this many previous days
	RecentOrderDays int `json:"recent_order_days"`

	// First admin account created by the seed step
	SeedAdminEmail    string `json:"seed_admin_email"`
	SeedAdminPassword string `json:"seed_admin_password"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, CORSOrigins: %v, LogLevel: %s, JWTSecret: [REDACTED], TokenTTLHours: %d, UploadDir: %s, PublicBaseURL: %s, RateLimitEnabled: %t, RecentOrderDays: %d, SeedAdminEmail: %s, SeedAdminPassword: [REDACTED]}",
		c.Port, c.Host, c.Environment, c.CORSOrigins, c.LogLevel, c.TokenTTLHours, c.UploadDir, c.PublicBaseURL, c.RateLimitEnabled, c.RecentOrderDays, c.SeedAdminEmail)
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any variable is present but invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("APP_PORT out of range: %d", port)
	}

	environment := GetEnvWithDefault("APP_ENV", "development")
	jwtSecret := GetEnvWithDefault("JWT_SECRET", defaultJWTSecret)
	if environment == "production" && jwtSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	host := GetEnvWithDefault("APP_HOST", "localhost")
	config := &Config{
		Port:              port,
		Host:              host,
		Environment:       environment,
		CORSOrigins:       splitList(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:          GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:         jwtSecret,
		TokenTTLHours:     GetEnvAsType("JWT_TTL_HOURS", 24),
		UploadDir:         GetEnvWithDefault("UPLOAD_DIR", "uploads"),
		PublicBaseURL:     strings.TrimRight(GetEnvWithDefault("PUBLIC_BASE_URL", fmt.Sprintf("http://%s:%d", host, port)), "/"),
		RecentOrderDays:   GetEnvAsType("RECENT_ORDER_DAYS", 1),
		RateLimitEnabled:  GetEnvAsType("RATE_LIMIT_ENABLED", true),
		SeedAdminEmail:    GetEnvWithDefault("SEED_ADMIN_EMAIL", "admin@fastfood.local"),
		SeedAdminPassword: GetEnvWithDefault("SEED_ADMIN_PASSWORD", "admin123"),
	}
	if config.TokenTTLHours <= 0 {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be positive, got %d", config.TokenTTLHours)
	}
	if config.RecentOrderDays < 0 {
		return nil, fmt.Errorf("RECENT_ORDER_DAYS cannot be negative, got %d", config.RecentOrderDays)
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			log.Warnf("Environment variable %s is not an integer, using default", key)
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			log.Warnf("Environment variable %s is not a boolean, using default", key)
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
