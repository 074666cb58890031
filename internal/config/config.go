package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreCookie   = "cookie"
	SessionStorePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Port           string
	APIBaseURL     string        // remote clinic API; orders, reviews, products and auth live there
	APITimeout     time.Duration // zero leaves the transport default in place
	SessionStore   string        // cookie or postgres
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	DatabaseURL    string
	RedisURL       string
	AllowedOrigins string
	Environment    string // development, staging, production
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from the environment (and a .env file when present)
// and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		APITimeout:     getDuration("API_TIMEOUT", 0),
		SessionStore:   strings.ToLower(getEnv("SESSION_STORE", SessionStoreCookie)),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionTTL:     getDuration("SESSION_TTL", 30*24*time.Hour),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}
	cfg.CookieSecure = getBool("COOKIE_SECURE", cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must be set")
	}

	switch c.SessionStore {
	case SessionStoreCookie:
	case SessionStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want cookie or postgres)", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.IsProduction() {
		if c.SessionSecret == "" || c.SessionSecret == "change-this-in-production" {
			return fmt.Errorf("SESSION_SECRET must be set to a strong random value in production")
		}
		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production (got %d)", len(c.SessionSecret))
		}
		if !c.CookieSecure {
			slog.Warn("COOKIE_SECURE is disabled in production")
		}
	} else if c.SessionSecret == "" {
		c.SessionSecret = "dev-secret-not-for-production"
		slog.Info("using default SESSION_SECRET for development")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
