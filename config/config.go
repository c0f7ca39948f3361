// Package config loads the console's settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
type Config struct {
	Client        ClientConfig
	DevServer     DevServerConfig
	Observability ObservabilityConfig
	Environment   string
}

// ClientConfig holds the console's client-side settings.
type ClientConfig struct {
	BaseURL         string
	StatePath       string        // session document location
	AccessTablePath string        // optional YAML override for the department grants
	RefreshInterval time.Duration // periodic resync cadence
	RequestTimeout  time.Duration
}

// DevServerConfig holds the local development server's settings.
type DevServerConfig struct {
	Host       string
	Port       int
	SigningKey string
	TokenTTL   time.Duration
	Database   *DatabaseConfig // optional: serve reads from Postgres when set
}

// DatabaseConfig holds PostgreSQL settings. When ConnectionString (from
// DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
}

// ObservabilityConfig holds logging configuration.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New loads the configuration from the environment.
func New() (*Config, error) {
	// Load .env if present; explicit environment always wins.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Client: ClientConfig{
			BaseURL:         getEnv("SHIPYARD_API_URL", "http://localhost:8080/api"),
			StatePath:       getEnv("SHIPYARD_STATE_PATH", defaultStatePath()),
			AccessTablePath: getEnv("SHIPYARD_ACCESS_TABLE", ""),
			RefreshInterval: getEnvAsDuration("SHIPYARD_REFRESH_INTERVAL", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SHIPYARD_REQUEST_TIMEOUT", 15*time.Second),
		},
		DevServer: DevServerConfig{
			Host:       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:       getPort(),
			SigningKey: getEnv("JWT_SIGNING_KEY", "dev-only-signing-key"),
			TokenTTL:   getEnvAsDuration("JWT_TTL", 12*time.Hour),
			Database:   loadDatabaseConfig(),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required fields are set and coherent.
func (c *Config) Validate() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("api base url is required: set SHIPYARD_API_URL")
	}
	if _, err := url.Parse(c.Client.BaseURL); err != nil {
		return fmt.Errorf("invalid SHIPYARD_API_URL: %w", err)
	}
	if c.Client.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if c.IsProduction() && c.DevServer.SigningKey == "dev-only-signing-key" {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	return nil
}

// IsProduction returns true if running in a production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the dev server's listen address.
func (c *DevServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the PostgreSQL connection string. Uses ConnectionString (from
// DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password).
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadDatabaseConfig returns nil when no database is configured; the dev
// server then runs fully in memory.
func loadDatabaseConfig() *DatabaseConfig {
	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		return &DatabaseConfig{ConnectionString: dbURL}
	}
	if getEnv("DB_HOST", "") == "" {
		return nil
	}
	return &DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "shipyard"),
		Password: getEnv("DB_PASSWORD", ""),
		Database: getEnv("DB_NAME", "shipyard"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// defaultStatePath keeps the session document under the user's home.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shipyard/session.json"
	}
	return filepath.Join(home, ".shipyard", "session.json")
}

// Helper functions

// getPort returns the dev server port from PORT or SERVER_PORT (default: 8080).
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
