package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	IdentityJWTSecret string // Required: HS256 secret shared with the identity provider
	IdentityIssuer    string // Required: issuer claim expected on identity tokens
	BootstrapToken    string // Optional: token required to perform bootstrap

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./membership.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	InvitationRetention  time.Duration // How long expired invitations are kept (default: 90 days)
}

var ErrMissingIdentitySecret = errors.New("IDENTITY_JWT_SECRET must be set")

func LoadConfig() (Config, error) {
	cfg := Config{
		IdentityJWTSecret:    os.Getenv("IDENTITY_JWT_SECRET"),
		IdentityIssuer:       getEnvOrDefault("IDENTITY_ISSUER", "flock-identity"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"), // Optional: if set, required to perform bootstrap
		DatabaseFile:         getEnvOrDefault("MEMBERSHIP_DATABASE_FILE", "membership.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		InvitationRetention:  getEnvDurationOrDefault("INVITATION_RETENTION", 90*24*time.Hour),
	}

	if cfg.IdentityJWTSecret == "" {
		return Config{}, ErrMissingIdentitySecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
