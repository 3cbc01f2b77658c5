// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir              string // Base directory for the cache database
	LogLevel             string
	Port                 int
	DevMode              bool
	HistoryEnabled       bool // Persist experiment runs to the cache database
	SessionTTLMinutes    int  // Idle evolution sessions are swept after this
	HistoryRetentionDays int  // Experiment runs older than this are pruned
}

// Load reads configuration from environment variables, with an optional .env
// file for development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("QUBITLAB_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		Port:                 getEnvAsInt("QUBITLAB_PORT", 8080),
		DevMode:              getEnvAsBool("QUBITLAB_DEV_MODE", false),
		LogLevel:             getEnv("QUBITLAB_LOG_LEVEL", "info"),
		HistoryEnabled:       getEnvAsBool("QUBITLAB_HISTORY_ENABLED", true),
		SessionTTLMinutes:    getEnvAsInt("QUBITLAB_SESSION_TTL", 30),
		HistoryRetentionDays: getEnvAsInt("QUBITLAB_HISTORY_RETENTION_DAYS", 7),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("session TTL must be at least one minute, got %d", c.SessionTTLMinutes)
	}
	if c.HistoryRetentionDays < 1 {
		return fmt.Errorf("history retention must be at least one day, got %d", c.HistoryRetentionDays)
	}
	return nil
}

// CacheDBPath returns the path of the cache database file.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
